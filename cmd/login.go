package cmd

import (
	"fmt"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to Tableau with your Personal Access Token",
		Long: `Sign in to Tableau with the profile's Personal Access Token and cache the session.

Later commands reuse the cached session until it expires (session_ttl in the
config, default 2h). Run 'tabrotate configure' first to set up a profile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrapTableau()
			if err != nil {
				return err
			}
			return runLogin(cmd, env.cfg, env.signer(true))
		},
	}
}

// NewLoginCommandWithDeps creates a login command with injected dependencies for testing
func NewLoginCommandWithDeps(cfg *config.Config, signer sessionSigner) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to Tableau with your Personal Access Token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, cfg, signer)
		},
	}
}

func runLogin(cmd *cobra.Command, cfg *config.Config, signer sessionSigner) error {
	name, profile, err := config.GetProfile(cfg, profileName)
	if err != nil {
		return err
	}

	log.Info("Signing in to %s with profile %q...", profile.Server, name)
	session, err := signer.SignIn(cmd.Context(), signInRequest(profile))
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	site := session.SiteContentURL
	if site == "" {
		site = "(default)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in to %s\n", session.BaseURL)
	fmt.Fprintf(cmd.OutOrStdout(), "  Site: %s\n", site)
	fmt.Fprintf(cmd.OutOrStdout(), "  User: %s\n", session.UserID)

	return nil
}
