package cmd

import (
	"fmt"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/spf13/cobra"
)

// newLogoutCommand creates the logout cobra command with the given RunE function.
func newLogoutCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the cached session",
		Long: `Sign out of Tableau and remove the cached session for the profile.

A sign-out the server rejects (for example because the session already
expired) is ignored; the cached session is removed either way.
Use --forget-secret to also delete the token secret from the OS keyring.`,
		RunE: runFn,
	}

	cmd.Flags().Bool("forget-secret", false, "Also delete the Personal Access Token secret from the keyring")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return newLogoutCommand(func(cmd *cobra.Command, args []string) error {
		env, err := bootstrapTableau()
		if err != nil {
			return err
		}
		return runLogout(cmd, env.cfg, env.service, env.sessions(), env.secrets)
	})
}

// NewLogoutCommandWithDeps creates a logout command with injected dependencies for testing
func NewLogoutCommandWithDeps(cfg *config.Config, signOut sessionSignerOut, store sessionStore, secrets secretStore) *cobra.Command {
	return newLogoutCommand(func(cmd *cobra.Command, args []string) error {
		return runLogout(cmd, cfg, signOut, store, secrets)
	})
}

func runLogout(cmd *cobra.Command, cfg *config.Config, signOut sessionSignerOut, store sessionStore, secrets secretStore) error {
	forgetSecret, _ := cmd.Flags().GetBool("forget-secret")

	_, profile, err := config.GetProfile(cfg, profileName)
	if err != nil {
		return err
	}

	session, ok := store.Load(profile.Server, profile.Site)
	if ok {
		if err := signOut.SignOut(cmd.Context(), session); err != nil {
			log.Info("Sign out failed, clearing cached session anyway: %v", err)
		}
		store.Clear(profile.Server, profile.Site)
		fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", session.BaseURL)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
	}

	if forgetSecret {
		if err := secrets.DeleteSecret(profile.TokenName); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token secret for %q removed from the keyring\n", profile.TokenName)
	}

	return nil
}
