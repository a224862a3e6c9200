package cmd

import (
	"fmt"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the profile and cached session",
		Long:  "Display the selected profile and whether a cached Tableau session is available for it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrapTableau()
			if err != nil {
				return err
			}
			return runStatus(cmd, env.cfg, env.sessions())
		},
	}
}

// NewStatusCommandWithDeps creates a status command with injected dependencies for testing
func NewStatusCommandWithDeps(cfg *config.Config, store sessionStore) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the profile and cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, cfg, store)
		},
	}
}

func runStatus(cmd *cobra.Command, cfg *config.Config, store sessionStore) error {
	name, profile, err := config.GetProfile(cfg, profileName)
	if err != nil {
		return err
	}

	session, ok := store.Load(profile.Server, profile.Site)

	if isJSONOutput() {
		data := statusOutput{
			Profile:       name,
			Server:        profile.Server,
			Site:          profile.Site,
			Authenticated: ok,
		}
		if ok {
			signedInAt := session.SignedInAt
			data.SiteID = session.SiteID
			data.UserID = session.UserID
			data.APIVersion = session.APIVersion
			data.SignedInAt = &signedInAt
		}
		return writeJSON(cmd.OutOrStdout(), data)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile: %s\n", name)
	fmt.Fprintf(out, "Server: %s\n", profile.Server)
	if profile.Site != "" {
		fmt.Fprintf(out, "Site: %s\n", profile.Site)
	} else {
		fmt.Fprintln(out, "Site: (default)")
	}

	if !ok {
		fmt.Fprintln(out, "\nNot signed in. Run 'tabrotate login' first.")
		return nil
	}

	fmt.Fprintf(out, "\nSigned in as user %s (site id %s)\n", session.UserID, session.SiteID)
	fmt.Fprintf(out, "  Signed in %s\n", humanize.Time(session.SignedInAt))
	fmt.Fprintf(out, "  API version: %s\n", session.APIVersion)

	return nil
}
