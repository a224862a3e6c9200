package cmd

import (
	"fmt"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/aaearon/tabrotate/internal/ui"
	"github.com/spf13/cobra"
)

// newListCommand creates the list cobra command with the given RunE function.
func newListCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List embedded connections grouped by server, port and username",
		Long: `List every embedded connection on the site, grouped by server, port and username,
without changing anything.

Use this command to find the group id to pass to 'tabrotate --group'. Supports
both text and JSON output for programmatic consumption.

Examples:
  # List connection groups
  tabrotate list

  # Show the data sources and workbooks in each group
  tabrotate list --members

  # JSON output for programmatic use
  tabrotate list --output json`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runFn,
	}

	cmd.Flags().Bool("members", false, "Show the data sources and workbooks in each group")
	cmd.Flags().Bool("refresh", false, "Sign in again instead of reusing the cached session")

	return cmd
}

// NewListCommand creates the production list command.
func NewListCommand() *cobra.Command {
	return newListCommand(func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")

		env, err := bootstrapTableau()
		if err != nil {
			return err
		}

		return runList(cmd, env.cfg, env.signer(refresh), env.service, env.sessions())
	})
}

// NewListCommandWithDeps creates a list command with injected dependencies for testing.
func NewListCommandWithDeps(cfg *config.Config, signer sessionSigner, enumerator inventoryEnumerator, store sessionStore) *cobra.Command {
	return newListCommand(func(cmd *cobra.Command, args []string) error {
		return runList(cmd, cfg, signer, enumerator, store)
	})
}

func runList(cmd *cobra.Command, cfg *config.Config, signer sessionSigner, enumerator inventoryEnumerator, store sessionStore) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	showMembers, _ := cmd.Flags().GetBool("members")

	_, profile, err := config.GetProfile(cfg, profileName)
	if err != nil {
		return err
	}

	session, err := signer.SignIn(ctx, signInRequest(profile))
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	inv, groups, err := enumerateGroups(ctx, enumerator, store, session)
	if err != nil {
		return err
	}

	if isJSONOutput() {
		warnings := inv.Warnings
		if warnings == nil {
			warnings = []models.FetchWarning{}
		}
		if groups == nil {
			groups = []models.ConnectionGroup{}
		}
		return writeJSON(out, listOutput{
			DataSourceCount: len(inv.DataSources),
			WorkbookCount:   len(inv.Workbooks),
			Groups:          groups,
			Warnings:        warnings,
		})
	}

	fmt.Fprintf(out, "Scanned %s and %s on %s\n\n",
		ui.CountNoun(len(inv.DataSources), "data source"),
		ui.CountNoun(len(inv.Workbooks), "workbook"),
		session.BaseURL)
	ui.RenderGroups(out, groups)

	if showMembers {
		for _, g := range groups {
			fmt.Fprintf(out, "\nGroup %d: %s\n", g.ID, g.Key)
			ui.RenderMembers(out, g)
		}
	}

	ui.RenderWarnings(cmd.ErrOrStderr(), inv.Warnings)
	return nil
}
