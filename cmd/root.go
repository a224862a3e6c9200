package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	sdk_config "github.com/cyberark/idsec-sdk-golang/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	profileName string
)

// newRootCommand creates the root cobra command with the given RunE function.
// All flag registration and PersistentPreRunE setup is centralized here.
func newRootCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabrotate",
		Short: "Rotate embedded database credentials on Tableau",
		Long: `Rotate the database credentials embedded in Tableau data sources and workbooks.

Running tabrotate with no subcommand signs in with your Personal Access Token,
groups every embedded connection by server, port and username, and pushes new
credentials to all data sources and workbooks in the group you choose.

Two execution modes:
1. Interactive mode (no --group): select a group and enter new values at the prompts
2. Direct mode (--group N): use a group id from 'tabrotate list'

Examples:
  # Interactive rotation
  tabrotate

  # Rotate the password of group 2, reading it from stdin
  echo "$NEW_PASSWORD" | tabrotate --group 2 --password-stdin --yes

  # Move group 1 to a new server and generate a password
  tabrotate --group 1 --server db2.example.com --generate-password

  # Use a named profile
  tabrotate --profile prod`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				sdk_config.EnableVerboseLogging("INFO")
			} else {
				sdk_config.DisableVerboseLogging()
			}
			if err := validateOutputFormat(outputFormat); err != nil {
				return err
			}
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			return nil
		},
		RunE: runFn,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "output format (text, json)")
	cmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "configuration profile (default from config)")

	cmd.Flags().IntP("group", "g", 0, "Connection group id from 'tabrotate list'")
	cmd.Flags().String("server", "", "New server address (default: the group's current server)")
	cmd.Flags().String("port", "", "New server port (default: the group's current port)")
	cmd.Flags().StringP("username", "u", "", "New username (default: the group's current username)")
	cmd.Flags().Bool("password-stdin", false, "Read the new password from stdin")
	cmd.Flags().Bool("generate-password", false, "Generate a random password and print it")
	cmd.Flags().Int("password-length", 24, "Length of a generated password")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().Bool("refresh", false, "Sign in again instead of reusing the cached session")
	cmd.MarkFlagsMutuallyExclusive("password-stdin", "generate-password")

	return cmd
}

var rootCmd = newRootCommand(runRotateProduction)

// Execute runs the root command. Interrupts cancel the command context, so a
// rotation in progress stops before its next update.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !verbose {
			fmt.Fprintln(os.Stderr, "Hint: re-run with --verbose for more details")
		}
		stop()
		os.Exit(1)
	}
}
