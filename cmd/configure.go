package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/credential"
	"github.com/aaearon/tabrotate/internal/tableau"
	"github.com/spf13/cobra"
)

// configureFlags holds the command-line flags for configure
type configureFlags struct {
	server      string
	site        string
	tokenName   string
	apiVersion  string
	secretStdin bool
}

// newConfigureCommand creates the configure cobra command with the given RunE function.
func newConfigureCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure a Tableau server, site and Personal Access Token",
		Long: `Configure tabrotate with your Tableau server URL, site and Personal Access Token.

The profile is saved to ~/.tabrotate/config.yaml (override with TABROTATE_CONFIG).
The token secret is stored in the OS keyring, never in the config file.
Set TABROTATE_PAT_SECRET to supply the secret from the environment instead.

Missing values are prompted for when running in a terminal. The first profile
you save becomes the default; use --profile to save or select another one.

Examples:
  # Interactive setup
  tabrotate configure

  # Non-interactive setup
  echo "$PAT_SECRET" | tabrotate configure --server https://tableau.example.com \
    --site finance --token-name rotation-bot --token-secret-stdin`,
		RunE: runFn,
	}

	cmd.Flags().String("server", "", "Tableau server URL")
	cmd.Flags().String("site", "", "Site content URL (empty for the default site)")
	cmd.Flags().String("token-name", "", "Personal Access Token name")
	cmd.Flags().String("api-version", "", "REST API version (default "+tableau.DefaultAPIVersion+")")
	cmd.Flags().Bool("token-secret-stdin", false, "Read the Personal Access Token secret from stdin")

	return cmd
}

// NewConfigureCommand creates the configure command
func NewConfigureCommand() *cobra.Command {
	return newConfigureCommand(func(cmd *cobra.Command, args []string) error {
		return runConfigure(cmd, parseConfigureFlags(cmd), credential.NewService(), uiPrompter{})
	})
}

// NewConfigureCommandWithDeps creates a configure command with injected dependencies for testing
func NewConfigureCommandWithDeps(secrets secretStore, prompt prompter) *cobra.Command {
	return newConfigureCommand(func(cmd *cobra.Command, args []string) error {
		return runConfigure(cmd, parseConfigureFlags(cmd), secrets, prompt)
	})
}

func parseConfigureFlags(cmd *cobra.Command) *configureFlags {
	f := &configureFlags{}
	f.server, _ = cmd.Flags().GetString("server")
	f.site, _ = cmd.Flags().GetString("site")
	f.tokenName, _ = cmd.Flags().GetString("token-name")
	f.apiVersion, _ = cmd.Flags().GetString("api-version")
	f.secretStdin, _ = cmd.Flags().GetBool("token-secret-stdin")
	return f
}

func runConfigure(cmd *cobra.Command, flags *configureFlags, secrets secretStore, prompt prompter) error {
	cfg, cfgPath, err := config.LoadDefaultWithPath()
	if err != nil {
		return err
	}

	name := profileName
	if name == "" {
		name = cfg.DefaultProfile
	}

	// Existing values become prompt defaults
	existing := cfg.Profiles[name]
	profile := config.Profile{
		Server:     firstNonEmpty(flags.server, existing.Server),
		Site:       flags.site,
		TokenName:  firstNonEmpty(flags.tokenName, existing.TokenName),
		APIVersion: firstNonEmpty(flags.apiVersion, existing.APIVersion),
	}
	if !cmd.Flags().Changed("site") {
		profile.Site = existing.Site
	}

	interactive := prompt.IsInteractive()
	promptNeeded := flags.server == "" || flags.tokenName == ""

	if promptNeeded {
		if !interactive {
			return errors.New("--server and --token-name are required when not running in a terminal")
		}
		if profile.Server, err = prompt.PromptText("Tableau server URL:", profile.Server, true); err != nil {
			return fmt.Errorf("failed to read server URL: %w", err)
		}
		if profile.Site, err = prompt.PromptText("Site content URL (blank for the default site):", profile.Site, false); err != nil {
			return fmt.Errorf("failed to read site: %w", err)
		}
		if profile.TokenName, err = prompt.PromptText("Personal Access Token name:", profile.TokenName, true); err != nil {
			return fmt.Errorf("failed to read token name: %w", err)
		}
	}

	profile.Server = strings.TrimSpace(profile.Server)
	profile.Site = strings.TrimSpace(profile.Site)
	profile.TokenName = strings.TrimSpace(profile.TokenName)

	if err := profile.Validate(); err != nil {
		return err
	}

	// Read the secret before saving anything
	var secret string
	switch {
	case flags.secretStdin:
		if secret, err = readPassword(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("failed to read token secret: %w", err)
		}
	case interactive:
		if secret, err = prompt.PromptSecret("Personal Access Token secret:"); err != nil {
			return fmt.Errorf("failed to read token secret: %w", err)
		}
	default:
		log.Info("No token secret given, keeping the stored secret for %q", profile.TokenName)
	}

	if err := config.SetProfile(cfg, name, profile); err != nil {
		return err
	}

	log.Info("Saving config...")
	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if secret != "" {
		log.Info("Storing token secret in keyring...")
		if err := secrets.SetSecret(profile.TokenName, secret); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved to %s\n", name, cfgPath)
	if secret != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Token secret for %q stored in the OS keyring\n", profile.TokenName)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
