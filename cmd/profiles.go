package cmd

import (
	"fmt"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/credential"
	"github.com/spf13/cobra"
)

// NewProfilesCommand creates the profiles parent command with subcommands
func NewProfilesCommand() *cobra.Command {
	return NewProfilesCommandWithDeps(credential.NewService())
}

// NewProfilesCommandWithDeps creates the profiles command with injected dependencies for testing
func NewProfilesCommandWithDeps(secrets secretStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage configured Tableau profiles",
		Long:  "List, remove, and choose the default of the Tableau site profiles saved by 'tabrotate configure'.",
	}

	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesRemoveCommand(secrets))
	cmd.AddCommand(newProfilesDefaultCommand())

	return cmd
}

func newProfilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		Long:  "Display all configured profiles. The default profile is marked with '*'.",
		Args:  cobra.NoArgs,
		RunE:  runProfilesList,
	}
}

func newProfilesRemoveCommand(secrets secretStore) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a profile",
		Long:  "Remove a profile by name and delete its token secret from the keyring.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesRemove(cmd, args, secrets)
		},
	}
}

func newProfilesDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Set the default profile",
		Long:  "Select the profile used when --profile is not given.",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesDefault,
	}
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.LoadDefaultWithPath()
	if err != nil {
		return err
	}

	profiles := config.ListProfiles(cfg)

	if isJSONOutput() {
		data := make([]profileOutput, 0, len(profiles))
		for _, entry := range profiles {
			data = append(data, profileOutput{
				Name:       entry.Name,
				Server:     entry.Server,
				Site:       entry.Site,
				TokenName:  entry.TokenName,
				APIVersion: entry.APIVersion,
				Default:    entry.Name == cfg.DefaultProfile,
			})
		}
		return writeJSON(cmd.OutOrStdout(), data)
	}

	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured, run 'tabrotate configure'")
		return nil
	}

	for _, entry := range profiles {
		marker := " "
		if entry.Name == cfg.DefaultProfile {
			marker = "*"
		}
		site := entry.Site
		if site == "" {
			site = "(default)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s site=%s token=%s\n",
			marker, entry.Name, entry.Server, site, entry.TokenName)
	}

	return nil
}

func runProfilesRemove(cmd *cobra.Command, args []string, secrets secretStore) error {
	name := args[0]

	cfg, cfgPath, err := config.LoadDefaultWithPath()
	if err != nil {
		return err
	}

	profile, exists := cfg.Profiles[name]
	if err := config.RemoveProfile(cfg, name); err != nil {
		return err
	}

	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if exists && !tokenShared(cfg, profile.TokenName) {
		if err := secrets.DeleteSecret(profile.TokenName); err != nil {
			log.Info("Failed to remove token secret for %q: %v", profile.TokenName, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q\n", name)
	return nil
}

// tokenShared reports whether another profile still signs in with tokenName.
func tokenShared(cfg *config.Config, tokenName string) bool {
	for _, p := range cfg.Profiles {
		if p.TokenName == tokenName {
			return true
		}
	}
	return false
}

func runProfilesDefault(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, cfgPath, err := config.LoadDefaultWithPath()
	if err != nil {
		return err
	}

	if _, _, err := config.GetProfile(cfg, name); err != nil {
		return err
	}
	cfg.DefaultProfile = name

	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Default profile set to %q\n", name)
	return nil
}
