package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/aaearon/tabrotate/internal/ui"
	"github.com/rs/xid"
	"github.com/sethvargo/go-password/password"
	"github.com/spf13/cobra"
)

const minPasswordLength = 12

// rotateFlags holds the command-line flags for a rotation
type rotateFlags struct {
	group          int
	server         string
	port           string
	username       string
	serverSet      bool
	portSet        bool
	usernameSet    bool
	passwordStdin  bool
	generate       bool
	passwordLength int
	yes            bool
	refresh        bool
}

func parseRotateFlags(cmd *cobra.Command) *rotateFlags {
	f := &rotateFlags{}
	f.group, _ = cmd.Flags().GetInt("group")
	f.server, _ = cmd.Flags().GetString("server")
	f.port, _ = cmd.Flags().GetString("port")
	f.username, _ = cmd.Flags().GetString("username")
	f.serverSet = cmd.Flags().Changed("server")
	f.portSet = cmd.Flags().Changed("port")
	f.usernameSet = cmd.Flags().Changed("username")
	f.passwordStdin, _ = cmd.Flags().GetBool("password-stdin")
	f.generate, _ = cmd.Flags().GetBool("generate-password")
	f.passwordLength, _ = cmd.Flags().GetInt("password-length")
	f.yes, _ = cmd.Flags().GetBool("yes")
	f.refresh, _ = cmd.Flags().GetBool("refresh")
	return f
}

// runRotateProduction is the production RunE for the root command
func runRotateProduction(cmd *cobra.Command, args []string) error {
	flags := parseRotateFlags(cmd)

	env, err := bootstrapTableau()
	if err != nil {
		return err
	}

	return runRotateWithDeps(cmd, flags, env.cfg, env.signer(flags.refresh), env.service, env.service, env.sessions(), uiPrompter{})
}

// NewRootCommandWithDeps creates a root command with injected dependencies for testing
func NewRootCommandWithDeps(
	cfg *config.Config,
	signer sessionSigner,
	enumerator inventoryEnumerator,
	updater groupUpdater,
	store sessionStore,
	prompt prompter,
) *cobra.Command {
	return newRootCommand(func(cmd *cobra.Command, args []string) error {
		return runRotateWithDeps(cmd, parseRotateFlags(cmd), cfg, signer, enumerator, updater, store, prompt)
	})
}

func runRotateWithDeps(
	cmd *cobra.Command,
	flags *rotateFlags,
	cfg *config.Config,
	signer sessionSigner,
	enumerator inventoryEnumerator,
	updater groupUpdater,
	store sessionStore,
	prompt prompter,
) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	_, profile, err := config.GetProfile(cfg, profileName)
	if err != nil {
		return err
	}

	if flags.generate && flags.passwordLength < minPasswordLength {
		return fmt.Errorf("--password-length must be at least %d", minPasswordLength)
	}

	log.Info("Signing in to %s", profile.Server)
	session, err := signer.SignIn(ctx, signInRequest(profile))
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	inv, groups, err := enumerateGroups(ctx, enumerator, store, session)
	if err != nil {
		return err
	}
	ui.RenderWarnings(cmd.ErrOrStderr(), inv.Warnings)

	if len(groups) == 0 {
		fmt.Fprintln(out, "No embedded connections found.")
		return nil
	}

	// Resolve the group
	var group *models.ConnectionGroup
	if flags.group != 0 {
		var ok bool
		group, ok = models.FindGroupByID(groups, flags.group)
		if !ok {
			return fmt.Errorf("group %d not found, run 'tabrotate list' to see available groups", flags.group)
		}
	} else {
		if !prompt.IsInteractive() {
			return errors.New("no group selected, pass --group (see 'tabrotate list') or run in a terminal")
		}
		group, err = prompt.SelectGroup(groups)
		if err != nil {
			return fmt.Errorf("group selection failed: %w", err)
		}
	}
	log.Info("Selected group %d: %s", group.ID, group.Key)

	update, generated, err := collectUpdate(cmd, flags, group.Key, prompt)
	if err != nil {
		return err
	}
	if err := update.Validate(group.Key); err != nil {
		return fmt.Errorf("invalid update: %w", err)
	}

	if !flags.yes {
		if !prompt.IsInteractive() {
			return errors.New("confirmation requires a terminal, pass --yes to skip it")
		}
		if !isJSONOutput() {
			ui.RenderMembers(out, *group)
		}
		confirmed, err := prompt.ConfirmRotation(*group)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Rotation cancelled.")
			return nil
		}
	}

	runID := xid.New().String()
	log.Info("Rotation %s: updating %s in group %s", runID, ui.CountNoun(len(group.Members), "connection"), group.Key)

	outcomes := updater.UpdateGroup(ctx, session, *group, update)
	summary := models.Summarize(outcomes)

	log.Info("Rotation %s finished: %d succeeded, %d failed", runID, summary.Succeeded, summary.Failed)

	if isJSONOutput() {
		if err := writeJSON(out, rotationOutput{
			RunID:             runID,
			GroupID:           group.ID,
			Group:             group.Key,
			Outcomes:          outcomes,
			Summary:           summary,
			GeneratedPassword: generated,
		}); err != nil {
			return err
		}
	} else {
		ui.RenderOutcomes(out, outcomes)
		if generated != "" {
			fmt.Fprintf(out, "Generated password: %s\n", generated)
		}
		fmt.Fprintln(out, "Group membership has changed, run 'tabrotate list' to review.")
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d connection updates failed", summary.Failed, summary.Total)
	}
	return nil
}

// collectUpdate builds the new connection values from flags or prompts.
// Fields not given keep the group's current values. The generated password,
// if any, is returned so it can be shown once.
func collectUpdate(cmd *cobra.Command, flags *rotateFlags, key models.GroupKey, prompt prompter) (models.ConnectionUpdate, string, error) {
	update := models.ConnectionUpdate{
		ServerAddress: key.ServerAddress,
		ServerPort:    key.ServerPort,
		UserName:      key.UserName,
	}

	switch {
	case flags.serverSet || flags.portSet || flags.usernameSet:
		if flags.serverSet {
			update.ServerAddress = flags.server
		}
		if flags.portSet {
			update.ServerPort = flags.port
		}
		if flags.usernameSet {
			update.UserName = flags.username
		}
	case prompt.IsInteractive():
		fields, err := prompt.PromptConnectionFields(key)
		if err != nil {
			return update, "", err
		}
		update.ServerAddress = fields.ServerAddress
		update.ServerPort = fields.ServerPort
		update.UserName = fields.UserName
	}

	var generated string
	var err error
	switch {
	case flags.passwordStdin:
		update.Password, err = readPassword(cmd.InOrStdin())
	case flags.generate:
		// Letters and digits only, no symbols.
		generated, err = password.Generate(flags.passwordLength, flags.passwordLength/6, 0, false, true)
		if err != nil {
			err = fmt.Errorf("failed to generate password: %w", err)
		}
		update.Password = generated
	case prompt.IsInteractive():
		update.Password, err = prompt.PromptSecret("New password:")
	default:
		err = errors.New("no password given, use --password-stdin or --generate-password")
	}
	if err != nil {
		return update, "", err
	}

	return update, generated, nil
}

// readPassword reads the first line of r.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password from stdin is empty")
	}
	return line, nil
}
