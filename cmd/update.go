package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/dustin/go-humanize"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const updateSlug = "aaearon/tabrotate"

// updateOutput is the JSON shape of both update and update --check.
type updateOutput struct {
	Current     string `json:"current"`
	Latest      string `json:"latest,omitempty"`
	Available   bool   `json:"available"`
	Updated     bool   `json:"updated"`
	ReleaseURL  string `json:"releaseUrl,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// NewUpdateCommand creates the update command with production dependencies
func NewUpdateCommand() *cobra.Command {
	return NewUpdateCommandWithDeps(selfupdate.DefaultUpdater())
}

// NewUpdateCommandWithDeps creates the update command with injected dependencies
func NewUpdateCommandWithDeps(updater selfUpdater) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update tabrotate to the latest release",
		Long: `Replace the running tabrotate binary with the latest GitHub release.

With --check, only report whether a newer release exists; the binary is left
untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			check, _ := cmd.Flags().GetBool("check")
			return runUpdate(cmd, updater, check)
		},
	}

	cmd.Flags().Bool("check", false, "Only report whether a newer release is available")

	return cmd
}

func runUpdate(cmd *cobra.Command, updater selfUpdater, checkOnly bool) error {
	current, err := releaseVersion()
	if err != nil {
		return err
	}

	if checkOnly {
		return checkForUpdate(cmd.OutOrStdout(), updater, current)
	}

	log.Info("Checking %s for releases newer than %s", updateSlug, current)

	rel, err := updater.UpdateSelf(current, updateSlug)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if rel == nil {
		return errors.New("update check returned no release information")
	}

	updated := !current.Equals(rel.Version)
	if updated && rel.ReleaseNotes != "" {
		log.Info("Release notes:\n%s", rel.ReleaseNotes)
	}

	if isJSONOutput() {
		out := releaseOutput(current, rel)
		out.Updated = updated
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if !updated {
		fmt.Fprintf(cmd.OutOrStdout(), "tabrotate %s is already up to date.\n", current)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated tabrotate from %s to %s.\n", current, rel.Version)
	return nil
}

// checkForUpdate reports the latest release without installing it.
func checkForUpdate(w io.Writer, updater selfUpdater, current semver.Version) error {
	log.Info("Looking up the latest release of %s", updateSlug)

	rel, found, err := updater.DetectLatest(updateSlug)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found || rel == nil {
		if isJSONOutput() {
			return writeJSON(w, updateOutput{Current: current.String()})
		}
		fmt.Fprintf(w, "No releases of %s found.\n", updateSlug)
		return nil
	}

	if isJSONOutput() {
		return writeJSON(w, releaseOutput(current, rel))
	}

	if !rel.Version.GT(current) {
		fmt.Fprintf(w, "tabrotate %s is up to date (latest release %s).\n", current, rel.Version)
		return nil
	}

	fmt.Fprintf(w, "tabrotate %s is available (installed %s).\n", rel.Version, current)
	if rel.PublishedAt != nil {
		fmt.Fprintf(w, "  Published %s\n", humanize.Time(*rel.PublishedAt))
	}
	if rel.URL != "" {
		fmt.Fprintf(w, "  %s\n", rel.URL)
	}
	fmt.Fprintln(w, "Run 'tabrotate update' to install it.")
	return nil
}

// releaseVersion parses the build version; dev builds cannot be compared.
func releaseVersion() (semver.Version, error) {
	v := version
	if v == "" || v == "dev" {
		return semver.Version{}, errors.New("cannot update a dev build; install a release build or download from GitHub Releases")
	}

	current, err := semver.Parse(strings.TrimPrefix(v, "v"))
	if err != nil {
		return semver.Version{}, fmt.Errorf("failed to parse current version %q: %w", v, err)
	}
	return current, nil
}

func releaseOutput(current semver.Version, rel *selfupdate.Release) updateOutput {
	out := updateOutput{
		Current:    current.String(),
		Latest:     rel.Version.String(),
		Available:  rel.Version.GT(current),
		ReleaseURL: rel.URL,
	}
	if rel.PublishedAt != nil {
		out.PublishedAt = rel.PublishedAt.UTC().Format(time.RFC3339)
	}
	return out
}
