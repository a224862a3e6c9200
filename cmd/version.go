package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X".
var (
	version   = ""
	commit    = ""
	buildDate = ""
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, commit hash, and build date of tabrotate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd)
		},
	}
}

func versionString() string {
	if version == "" {
		return "dev"
	}
	return version
}

func printVersion(cmd *cobra.Command) error {
	c := commit
	if c == "" {
		c = "unknown"
	}

	d := buildDate
	if d == "" {
		d = "unknown"
	}

	log.Info("Go version: %s", runtime.Version())
	log.Info("OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH)

	fmt.Fprintf(cmd.OutOrStdout(), "tabrotate version %s\ncommit: %s\nbuilt: %s\n", versionString(), c, d)
	return nil
}
