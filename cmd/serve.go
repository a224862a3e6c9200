package cmd

import (
	"fmt"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/server"
	"github.com/aaearon/tabrotate/internal/tableau"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the rotation workflow as an HTTP API",
		Long: `Serve the sign-in, enumeration and update operations as a JSON HTTP API.

Settings come from the environment:
  TABROTATE_SESSION_SECRET  cookie signing secret (required, 16+ characters)
  TABROTATE_BIND_ADDR       listen address (default 127.0.0.1)
  TABROTATE_PORT            listen port (default 8080)
  TABROTATE_API_VERSION     Tableau REST API version
  TABROTATE_SESSION_TTL     idle lifetime of a signed-in session (default 2h)
  TABROTATE_SECURE_COOKIES  mark the session cookie Secure
  TABROTATE_LOG_LEVEL       debug, info, warn or error (default info)`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	logger, err := server.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	defer func() { _ = logger.Sync() }()

	service := tableau.NewService(cfg.APIVersion, server.NewCoreLogger(logger))
	srv := server.New(cfg, service, logger)

	logger.Info("Starting tabrotate server",
		zap.String("version", versionString()),
		zap.Duration("session_ttl", cfg.SessionTTL))

	return srv.ListenAndServe(cmd.Context(), cfg.Addr())
}
