package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ServerConfig holds settings for the HTTP front-end.
// Values come from environment variables only; the session secret has no default.
type ServerConfig struct {
	BindAddr      string        `env:"TABROTATE_BIND_ADDR" env-default:"127.0.0.1"`
	Port          string        `env:"TABROTATE_PORT" env-default:"8080"`
	APIVersion    string        `env:"TABROTATE_API_VERSION" env-default:""`
	LogLevel      string        `env:"TABROTATE_LOG_LEVEL" env-default:"info"`
	SessionTTL    time.Duration `env:"TABROTATE_SESSION_TTL" env-default:"2h"`
	SecureCookies bool          `env:"TABROTATE_SECURE_COOKIES" env-default:"false"`

	// SessionSecret signs the session cookie. Secret - env only.
	SessionSecret string `env:"TABROTATE_SESSION_SECRET" env-required:"true"`
}

// LoadServerConfig reads the server configuration from the environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	if len(cfg.SessionSecret) < 16 {
		return nil, fmt.Errorf("TABROTATE_SESSION_SECRET must be at least 16 characters")
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}
