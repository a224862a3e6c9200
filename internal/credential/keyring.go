// Package credential stores Personal Access Token secrets in the OS keyring.
package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const keyringService = "tabrotate"

// SecretEnvVar overrides the keyring lookup when set.
const SecretEnvVar = "TABROTATE_PAT_SECRET"

// ErrSecretNotFound is returned when no secret is stored for a token name.
var ErrSecretNotFound = errors.New("personal access token secret not found")

// Service handles PAT secret storage in the OS keyring.
type Service struct {
	getenv func(string) string
}

// NewService creates a new credential service.
func NewService() *Service {
	return &Service{getenv: os.Getenv}
}

// SetSecret stores the secret for a token name. An empty secret removes it.
func (s *Service) SetSecret(tokenName, secret string) error {
	if tokenName == "" {
		return errors.New("token name is required")
	}
	if secret == "" {
		return s.DeleteSecret(tokenName)
	}
	if err := keyring.Set(keyringService, tokenName, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// GetSecret returns the secret for a token name. TABROTATE_PAT_SECRET wins
// over the keyring.
func (s *Service) GetSecret(tokenName string) (string, error) {
	if v := s.getenv(SecretEnvVar); v != "" {
		return v, nil
	}

	secret, err := keyring.Get(keyringService, tokenName)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for %q, run 'tabrotate configure' or set %s", ErrSecretNotFound, tokenName, SecretEnvVar)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read secret from keyring: %w", err)
	}
	return secret, nil
}

// DeleteSecret removes the secret for a token name. Missing secrets are not an error.
func (s *Service) DeleteSecret(tokenName string) error {
	err := keyring.Delete(keyringService, tokenName)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("failed to delete secret from keyring: %w", err)
}
