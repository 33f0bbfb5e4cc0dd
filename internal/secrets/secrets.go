// Package secrets stores credential secrets in the OS keyring.
//
// Passwords and client secrets are NEVER written to the YAML config or
// passed through environment variables. This package is the single place
// that reads and writes them.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name all secrets are filed under.
const Service = "sso-cli"

// ErrNotFound is returned by Get when no secret exists for the key.
var ErrNotFound = errors.New("secret not found in keyring")

func key(envKey, userKey string) string {
	return envKey + "/" + userKey
}

// Store persists a credential secret in the OS keyring.
func Store(envKey, userKey, secret string) error {
	if err := keyring.Set(Service, key(envKey, userKey), secret); err != nil {
		return fmt.Errorf("failed to store secret for %s/%s: %w", envKey, userKey, err)
	}
	return nil
}

// Get retrieves a credential secret. Returns ErrNotFound when absent.
func Get(envKey, userKey string) (string, error) {
	secret, err := keyring.Get(Service, key(envKey, userKey))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w for %s/%s", ErrNotFound, envKey, userKey)
		}
		return "", fmt.Errorf("keyring read failed for %s/%s: %w", envKey, userKey, err)
	}
	return secret, nil
}

// Delete removes a credential secret. Deleting an absent secret is a no-op.
func Delete(envKey, userKey string) error {
	err := keyring.Delete(Service, key(envKey, userKey))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete failed for %s/%s: %w", envKey, userKey, err)
	}
	return nil
}
