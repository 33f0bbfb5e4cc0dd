// Package config loads and saves the sso_config.yaml environment registry.
//
// The config file holds environments and their users only. Passwords and
// client secrets are never written here; they live in the OS keyring
// (see internal/secrets).
//
// Schema:
//
//	environments:
//	  dev:
//	    name: Dev
//	    sso_url: https://sso.dev.example.com/realms/internal
//	    users:
//	      admin@example.com:
//	        auth_type: user
//	        email: admin@example.com
//	      my-client-id:
//	        auth_type: client
//	        client_id: my-client-id
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filename is the config file name searched for in the home directory.
const Filename = "sso_config.yaml"

// EnvPath overrides the config file location when set.
const EnvPath = "SSO_CONFIG_PATH"

// ErrNotFound is returned by Load when no config file exists. Callers branch
// on it to auto-start the setup wizard.
var ErrNotFound = errors.New("config file not found")

// AuthType selects the OAuth grant used for a user entry.
type AuthType string

const (
	AuthTypeUser   AuthType = "user"   // password grant with the shared frontend client
	AuthTypeClient AuthType = "client" // client_credentials grant
)

// legacy auth_type values from older config files, normalized on load.
var legacyAuthTypes = map[AuthType]AuthType{
	"password":           AuthTypeUser,
	"client_credentials": AuthTypeClient,
}

// User is a credential entry under an environment. Exactly one of Email or
// ClientID is meaningful, depending on AuthType.
type User struct {
	AuthType AuthType `yaml:"auth_type"`
	Email    string   `yaml:"email,omitempty"`
	ClientID string   `yaml:"client_id,omitempty"`
}

// Environment is a single SSO server (base realm URL) and its users.
type Environment struct {
	Name   string          `yaml:"name"`
	SSOURL string          `yaml:"sso_url"`
	Users  map[string]User `yaml:"users,omitempty"`
}

// Config is the full environment registry.
type Config struct {
	Environments map[string]Environment `yaml:"environments"`
}

// Path returns the config file location: $SSO_CONFIG_PATH when set, otherwise
// ~/sso_config.yaml. The path is returned whether or not the file exists, so
// it is also the write target for Save.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Filename
	}
	return filepath.Join(home, Filename)
}

// Load reads the config from Path. Returns ErrNotFound (wrapped) when the
// file does not exist.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads and validates a config file.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s; run 'sso setup' to create one", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Environments == nil {
		cfg.Environments = map[string]Environment{}
	}

	for envKey, env := range cfg.Environments {
		if strings.TrimSpace(env.SSOURL) == "" {
			return nil, fmt.Errorf("environment %q is missing sso_url", envKey)
		}
		if env.Name == "" {
			env.Name = envKey
		}
		for userKey, user := range env.Users {
			if user.AuthType == "" {
				return nil, fmt.Errorf("user %q in environment %q is missing auth_type", userKey, envKey)
			}
			if normalized, ok := legacyAuthTypes[user.AuthType]; ok {
				user.AuthType = normalized
			}
			if user.AuthType != AuthTypeUser && user.AuthType != AuthTypeClient {
				return nil, fmt.Errorf("user %q in environment %q has unknown auth_type %q", userKey, envKey, user.AuthType)
			}
			env.Users[userKey] = user
		}
		cfg.Environments[envKey] = env
	}

	return &cfg, nil
}

// Save writes the config as YAML. Secrets are never part of Config, so this
// is always safe to write to disk.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// EnvKeys returns the environment keys in sorted order. YAML mappings do not
// preserve insertion order in Go, so all listings are sorted for stability.
func (c *Config) EnvKeys() []string {
	keys := make([]string, 0, len(c.Environments))
	for k := range c.Environments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UserKeys returns the user keys of an environment in sorted order.
func (c *Config) UserKeys(envKey string) []string {
	env, ok := c.Environments[envKey]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(env.Users))
	for k := range env.Users {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
