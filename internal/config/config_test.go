package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `environments:
  dev:
    name: Dev
    sso_url: https://sso.dev.example.com/realms/internal
    users:
      admin@example.com:
        auth_type: user
        email: admin@example.com
      reporting-client:
        auth_type: client
        client_id: reporting-client
  prod:
    sso_url: https://sso.example.com/realms/internal
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), Filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Len(t, cfg.Environments, 2)
	dev := cfg.Environments["dev"]
	assert.Equal(t, "Dev", dev.Name)
	assert.Equal(t, "https://sso.dev.example.com/realms/internal", dev.SSOURL)
	assert.Equal(t, AuthTypeUser, dev.Users["admin@example.com"].AuthType)
	assert.Equal(t, AuthTypeClient, dev.Users["reporting-client"].AuthType)

	// Name defaults to the environment key.
	assert.Equal(t, "prod", cfg.Environments["prod"].Name)
}

func TestLoadFrom_LegacyAuthTypes(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, `environments:
  dev:
    sso_url: https://sso.example.com/realms/r
    users:
      a@example.com:
        auth_type: password
        email: a@example.com
      svc:
        auth_type: client_credentials
        client_id: svc
`))
	require.NoError(t, err)
	assert.Equal(t, AuthTypeUser, cfg.Environments["dev"].Users["a@example.com"].AuthType)
	assert.Equal(t, AuthTypeClient, cfg.Environments["dev"].Users["svc"].AuthType)
}

func TestLoadFrom_Validation(t *testing.T) {
	t.Run("missing sso_url", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "environments:\n  dev:\n    name: Dev\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing sso_url")
	})

	t.Run("missing auth_type", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, `environments:
  dev:
    sso_url: https://sso.example.com/realms/r
    users:
      a@example.com:
        email: a@example.com
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing auth_type")
	})

	t.Run("unknown auth_type", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, `environments:
  dev:
    sso_url: https://sso.example.com/realms/r
    users:
      a@example.com:
        auth_type: magic
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown auth_type")
	})
}

func TestLoadFrom_NotFound(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), Filename))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", Path())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	cfg := &Config{Environments: map[string]Environment{
		"stage": {
			Name:   "Staging",
			SSOURL: "https://sso.stage.example.com/realms/internal",
			Users: map[string]User{
				"ops@example.com": {AuthType: AuthTypeUser, Email: "ops@example.com"},
			},
		},
	}}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Environments, loaded.Environments)
}

func TestKeyListings(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"dev", "prod"}, cfg.EnvKeys())
	assert.Equal(t, []string{"admin@example.com", "reporting-client"}, cfg.UserKeys("dev"))
	assert.Empty(t, cfg.UserKeys("nope"))
}

func TestBackup(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	backup, err := Backup(path)
	require.NoError(t, err)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected original config to be moved, stat err = %v", err)
	}
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, string(data))
	assert.Contains(t, filepath.Base(backup), "backup_")
}
