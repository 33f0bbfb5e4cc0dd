package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefix(t *testing.T) {
	options := []string{"dev", "prod", "prod-eu", "stage"}

	t.Run("exact match wins over prefix ambiguity", func(t *testing.T) {
		got, err := resolvePrefix("prod", options, "environment")
		require.NoError(t, err)
		assert.Equal(t, "prod", got)
	})

	t.Run("unique prefix resolves", func(t *testing.T) {
		got, err := resolvePrefix("d", options, "environment")
		require.NoError(t, err)
		assert.Equal(t, "dev", got)
	})

	t.Run("ambiguous prefix lists matches", func(t *testing.T) {
		_, err := resolvePrefix("pro", []string{"prod", "prod-eu"}, "environment")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
		assert.Contains(t, err.Error(), "prod-eu")
	})

	t.Run("no match lists available", func(t *testing.T) {
		_, err := resolvePrefix("qa", options, "environment")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.Contains(t, err.Error(), "stage")
	})
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"token", "list", "setup", "reset", "release", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestServerSourceLabel(t *testing.T) {
	assert.Equal(t, "Introspection", serverSourceLabel("introspection"))
	assert.Equal(t, "UserInfo", serverSourceLabel("userinfo"))
	assert.Equal(t, "UserInfo", serverSourceLabel(""))
}
