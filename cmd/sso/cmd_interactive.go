package main

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"ssocli/cmd/sso/ui"
	"ssocli/internal/auth"
)

// runInteractive is the no-argument flow: pick an environment and user,
// fetch a token, and put it on the clipboard.
func runInteractive(ctx context.Context) error {
	cfg, ranSetup, err := loadConfigOrRunSetup()
	if err != nil || ranSetup {
		return err
	}

	envKeys := cfg.EnvKeys()
	if len(envKeys) == 0 {
		return fmt.Errorf("no environments configured; run 'sso setup'")
	}
	envLabels := make([]string, len(envKeys))
	for i, k := range envKeys {
		envLabels[i] = fmt.Sprintf("%s (%s)", cfg.Environments[k].Name, k)
	}
	envIdx, err := ui.Select("Select Environment", envLabels)
	if err != nil {
		return err
	}
	envKey := envKeys[envIdx]

	userKeys := cfg.UserKeys(envKey)
	if len(userKeys) == 0 {
		return fmt.Errorf("no users configured for environment %q", envKey)
	}
	userIdx, err := ui.Select("Select User", userKeys)
	if err != nil {
		return err
	}
	userKey := userKeys[userIdx]

	fmt.Printf("\nAuthenticating as %s on %s...\n", ui.BoldStyle.Render(userKey), ui.BoldStyle.Render(envKey))

	a := newAuthenticator(cfg)
	token, err := a.Token(ctx, envKey, userKey)
	if err != nil {
		return err
	}

	fmt.Println()
	if cerr := clipboard.WriteAll(token); cerr == nil {
		fmt.Println(ui.SuccessPanel("Token copied to clipboard!"))
	} else {
		fmt.Println(ui.InfoPanel(fmt.Sprintf("Token:\n%s\n\nAuthorization: Bearer %s", token, token)))
	}

	if username := auth.DecodeClaims(token).PreferredUsername(); username != "" {
		fmt.Printf("User: %s\n", ui.BoldStyle.Render(username))
	}
	return nil
}
