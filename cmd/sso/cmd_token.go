package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ssocli/cmd/sso/ui"
	"ssocli/internal/auth"
	"ssocli/internal/config"
)

// tokenCmd is the script-friendly surface: the raw token on stdout, nothing
// else. The root command accepts the same two positional args directly.
var tokenCmd = &cobra.Command{
	Use:   "token <environment> <user>",
	Short: "Fetch an access token and print it to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToken(cmd.Context(), args[0], args[1], showRoles)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured environments and users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ranSetup, err := loadConfigOrRunSetup()
		if err != nil || ranSetup {
			return err
		}
		table := ui.NewTable("Environments", "Key", "Name", "SSO URL", "Users")
		for _, envKey := range cfg.EnvKeys() {
			env := cfg.Environments[envKey]
			table.AddRow(envKey, env.Name, env.SSOURL, strings.Join(cfg.UserKeys(envKey), ", "))
		}
		fmt.Print(table.View())
		return nil
	},
}

func runToken(ctx context.Context, envArg, userArg string, roles bool) error {
	cfg, ranSetup, err := loadConfigOrRunSetup()
	if err != nil || ranSetup {
		return err
	}

	envKey, err := resolvePrefix(envArg, cfg.EnvKeys(), "environment")
	if err != nil {
		return err
	}
	userKey, err := resolvePrefix(userArg, cfg.UserKeys(envKey), "user")
	if err != nil {
		return err
	}

	a := newAuthenticator(cfg)
	if roles {
		report, err := a.Roles(ctx, envKey, userKey)
		if err != nil {
			return err
		}
		printRoles(report)
		return nil
	}

	token, err := a.Token(ctx, envKey, userKey)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printRoles(report *auth.RoleReport) {
	sections := []struct {
		label string
		roles []string
	}{
		{"JWT Token", report.JWT},
		{serverSourceLabel(report.ServerSource), report.Server},
	}
	fmt.Println()
	fmt.Println(ui.TitleStyle.Render("Roles"))
	for _, s := range sections {
		fmt.Printf("\n%s:\n", ui.BoldStyle.Render(s.label))
		if len(s.roles) == 0 {
			fmt.Println(ui.MutedStyle.Render("  No roles"))
			continue
		}
		for _, r := range s.roles {
			fmt.Printf("  • %s\n", r)
		}
	}
	fmt.Println()
}

func serverSourceLabel(source string) string {
	switch source {
	case auth.SourceIntrospection:
		return "Introspection"
	default:
		return "UserInfo"
	}
}

// resolvePrefix resolves an exact key or a unique prefix of one. Ambiguous
// and unknown queries are errors listing the candidates.
func resolvePrefix(query string, options []string, label string) (string, error) {
	for _, o := range options {
		if o == query {
			return o, nil
		}
	}
	var matches []string
	for _, o := range options {
		if strings.HasPrefix(o, query) {
			matches = append(matches, o)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%s %q not found; available: %s", label, query, strings.Join(options, ", "))
	default:
		return "", fmt.Errorf("ambiguous %s %q; matches: %s", label, query, strings.Join(matches, ", "))
	}
}

// loadConfigOrRunSetup loads the config, auto-starting the setup wizard when
// none exists (ranSetup=true means the wizard handled this invocation).
func loadConfigOrRunSetup() (*config.Config, bool, error) {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			fmt.Println(ui.WarnPanel("No config found. Starting setup wizard."))
			_, werr := runSetupWizard(false)
			return nil, true, werr
		}
		return nil, false, err
	}
	return cfg, false, nil
}

func newAuthenticator(cfg *config.Config) *auth.Authenticator {
	if noCache {
		return auth.New(cfg)
	}
	cache, err := auth.NewTokenCache()
	if err != nil {
		return auth.New(cfg)
	}
	return auth.New(cfg, auth.WithCache(cache))
}
