package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"ssocli/cmd/sso/ui"
	"ssocli/internal/config"
	"ssocli/internal/secrets"
)

const (
	menuBack     = "[<] Back"
	menuSaveQuit = "[q] Save & quit"
	menuAddEnv   = "[+] Add environment"
	menuAddUser  = "[+] Add user"
	menuEditKey  = "[e] Edit secret"
	menuDelUser  = "[-] Delete user"
)

// runSetupWizard drives the drill-down config manager.
//
// appendMode=true loads the existing config and edits/extends it (setup);
// appendMode=false starts fresh (auto-setup or reset).
func runSetupWizard(appendMode bool) (string, error) {
	cfg := &config.Config{Environments: map[string]config.Environment{}}
	if appendMode {
		loaded, err := config.Load()
		if err != nil && !errors.Is(err, config.ErrNotFound) {
			return "", err
		}
		if loaded != nil {
			cfg = loaded
		}
	}

	outPath := config.Path()
	fmt.Println()
	fmt.Println(ui.InfoPanel("SSO Config Manager\n\n" +
		"Arrow keys to navigate, Enter to select.\n" +
		"[+] Add   [-] Delete   [<] Back   [q] Save & quit\n" +
		"Secrets are never written to disk."))

	reader := bufio.NewReader(os.Stdin)

	if len(cfg.Environments) == 0 {
		fmt.Println(ui.MutedStyle.Render("\nNo environments yet -- adding the first one."))
		if err := promptEnvironment(reader, cfg); err != nil {
			return "", err
		}
	}

	for {
		envKeys := cfg.EnvKeys()
		options := make([]string, 0, len(envKeys)+2)
		for _, k := range envKeys {
			options = append(options, fmt.Sprintf("%s  (%d user(s))", k, len(cfg.Environments[k].Users)))
		}
		options = append(options, menuAddEnv, menuSaveQuit)

		idx, err := ui.Select("Environments", options)
		if err != nil {
			return "", err
		}
		switch {
		case options[idx] == menuSaveQuit:
			if err := cfg.Save(outPath); err != nil {
				return "", err
			}
			fmt.Println()
			fmt.Println(ui.SuccessPanel("Config saved to " + outPath))
			return outPath, nil
		case options[idx] == menuAddEnv:
			if err := promptEnvironment(reader, cfg); err != nil {
				return "", err
			}
		default:
			if err := environmentMenu(reader, cfg, envKeys[idx]); err != nil {
				return "", err
			}
		}
	}
}

// promptEnvironment collects a new environment and its first user.
func promptEnvironment(reader *bufio.Reader, cfg *config.Config) error {
	envKey, err := promptLine(reader, "Environment key (e.g. dev, prod)", "")
	if err != nil {
		return err
	}
	if envKey == "" {
		return nil
	}
	base, err := promptLine(reader, "SSO base URL (e.g. sso.example.com)", "")
	if err != nil {
		return err
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	realm, err := promptLine(reader, "Realm name", "master")
	if err != nil {
		return err
	}
	ssoURL := base + "/realms/" + realm
	fmt.Println(ui.MutedStyle.Render("  -> " + ssoURL))

	cfg.Environments[envKey] = config.Environment{
		Name:   envKey,
		SSOURL: ssoURL,
		Users:  map[string]config.User{},
	}
	return promptUser(reader, cfg, envKey)
}

// promptUser collects a new user and stores its secret in the keyring.
func promptUser(reader *bufio.Reader, cfg *config.Config, envKey string) error {
	idx, err := ui.Select("Auth type", []string{string(config.AuthTypeUser), string(config.AuthTypeClient)})
	if err != nil {
		return err
	}

	env := cfg.Environments[envKey]
	var userKey, secret string
	if idx == 0 {
		email, err := promptLine(reader, "Email", "")
		if err != nil {
			return err
		}
		secret, err = promptSecret("Password")
		if err != nil {
			return err
		}
		userKey = email
		env.Users[userKey] = config.User{AuthType: config.AuthTypeUser, Email: email}
	} else {
		clientID, err := promptLine(reader, "Client ID", "")
		if err != nil {
			return err
		}
		secret, err = promptSecret("Client Secret")
		if err != nil {
			return err
		}
		userKey = clientID
		env.Users[userKey] = config.User{AuthType: config.AuthTypeClient, ClientID: clientID}
	}
	cfg.Environments[envKey] = env

	if err := secrets.Store(envKey, userKey, secret); err != nil {
		return err
	}
	fmt.Println(ui.SuccessPanel(fmt.Sprintf("Keyring updated: %s/%s", envKey, userKey)))
	return nil
}

func environmentMenu(reader *bufio.Reader, cfg *config.Config, envKey string) error {
	for {
		env := cfg.Environments[envKey]
		userKeys := cfg.UserKeys(envKey)
		delEnv := fmt.Sprintf("[-] Delete environment %q", envKey)

		options := make([]string, 0, len(userKeys)+3)
		for _, uk := range userKeys {
			options = append(options, fmt.Sprintf("%s  [%s]", uk, env.Users[uk].AuthType))
		}
		options = append(options, menuAddUser, delEnv, menuBack)

		idx, err := ui.Select("Environment: "+envKey, options)
		if err != nil {
			return err
		}
		switch {
		case options[idx] == menuBack:
			return nil
		case options[idx] == menuAddUser:
			if err := promptUser(reader, cfg, envKey); err != nil {
				return err
			}
		case options[idx] == delEnv:
			for _, uk := range userKeys {
				if err := secrets.Delete(envKey, uk); err != nil {
					return err
				}
			}
			delete(cfg.Environments, envKey)
			fmt.Println(ui.WarnPanel(fmt.Sprintf("Deleted environment %q", envKey)))
			return nil
		default:
			if err := userMenu(cfg, envKey, userKeys[idx]); err != nil {
				return err
			}
		}
	}
}

func userMenu(cfg *config.Config, envKey, userKey string) error {
	for {
		idx, err := ui.Select(envKey+" / "+userKey, []string{menuEditKey, menuDelUser, menuBack})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			secret, err := promptSecret("New secret for " + userKey)
			if err != nil {
				return err
			}
			if err := secrets.Store(envKey, userKey, secret); err != nil {
				return err
			}
			fmt.Println(ui.SuccessPanel(fmt.Sprintf("Updated: %s/%s", envKey, userKey)))
		case 1:
			env := cfg.Environments[envKey]
			delete(env.Users, userKey)
			cfg.Environments[envKey] = env
			if err := secrets.Delete(envKey, userKey); err != nil {
				return err
			}
			fmt.Println(ui.WarnPanel(fmt.Sprintf("Deleted user %q", userKey)))
			return nil
		default:
			return nil
		}
	}
}

func promptLine(reader *bufio.Reader, label, def string) (string, error) {
	if def != "" {
		fmt.Printf("  %s [%s]: ", label, def)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// promptSecret reads a masked line from the terminal.
func promptSecret(label string) (string, error) {
	fmt.Printf("  %s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(raw), nil
}
