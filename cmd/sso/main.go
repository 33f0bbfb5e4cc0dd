// Package main is the entry point for the sso CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ssocli/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbose   bool
	showRoles bool
	noCache   bool
)

var rootCmd = &cobra.Command{
	Use:   "sso [environment] [user]",
	Short: "Fetch OIDC access tokens from configured SSO environments",
	Long: `sso fetches OIDC access tokens from Keycloak-style SSO servers.

Environments and users live in sso_config.yaml; passwords and client
secrets live in the OS keyring and are never written to disk.

  sso dev admin@example.com     # get a token (prefix matching works: sso d adm)
  sso dev admin@example.com -r  # list roles (JWT + server view)
  sso                           # interactive selection
  sso setup                     # add environments/users to the config
  sso reset                     # back up the config and start fresh`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 2:
			return runToken(cmd.Context(), args[0], args[1], showRoles)
		case 0:
			return runInteractive(cmd.Context())
		default:
			return fmt.Errorf("provide both environment and user, or neither")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&showRoles, "roles", "r", false, "list roles instead of printing the token")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the token cache")

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
