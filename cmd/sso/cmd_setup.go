package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ssocli/cmd/sso/ui"
	"ssocli/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Add environments and users to the existing config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runSetupWizard(true)
		return err
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Back up the existing config and start fresh",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		if _, err := os.Stat(path); err == nil {
			backup, err := config.Backup(path)
			if err != nil {
				return err
			}
			fmt.Println(ui.MutedStyle.Render("Backed up existing config to: " + backup))
		}
		_, err := runSetupWizard(false)
		return err
	},
}
