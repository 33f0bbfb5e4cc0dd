package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ssocli/internal/release"
)

var manifestPath string

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release automation (version bump and publish)",
}

var releaseBumpCmd = &cobra.Command{
	Use:   "bump [patch|minor|major]",
	Short: "Increment the version in the manifest",
	Long: `Increment the semantic version recorded in the manifest.

patch bumps a.b.c to a.b.(c+1); minor to a.(b+1).0; major to (a+1).0.0.
The default is patch. An unknown bump type leaves the manifest unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := release.DefaultBumpKind
		if len(args) == 1 {
			var err error
			kind, err = release.ParseBumpKind(args[0])
			if err != nil {
				return err
			}
		}
		old, next, err := release.BumpManifest(manifestPath, kind)
		if err != nil {
			return err
		}
		fmt.Printf("version: %s -> %s\n", old, next)
		return nil
	},
}

var releasePublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Build the distributable archive and upload it to the registry",
	Long: `Build and upload a release artifact.

The registry contract comes from the environment:
  ` + release.EnvRegistryURL + `       registry upload endpoint (required)
  ` + release.EnvRegistryToken + `     API token (preferred)
  ` + release.EnvRegistryUser + `  basic auth username
  ` + release.EnvRegistryPassword + `  basic auth password

Every failure (missing credentials, missing build tool, empty build
output, upload error) is terminal and exits nonzero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := release.CredentialsFromEnv()
		if err != nil {
			return err
		}
		publisher := release.NewPublisher(manifestPath)
		archive, err := publisher.Publish(cmd.Context(), creds)
		if err != nil {
			return err
		}
		fmt.Printf("published %s to %s\n", archive, creds.URL)
		return nil
	},
}

func init() {
	releaseCmd.PersistentFlags().StringVar(&manifestPath, "manifest", release.DefaultManifestPath, "manifest file holding the version line")
	releaseCmd.AddCommand(releaseBumpCmd)
	releaseCmd.AddCommand(releasePublishCmd)
}
