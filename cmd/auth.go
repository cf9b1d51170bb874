package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remip/twitch-shorts/internal"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Run the YouTube OAuth flow and save the token",
	Long: `Runs the interactive OAuth authorization flow against Google and
saves the resulting token to the token file. Useful to prepare the
credential cache before an unattended pipeline run.`,
	Example: `  # Authorize uploads and cache the token
  twitch-shorts auth`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		publisher := internal.NewPublisher(config.TokenFile, config.ClientSecretFile, config.Verbose)
		if _, err := publisher.Authorize(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("OAuth token saved to %s\n", config.TokenFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
