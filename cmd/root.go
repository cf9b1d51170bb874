package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/remip/twitch-shorts/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twitch-shorts",
	Short: "Turn recent Twitch clips into YouTube Shorts",
	Long: `twitch-shorts fetches recent clips for a list of Twitch channels,
downloads them with yt-dlp, converts them to the vertical Shorts
format with FFmpeg and uploads the result to YouTube.

Channels are read from a text file with one channel name per line.
Uploads authenticate with a cached OAuth token; the first run opens
an interactive authorization flow in the browser.`,
	Example: `  # Process all channels from twitch_channels.txt
  twitch-shorts

  # Use a different channel list and output directory
  twitch-shorts --channels my_channels.txt --output-dir ./out

  # Generate upload descriptions with OpenAI
  twitch-shorts --ai-description`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return handleOutputFlags(cmd, config)
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateTwitchCredentials(config); err != nil {
			return err
		}
		if err := handleFileFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		aiDescription, _ := cmd.Flags().GetBool("ai-description")
		if aiDescription {
			if config.OpenAIAPIKey == "" {
				return fmt.Errorf("--ai-description requires an OpenAI API key - set it in config.toml or the OPENAI_API_KEY environment variable")
			}
			app.SetAIDescriptions(true)
		}

		return app.Run(cmd.Context())
	},
}

// handleOutputFlags copies the verbose/quiet flags into the config
func handleOutputFlags(cmd *cobra.Command, config *internal.Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Verbose = verbose
	config.Quiet = quiet
	return nil
}

// handleFileFlags applies the channel list and output directory overrides
func handleFileFlags(cmd *cobra.Command, config *internal.Config) error {
	if channels, _ := cmd.Flags().GetString("channels"); channels != "" {
		config.ChannelsFile = channels
	}
	if outputDir, _ := cmd.Flags().GetString("output-dir"); outputDir != "" {
		config.OutputDir = outputDir
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		cancel()
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().Bool("ai-description", false, "Generate upload descriptions with OpenAI (requires API key)")
	rootCmd.Flags().String("channels", "", "Channel list file (default is twitch_channels.txt)")
	rootCmd.Flags().String("output-dir", "", "Directory for downloaded and converted clips (default is ./clips)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress status output and progress bars")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}
