package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Config holds application settings
type Config struct {
	// User configurable settings
	TwitchClientID   string
	TwitchOAuthToken string
	ChannelsFile     string
	OutputDir        string
	TokenFile        string
	ClientSecretFile string
	OpenAIAPIKey     string
	OpenAIModel      string
	Verbose          bool
	Quiet            bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml
var defaultFS embed.FS

// UploadScope is the only Google OAuth scope the tool ever requests
const UploadScope = "https://www.googleapis.com/auth/youtube.upload"

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is installed
	ytdlp.MustInstall(context.Background(), nil)

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "twitch-shorts")
	dataDir := filepath.Join(xdg.DataHome, "twitch-shorts")
	cacheDir := filepath.Join(xdg.CacheHome, "twitch-shorts")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("channels_file", "twitch_channels.txt")
	v.SetDefault("output_dir", "./clips")
	v.SetDefault("token_file", filepath.Join(dataDir, "token.json"))
	v.SetDefault("client_secret_file", filepath.Join(configDir, "client_secret.json"))
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("TWITCH_SHORTS")
	v.AutomaticEnv()

	// Credentials are commonly set as plain env vars, so bind those directly
	_ = v.BindEnv("twitch_client_id", "TWITCH_CLIENT_ID")
	_ = v.BindEnv("twitch_oauth_token", "TWITCH_OAUTH_TOKEN")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		// User configurable settings
		TwitchClientID:   v.GetString("twitch_client_id"),
		TwitchOAuthToken: v.GetString("twitch_oauth_token"),
		ChannelsFile:     v.GetString("channels_file"),
		OutputDir:        v.GetString("output_dir"),
		TokenFile:        v.GetString("token_file"),
		ClientSecretFile: v.GetString("client_secret_file"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		OpenAIModel:      v.GetString("openai_model"),
		Verbose:          v.GetBool("verbose"),
		Quiet:            v.GetBool("quiet"),

		// Fixed XDG paths
		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// ValidateTwitchCredentials checks that the Helix API credentials are configured
func ValidateTwitchCredentials(config *Config) error {
	if config.TwitchClientID == "" || config.TwitchOAuthToken == "" {
		return fmt.Errorf("Twitch credentials are required - set twitch_client_id and twitch_oauth_token in config.toml or the TWITCH_CLIENT_ID/TWITCH_OAUTH_TOKEN environment variables")
	}
	return nil
}
