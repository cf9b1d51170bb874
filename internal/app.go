package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTags are attached to every uploaded clip
var DefaultTags = []string{"Twitch", "Shorts", "Gaming"}

// TwitchAPI resolves channels and lists their clips
type TwitchAPI interface {
	UserID(ctx context.Context, login string) (string, error)
	Clips(ctx context.Context, broadcasterID string) ([]Clip, error)
}

// ClipDownloader fetches a clip video to a local path
type ClipDownloader interface {
	Download(ctx context.Context, clipURL, outputPath string) error
}

// ClipTranscoder converts a downloaded clip to the Shorts format
type ClipTranscoder interface {
	ToShorts(ctx context.Context, inputPath, outputPath string) error
}

// ClipPublisher uploads a transcoded clip and returns the new video id
type ClipPublisher interface {
	Upload(ctx context.Context, path, title, description string, tags []string) (string, error)
}

// App holds the application state and dependencies
type App struct {
	twitch     TwitchAPI
	downloader ClipDownloader
	transcoder ClipTranscoder
	publisher  ClipPublisher
	metadata   *MetadataWriter
	config     *Config
	ui         UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	cmdRunner := &DefaultCommandRunner{}

	var chat ChatClient
	if config.OpenAIAPIKey != "" {
		chat = NewOpenAIClient(config.OpenAIAPIKey)
	}

	app := &App{
		twitch:     NewTwitchClient(DefaultHelixURL, config.TwitchClientID, config.TwitchOAuthToken),
		downloader: NewDownloader(config.Verbose),
		transcoder: NewTranscoder(cmdRunner, config.Verbose),
		publisher:  NewPublisher(config.TokenFile, config.ClientSecretFile, config.Verbose),
		metadata:   NewMetadataWriter(chat, config.OpenAIModel, false, config.Verbose),
		config:     config,
		ui:         NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithTwitch sets a custom Twitch API client
func WithTwitch(twitch TwitchAPI) AppOption {
	return func(a *App) {
		a.twitch = twitch
	}
}

// WithDownloader sets a custom clip downloader
func WithDownloader(downloader ClipDownloader) AppOption {
	return func(a *App) {
		a.downloader = downloader
	}
}

// WithTranscoder sets a custom transcoder
func WithTranscoder(transcoder ClipTranscoder) AppOption {
	return func(a *App) {
		a.transcoder = transcoder
	}
}

// WithPublisher sets a custom publisher
func WithPublisher(publisher ClipPublisher) AppOption {
	return func(a *App) {
		a.publisher = publisher
	}
}

// SetAIDescriptions toggles AI-generated upload descriptions
func (app *App) SetAIDescriptions(enabled bool) {
	app.metadata.enabled = enabled
}

// Run executes the pipeline: for every configured channel, resolve its id,
// list recent clips, then download, transcode and upload each clip in order.
// A channel that cannot be resolved is skipped; a clip that fails at any
// stage is skipped; authentication failures abort the run.
func (app *App) Run(ctx context.Context) error {
	channels, err := ReadChannels(app.config.ChannelsFile)
	if err != nil {
		return err
	}

	if err := EnsureDirs(app.config.OutputDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, channel := range channels {
		app.ui.Printf("Processing channel: %s\n", channel)

		userID, err := app.twitch.UserID(ctx, channel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not resolve channel %s: %v\n", channel, err)
			continue
		}

		clips, err := app.twitch.Clips(ctx, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not list clips for %s: %v\n", channel, err)
			continue
		}
		if len(clips) == 0 {
			app.ui.Verbose("No clips found for %s\n", channel)
			continue
		}

		bar := app.ui.NewProgressBar(len(clips), fmt.Sprintf("Clips for %s", channel))
		for i, clip := range clips {
			bar.Set(i)
			if err := app.processClip(ctx, channel, clip); err != nil {
				if errors.Is(err, ErrAuth) {
					bar.Finish()
					return err
				}
				fmt.Fprintf(os.Stderr, "Error: clip %s: %v\n", clip.ID, err)
			}
		}
		bar.Finish()
	}

	return nil
}

// processClip runs the download -> transcode -> upload chain for one clip
func (app *App) processClip(ctx context.Context, channel string, clip Clip) error {
	outputPath := filepath.Join(app.config.OutputDir, clip.ID+".mp4")
	shortPath := filepath.Join(app.config.OutputDir, clip.ID+"_short.mp4")

	app.ui.Printf("Downloading: %s\n", clip.URL)
	if err := app.downloader.Download(ctx, clip.URL, outputPath); err != nil {
		return err
	}

	app.ui.Printf("Converting to Shorts format...\n")
	if err := app.transcoder.ToShorts(ctx, outputPath, shortPath); err != nil {
		return err
	}

	app.ui.Printf("Uploading to YouTube...\n")
	title := "Clip Twitch : " + clip.ID
	description := app.metadata.Description(ctx, channel, clip.ID)
	videoID, err := app.publisher.Upload(ctx, shortPath, title, description, DefaultTags)
	if err != nil {
		return err
	}

	app.ui.Printf("Video uploaded: %s\n", videoID)
	app.ui.Printf("Clip ready: %s\n", shortPath)
	return nil
}
