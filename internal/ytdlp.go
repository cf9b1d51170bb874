package internal

import (
	"context"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
)

// Downloader fetches clip videos with yt-dlp
type Downloader struct {
	verbose bool
}

// NewDownloader creates a clip downloader
func NewDownloader(verbose bool) *Downloader {
	return &Downloader{verbose: verbose}
}

// Download fetches the best combined video+audio stream for a clip URL and
// writes it to outputPath. Falls back to the best single stream when no
// combined format exists. Existing files at outputPath are overwritten, so
// re-running the pipeline for the same clip id is idempotent.
func (d *Downloader) Download(ctx context.Context, clipURL, outputPath string) error {
	if d.verbose {
		fmt.Printf("Downloading %s to %s\n", clipURL, outputPath)
	}

	dl := ytdlp.New().
		Format("bestvideo+bestaudio/best").
		Output(outputPath).
		ForceOverwrites()

	result, err := dl.Run(ctx, clipURL)
	if err != nil {
		if result != nil {
			return fmt.Errorf("yt-dlp failed: %w\nOutput: %s", err, result.Stderr)
		}
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	if d.verbose {
		fmt.Println("Download completed successfully")
	}
	return nil
}
