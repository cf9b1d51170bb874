package internal

import (
	"context"
	"fmt"
)

// Shorts output geometry: portrait 9:16
const (
	ShortsWidth  = 1080
	ShortsHeight = 1920
)

// Transcoder converts downloaded clips to the Shorts format using FFmpeg
type Transcoder struct {
	cmdRunner CommandRunner
	verbose   bool
}

// NewTranscoder creates a new transcoder
func NewTranscoder(cmdRunner CommandRunner, verbose bool) *Transcoder {
	return &Transcoder{
		cmdRunner: cmdRunner,
		verbose:   verbose,
	}
}

// ToShorts re-encodes inputPath to exactly 1080x1920 H.264 MP4.
// Blocking and CPU bound; the crf/preset pair trades speed for quality.
func (t *Transcoder) ToShorts(ctx context.Context, inputPath, outputPath string) error {
	if t.verbose {
		fmt.Printf("Transcoding %s to %s\n", inputPath, outputPath)
	}

	output, err := t.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "error",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d", ShortsWidth, ShortsHeight),
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "slow",
		"-f", "mp4",
		"-y", outputPath)

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(output))
	}

	if t.verbose {
		fmt.Println("Transcode completed successfully")
	}
	return nil
}
