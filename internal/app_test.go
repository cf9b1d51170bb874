package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeTwitch struct {
	ids       map[string]string
	clips     map[string][]Clip
	userCalls []string
	clipCalls []string
}

func (f *fakeTwitch) UserID(ctx context.Context, login string) (string, error) {
	f.userCalls = append(f.userCalls, login)
	id, ok := f.ids[login]
	if !ok {
		return "", fmt.Errorf("looking up channel %s: %w", login, ErrChannelNotFound)
	}
	return id, nil
}

func (f *fakeTwitch) Clips(ctx context.Context, broadcasterID string) ([]Clip, error) {
	f.clipCalls = append(f.clipCalls, broadcasterID)
	return f.clips[broadcasterID], nil
}

type downloadCall struct {
	url  string
	path string
}

type fakeDownloader struct {
	calls   []downloadCall
	failURL string
}

func (f *fakeDownloader) Download(ctx context.Context, clipURL, outputPath string) error {
	f.calls = append(f.calls, downloadCall{url: clipURL, path: outputPath})
	if clipURL == f.failURL {
		return fmt.Errorf("yt-dlp failed: unsupported URL")
	}
	return nil
}

type transcodeCall struct {
	input  string
	output string
}

type fakeTranscoder struct {
	calls []transcodeCall
	err   error
}

func (f *fakeTranscoder) ToShorts(ctx context.Context, inputPath, outputPath string) error {
	f.calls = append(f.calls, transcodeCall{input: inputPath, output: outputPath})
	return f.err
}

type uploadCall struct {
	path        string
	title       string
	description string
	tags        []string
}

type fakePublisher struct {
	uploads []uploadCall
	err     error
}

func (f *fakePublisher) Upload(ctx context.Context, path, title, description string, tags []string) (string, error) {
	f.uploads = append(f.uploads, uploadCall{path: path, title: title, description: description, tags: tags})
	if f.err != nil {
		return "", f.err
	}
	return "vid123", nil
}

func testConfig(t *testing.T, channels ...string) *Config {
	t.Helper()
	dir := t.TempDir()
	channelsFile := filepath.Join(dir, "channels.txt")
	if err := os.WriteFile(channelsFile, []byte(strings.Join(channels, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("writing channels file: %v", err)
	}
	return &Config{
		ChannelsFile:     channelsFile,
		OutputDir:        filepath.Join(dir, "clips"),
		TokenFile:        filepath.Join(dir, "token.json"),
		ClientSecretFile: filepath.Join(dir, "client_secret.json"),
		Quiet:            true,
	}
}

func TestRun_Pipeline(t *testing.T) {
	config := testConfig(t, "alice")
	twitch := &fakeTwitch{
		ids:   map[string]string{"alice": "123"},
		clips: map[string][]Clip{"123": {{ID: "c1", URL: "https://clips.example/c1"}}},
	}
	downloader := &fakeDownloader{}
	transcoder := &fakeTranscoder{}
	publisher := &fakePublisher{}

	app := NewApp(config,
		WithTwitch(twitch),
		WithDownloader(downloader),
		WithTranscoder(transcoder),
		WithPublisher(publisher))

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rawPath := filepath.Join(config.OutputDir, "c1.mp4")
	shortPath := filepath.Join(config.OutputDir, "c1_short.mp4")

	if len(downloader.calls) != 1 {
		t.Fatalf("expected 1 download, got %d", len(downloader.calls))
	}
	if downloader.calls[0].url != "https://clips.example/c1" {
		t.Errorf("download url = %q, want clip url", downloader.calls[0].url)
	}
	if downloader.calls[0].path != rawPath {
		t.Errorf("download path = %q, want %q", downloader.calls[0].path, rawPath)
	}

	if len(transcoder.calls) != 1 {
		t.Fatalf("expected 1 transcode, got %d", len(transcoder.calls))
	}
	if transcoder.calls[0].input != rawPath || transcoder.calls[0].output != shortPath {
		t.Errorf("transcode = %+v, want %q -> %q", transcoder.calls[0], rawPath, shortPath)
	}

	if len(publisher.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(publisher.uploads))
	}
	upload := publisher.uploads[0]
	if upload.path != shortPath {
		t.Errorf("upload path = %q, want %q", upload.path, shortPath)
	}
	if upload.title != "Clip Twitch : c1" {
		t.Errorf("title = %q, want %q", upload.title, "Clip Twitch : c1")
	}
	if upload.description != DefaultDescription {
		t.Errorf("description = %q, want %q", upload.description, DefaultDescription)
	}
	if len(upload.tags) != 3 || upload.tags[0] != "Twitch" || upload.tags[1] != "Shorts" || upload.tags[2] != "Gaming" {
		t.Errorf("tags = %v, want [Twitch Shorts Gaming]", upload.tags)
	}
}

func TestRun_UnknownChannelSkipped(t *testing.T) {
	config := testConfig(t, "ghost_channel", "bob")
	twitch := &fakeTwitch{
		ids:   map[string]string{"bob": "456"},
		clips: map[string][]Clip{"456": {{ID: "c2", URL: "https://clips.example/c2"}}},
	}
	downloader := &fakeDownloader{}
	transcoder := &fakeTranscoder{}
	publisher := &fakePublisher{}

	app := NewApp(config,
		WithTwitch(twitch),
		WithDownloader(downloader),
		WithTranscoder(transcoder),
		WithPublisher(publisher))

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ghost_channel must not reach the clip listing
	if len(twitch.clipCalls) != 1 || twitch.clipCalls[0] != "456" {
		t.Errorf("clip listing calls = %v, want only 456", twitch.clipCalls)
	}
	// bob is still fully processed
	if len(publisher.uploads) != 1 {
		t.Errorf("expected 1 upload for bob, got %d", len(publisher.uploads))
	}
}

func TestRun_NoClips(t *testing.T) {
	config := testConfig(t, "bob")
	twitch := &fakeTwitch{
		ids:   map[string]string{"bob": "456"},
		clips: map[string][]Clip{},
	}
	downloader := &fakeDownloader{}
	transcoder := &fakeTranscoder{}
	publisher := &fakePublisher{}

	app := NewApp(config,
		WithTwitch(twitch),
		WithDownloader(downloader),
		WithTranscoder(transcoder),
		WithPublisher(publisher))

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(downloader.calls) != 0 {
		t.Errorf("expected no downloads, got %d", len(downloader.calls))
	}
	if len(publisher.uploads) != 0 {
		t.Errorf("expected no uploads, got %d", len(publisher.uploads))
	}
}

func TestRun_DownloadErrorSkipsClip(t *testing.T) {
	config := testConfig(t, "alice")
	twitch := &fakeTwitch{
		ids: map[string]string{"alice": "123"},
		clips: map[string][]Clip{"123": {
			{ID: "c1", URL: "https://clips.example/c1"},
			{ID: "c2", URL: "https://clips.example/c2"},
		}},
	}
	downloader := &fakeDownloader{failURL: "https://clips.example/c1"}
	transcoder := &fakeTranscoder{}
	publisher := &fakePublisher{}

	app := NewApp(config,
		WithTwitch(twitch),
		WithDownloader(downloader),
		WithTranscoder(transcoder),
		WithPublisher(publisher))

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(downloader.calls) != 2 {
		t.Fatalf("expected both clips attempted, got %d downloads", len(downloader.calls))
	}
	if len(publisher.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(publisher.uploads))
	}
	if publisher.uploads[0].title != "Clip Twitch : c2" {
		t.Errorf("uploaded title = %q, want clip c2", publisher.uploads[0].title)
	}
}

func TestRun_AuthFailureAbortsRun(t *testing.T) {
	config := testConfig(t, "alice")
	twitch := &fakeTwitch{
		ids: map[string]string{"alice": "123"},
		clips: map[string][]Clip{"123": {
			{ID: "c1", URL: "https://clips.example/c1"},
			{ID: "c2", URL: "https://clips.example/c2"},
		}},
	}
	publisher := &fakePublisher{err: fmt.Errorf("%w: reading client secret file", ErrAuth)}

	app := NewApp(config,
		WithTwitch(twitch),
		WithDownloader(&fakeDownloader{}),
		WithTranscoder(&fakeTranscoder{}),
		WithPublisher(publisher))

	err := app.Run(context.Background())
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("error = %v, want ErrAuth", err)
	}
	if len(publisher.uploads) != 1 {
		t.Errorf("expected run to stop after first auth failure, got %d upload attempts", len(publisher.uploads))
	}
}

func TestRun_MissingChannelsFile(t *testing.T) {
	config := testConfig(t, "alice")
	config.ChannelsFile = filepath.Join(t.TempDir(), "missing.txt")
	twitch := &fakeTwitch{}

	app := NewApp(config,
		WithTwitch(twitch),
		WithDownloader(&fakeDownloader{}),
		WithTranscoder(&fakeTranscoder{}),
		WithPublisher(&fakePublisher{}))

	err := app.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for missing channels file, got nil")
	}
	if !strings.Contains(err.Error(), "channels file") {
		t.Errorf("error = %v, want channels file mentioned", err)
	}
	if len(twitch.userCalls) != 0 {
		t.Errorf("expected no network calls, got lookups for %v", twitch.userCalls)
	}
}
