package internal

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"
)

// fakeCommandRunner records invocations instead of running commands
type fakeCommandRunner struct {
	name string
	args []string
	out  []byte
	err  error
}

func (f *fakeCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

func TestToShorts_CommandArgs(t *testing.T) {
	runner := &fakeCommandRunner{}
	transcoder := NewTranscoder(runner, false)

	err := transcoder.ToShorts(context.Background(), "clips/c1.mp4", "clips/c1_short.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if runner.name != "ffmpeg" {
		t.Errorf("command = %q, want ffmpeg", runner.name)
	}

	pairs := map[string]string{
		"-i":      "clips/c1.mp4",
		"-vf":     "scale=1080:1920",
		"-c:v":    "libx264",
		"-crf":    "23",
		"-preset": "slow",
		"-f":      "mp4",
		"-y":      "clips/c1_short.mp4",
	}
	for flag, want := range pairs {
		idx := slices.Index(runner.args, flag)
		if idx < 0 || idx+1 >= len(runner.args) {
			t.Errorf("missing %s argument in %v", flag, runner.args)
			continue
		}
		if got := runner.args[idx+1]; got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}
}

func TestToShorts_Error(t *testing.T) {
	runner := &fakeCommandRunner{
		out: []byte("Invalid data found when processing input"),
		err: fmt.Errorf("exit status 1"),
	}
	transcoder := NewTranscoder(runner, false)

	err := transcoder.ToShorts(context.Background(), "clips/bad.mp4", "clips/bad_short.mp4")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "ffmpeg failed") {
		t.Errorf("error = %v, want ffmpeg failed", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("error = %v, want command output included", err)
	}
}
