package internal

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadChannels parses the channels file: one channel name per line, blank
// lines and surrounding whitespace ignored. A missing file is a fatal
// startup error reported before any network call is made.
func ReadChannels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading channels file %s: %w", path, err)
	}
	defer f.Close()

	var channels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			channels = append(channels, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading channels file %s: %w", path, err)
	}
	return channels, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}
