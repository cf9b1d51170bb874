package main

import (
	"os"

	"github.com/remip/twitch-shorts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
