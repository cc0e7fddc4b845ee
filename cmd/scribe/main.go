// Package main is the entry point for the scribe CLI.
//
// Usage:
//
//	scribe [flags] <command> [subcommand] [args]
//
// Commands:
//
//	config      - Configuration management (contexts, settings)
//	transcribe  - Align ASR words with diarization turns into a transcript
//	sessions    - List, rename, and delete stored sessions
//	speakers    - Inspect and name the speakers of a session
//	tale        - Generate the narrative retelling of a session
//	summary     - Generate a short session summary
//	play        - Look up the active segment at a playback position
//	version     - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/krakendreams/scribe/cmd/scribe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
