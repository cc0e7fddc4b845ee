package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/cmd/scribe/internal/config"
)

var (
	// Global flags
	verbose     bool
	contextName string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Session transcripts, speaker attribution, and bardic retellings",
	Long: `scribe - turn recorded game sessions into attributed transcripts and tales.

The pipeline starts from two machine outputs: word-level ASR timings and
speaker diarization turns. scribe aligns them into a speaker-attributed
transcript, applies vocabulary and punctuation fixes, lets you name the
speakers, and retells the session as a story through an LLM provider.

Configuration is stored in ~/.scribe/ as named contexts, each holding one
settings.yaml (provider, api key, model, narrator, style).

Examples:
  # Create a context and point it at a provider
  scribe config add-context groq
  scribe config set groq provider groq
  scribe config set groq api_key YOUR_KEY
  scribe config use-context groq

  # Transcribe and retell
  scribe transcribe --words words.json --turns turns.json --name "game 7"
  scribe speakers assign <session> SPEAKER_00 Thorin --gender Male
  scribe tale <session>`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "config context (default: current)")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load()
	if err != nil {
		// Deferred so commands that need no config, like version,
		// still run.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// GetSettings resolves the selected (or current) context's settings.
func GetSettings() (*config.Settings, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}
	return config.LoadSettings(dir)
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
