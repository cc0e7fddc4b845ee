package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/cmd/scribe/internal/config"
	"github.com/krakendreams/scribe/pkg/artifact"
	"github.com/krakendreams/scribe/pkg/narrative"
	"github.com/krakendreams/scribe/pkg/session"
)

var taleFlags struct {
	style    string
	narrator string
	model    string
	export   string
}

var taleCmd = &cobra.Command{
	Use:   "tale <session>",
	Short: "Generate the narrative retelling of a session",
	Long: `Retell a stored session as a story through the configured provider.

The transcript is split into chunks and generated strictly in order, each
chunk continuing from the tail of the prose so far. Press Ctrl-C to stop:
the current chunk finishes and everything generated so far is kept.

Examples:
  scribe tale <session>
  scribe tale <session> --style "Heroic Saga" --export game7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := GetSettings()
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sessionID := args[0]
		segs, err := store.Transcript(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		roster, err := store.Roster(cmd.Context(), sessionID)
		if err != nil {
			return err
		}

		provider, err := newProvider(cmd.Context(), settings)
		if err != nil {
			return err
		}
		synth, err := narrative.NewSynthesizer(narrative.Config{
			Provider: provider,
			Model:    pick(taleFlags.model, settings.Model),
			Style:    pick(taleFlags.style, settings.Style),
			Narrator: pick(taleFlags.narrator, settings.Narrator),
			Budget:   narrative.Budget{Size: settings.ChunkBudget},
			Roster:   roster,
			Logger:   slog.Default(),
			OnProgress: func(p narrative.Progress) {
				if p.State == narrative.StateDone {
					fmt.Fprintf(os.Stderr, "Chapter %d of %d woven.\n", p.Chunk+1, p.Total)
				}
			},
		})
		if err != nil {
			return err
		}

		stopOnInterrupt(synth)

		res, err := synth.Run(cmd.Context(), segs)
		if err != nil {
			return err
		}
		printTale(res)

		if res.Stitched != "" {
			tale := &session.Tale{
				Title:   res.Title,
				Closing: res.Closing,
				Prose:   res.Stitched,
			}
			if err := store.SaveTale(cmd.Context(), sessionID, tale); err != nil {
				return err
			}
		}
		if taleFlags.export != "" && res.Stitched != "" {
			if err := exportTale(cmd, settings, res); err != nil {
				return err
			}
		}
		if res.Status == narrative.StatusFailed {
			for i := range res.Chunks {
				if res.Chunks[i].State == narrative.StateFailed {
					return fmt.Errorf("chunk %d failed: %w", i, res.Chunks[i].Err)
				}
			}
		}
		return nil
	},
}

// stopOnInterrupt wires SIGINT/SIGTERM to a cooperative stop. A second
// signal exits immediately.
func stopOnInterrupt(synth *narrative.Synthesizer) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Stopping after the current chapter (Ctrl-C again to abort)...")
		synth.Stop()
		<-sigCh
		os.Exit(1)
	}()
}

func printTale(res *narrative.Result) {
	if res.Title != "" {
		fmt.Printf("%s\n\n", res.Title)
	}
	fmt.Println(res.Stitched)
	if res.Closing != "" {
		fmt.Printf("\n— %s\n", res.Closing)
	}
	if res.Status != narrative.StatusDone {
		fmt.Fprintf(os.Stderr, "Run %s: %d of %d chapters remain.\n",
			res.Status, res.Remaining(), len(res.Chunks))
	}
}

func exportTale(cmd *cobra.Command, settings *config.Settings, res *narrative.Result) error {
	store, err := newArtifactStore(settings)
	if err != nil {
		return err
	}
	var sb strings.Builder
	if res.Title != "" {
		sb.WriteString(res.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(res.Stitched)
	if res.Closing != "" {
		sb.WriteString("\n\n— ")
		sb.WriteString(res.Closing)
		sb.WriteString("\n")
	}
	path := artifact.TalePath(taleFlags.export)
	if err := store.Put(cmd.Context(), path, []byte(sb.String())); err != nil {
		return fmt.Errorf("export tale: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported: %s\n", path)
	return nil
}

func pick(flag, setting string) string {
	if flag != "" {
		return flag
	}
	return setting
}

func init() {
	f := taleCmd.Flags()
	f.StringVar(&taleFlags.style, "style", "", "narrative style (default: from settings)")
	f.StringVar(&taleFlags.narrator, "narrator", "", "narrator name (default: from settings)")
	f.StringVar(&taleFlags.model, "model", "", "model override (default: from settings)")
	f.StringVar(&taleFlags.export, "export", "", "export the tale under this base name")
	rootCmd.AddCommand(taleCmd)
}
