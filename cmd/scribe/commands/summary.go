package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/pkg/artifact"
	"github.com/krakendreams/scribe/pkg/narrative"
)

var summaryFlags struct {
	narrator string
	model    string
	export   string
}

var summaryCmd = &cobra.Command{
	Use:   "summary <session>",
	Short: "Generate a short session summary",
	Long: `Summarize a stored session in a few paragraphs, ready for posting
to the party's chat. Long transcripts are summarized block by block and the
partial summaries combined.`,
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
			Model:    pick(summaryFlags.model, settings.Model),
			Narrator: pick(summaryFlags.narrator, settings.Narrator),
			Budget:   narrative.Budget{Size: settings.ChunkBudget},
			Roster:   roster,
			Logger:   slog.Default(),
		})
		if err != nil {
			return err
		}

		stopOnInterrupt(synth)

		out, err := synth.Summarize(cmd.Context(), segs)
		if err != nil {
			return err
		}
		fmt.Println(out)

		// Keep it alongside the tale, if one exists.
		tale, err := store.Tale(cmd.Context(), sessionID)
		if err != nil {
			tale = nil
		}
		if tale != nil {
			tale.Summary = out
			if err := store.SaveTale(cmd.Context(), sessionID, tale); err != nil {
				return err
			}
		}

		if summaryFlags.export != "" {
			astore, err := newArtifactStore(settings)
			if err != nil {
				return err
			}
			path := artifact.SummaryPath(summaryFlags.export)
			if err := astore.Put(cmd.Context(), path, []byte(out)); err != nil {
				return fmt.Errorf("export summary: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Exported: %s\n", path)
		}
		return nil
	},
}

func init() {
	f := summaryCmd.Flags()
	f.StringVar(&summaryFlags.narrator, "narrator", "", "narrator name (default: from settings)")
	f.StringVar(&summaryFlags.model, "model", "", "model override (default: from settings)")
	f.StringVar(&summaryFlags.export, "export", "", "export the summary under this base name")
	rootCmd.AddCommand(summaryCmd)
}
