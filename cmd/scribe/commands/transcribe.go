package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/pkg/artifact"
	"github.com/krakendreams/scribe/pkg/speaker"
	"github.com/krakendreams/scribe/pkg/transcript"
)

var transcribeFlags struct {
	words       string
	turns       string
	name        string
	vocab       string
	gap         float64
	noPunct     bool
	noQuestions bool
	noStore     bool
	export      string
	plain       bool
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Align ASR words with diarization turns into a transcript",
	Long: `Align word-level ASR output with speaker diarization turns.

The words file is whisperx-style JSON (segments with word timings); the
turns file is diarization JSON (speaker turns with start/end). Words are
attributed to speakers by midpoint containment, then vocabulary
corrections and punctuation restoration run over the result.

Without --turns every word lands in a single UNKNOWN speaker segment,
which still produces a usable unattributed transcript.

Examples:
  scribe transcribe --words words.json --turns turns.json --name "game 7"
  scribe transcribe --words words.json --turns turns.json --export game7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := transcript.LoadWordsFile(transcribeFlags.words)
		if err != nil {
			return fmt.Errorf("load words: %w", err)
		}
		var turns []transcript.SpeakerTurn
		if transcribeFlags.turns != "" {
			turns, err = transcript.LoadTurnsFile(transcribeFlags.turns)
			if err != nil {
				return fmt.Errorf("load turns: %w", err)
			}
		}
		slog.Debug("loaded inputs", "words", len(words), "turns", len(turns))

		segs := transcript.Merge(words, turns)

		// Custom rules go first: on equal-length pattern collisions the
		// earlier rule wins, so the user's vocabulary overrides the
		// stock table.
		var rules transcript.Rules
		if path := vocabPath(); path != "" {
			rules, err = transcript.LoadRules(path)
			if err != nil {
				return fmt.Errorf("load vocabulary: %w", err)
			}
		}
		rules = append(rules, transcript.BuiltinRules()...)
		segs = rules.Correct(segs)

		if !transcribeFlags.noPunct {
			segs = transcript.Punctuate(segs, transcript.PunctuateOptions{
				SilenceGap:       transcribeFlags.gap,
				DisableQuestions: transcribeFlags.noQuestions,
			})
		}

		roster := speaker.NewRoster()
		for i := range segs {
			roster.Observe(segs[i].Label)
		}

		printTranscript(segs, roster, transcribeFlags.plain)

		if !transcribeFlags.noStore {
			if err := storeTranscript(cmd, segs, roster); err != nil {
				return err
			}
		}
		if transcribeFlags.export != "" {
			if err := exportTranscript(cmd, segs); err != nil {
				return err
			}
		}
		return nil
	},
}

func vocabPath() string {
	if transcribeFlags.vocab != "" {
		return transcribeFlags.vocab
	}
	if s, err := GetSettings(); err == nil {
		return s.Vocabulary
	}
	return ""
}

// printTranscript renders "[MM:SS] Name: text" lines, with speaker names
// in their roster colors unless plain is set.
func printTranscript(segs []transcript.Segment, roster *speaker.Roster, plain bool) {
	for i := range segs {
		seg := &segs[i]
		name := roster.DisplayName(seg.Label)
		if !plain {
			name = roster.Style(seg.Label).Render(name)
		}
		fmt.Printf("%s %s: %s\n", seg.Timestamp(), name, seg.Text())
	}
}

func storeTranscript(cmd *cobra.Command, segs []transcript.Segment, roster *speaker.Roster) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	name := transcribeFlags.name
	if name == "" {
		name = transcribeFlags.words
	}
	sess, err := store.Create(cmd.Context(), name)
	if err != nil {
		return err
	}
	if err := store.SaveTranscript(cmd.Context(), sess.ID, segs); err != nil {
		return err
	}
	if err := store.SaveRoster(cmd.Context(), sess.ID, roster); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Session stored: %s\n", sess.ID)
	return nil
}

func exportTranscript(cmd *cobra.Command, segs []transcript.Segment) error {
	settings, err := GetSettings()
	if err != nil {
		return err
	}
	store, err := newArtifactStore(settings)
	if err != nil {
		return err
	}

	var notes []byte
	for i := range segs {
		seg := &segs[i]
		line := fmt.Sprintf("%s %s: %s\n", seg.Timestamp(), seg.Label, seg.Text())
		notes = append(notes, line...)
	}
	base := transcribeFlags.export
	if err := store.Put(cmd.Context(), artifact.NotesPath(base), notes); err != nil {
		return fmt.Errorf("export notes: %w", err)
	}

	data, err := json.MarshalIndent(struct {
		Segments []transcript.Segment `json:"segments"`
	}{segs}, "", "  ")
	if err != nil {
		return err
	}
	if err := store.Put(cmd.Context(), artifact.SegmentsPath(base), data); err != nil {
		return fmt.Errorf("export segments: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported: %s, %s\n", artifact.NotesPath(base), artifact.SegmentsPath(base))
	return nil
}

func init() {
	f := transcribeCmd.Flags()
	f.StringVar(&transcribeFlags.words, "words", "", "word-level ASR JSON file (required)")
	f.StringVar(&transcribeFlags.turns, "turns", "", "speaker diarization JSON file")
	f.StringVar(&transcribeFlags.name, "name", "", "session name (default: words file path)")
	f.StringVar(&transcribeFlags.vocab, "vocab", "", "extra vocabulary rules YAML (default: from settings)")
	f.Float64Var(&transcribeFlags.gap, "gap", 0, "silence gap in seconds that ends a sentence (default 1.2)")
	f.BoolVar(&transcribeFlags.noPunct, "no-punct", false, "skip punctuation restoration")
	f.BoolVar(&transcribeFlags.noQuestions, "no-questions", false, "skip question mark rewriting")
	f.BoolVar(&transcribeFlags.noStore, "no-store", false, "do not store the session")
	f.StringVar(&transcribeFlags.export, "export", "", "export artifacts under this base name")
	f.BoolVar(&transcribeFlags.plain, "plain", false, "disable speaker colors")
	transcribeCmd.MarkFlagRequired("words")
	rootCmd.AddCommand(transcribeCmd)
}
