package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/pkg/playback"
)

var playFlags struct {
	at     float64
	linger float64
}

var playCmd = &cobra.Command{
	Use:   "play <session>",
	Short: "Look up the active segment at a playback position",
	Long: `Look up which transcript segment is active at a playback position,
the same mapping a player UI uses to highlight the current line. A segment
stays active for a short linger window after its end so highlights don't
flicker during pauses.

Examples:
  scribe play <session> --at 754.2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		segs, err := store.Transcript(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		roster, err := store.Roster(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		sync := playback.New(segs, playFlags.linger)
		seg := sync.Active(playFlags.at)
		if seg == nil {
			fmt.Printf("No active segment at %.1fs.\n", playFlags.at)
			return nil
		}
		name := roster.Style(seg.Label).Render(roster.DisplayName(seg.Label))
		fmt.Printf("%s %s: %s\n", seg.Timestamp(), name, seg.Text())
		return nil
	},
}

func init() {
	playCmd.Flags().Float64Var(&playFlags.at, "at", 0, "playback position in seconds")
	playCmd.Flags().Float64Var(&playFlags.linger, "linger", 0, "linger window in seconds (default 1.5)")
	rootCmd.AddCommand(playCmd)
}
