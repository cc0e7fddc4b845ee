package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "Inspect and name the speakers of a session",
	Long: `Inspect and name the speakers of a session.

Diarization labels (SPEAKER_00, SPEAKER_01, ...) are opaque and assigned
per run. Naming one updates every line of the transcript at once. Rosters
can be saved to a YAML file and merged into another session, which is a
convenience for recurring groups, not a guarantee: a different run may
hand the same voice a different label.

Examples:
  scribe speakers list <session>
  scribe speakers assign <session> SPEAKER_00 Thorin --gender Male
  scribe speakers save <session> party.yaml
  scribe speakers merge <session> party.yaml`,
}

var speakersListCmd = &cobra.Command{
	Use:     "list <session>",
	Aliases: []string{"ls"},
	Short:   "List a session's speakers",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		roster, err := store.Roster(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LABEL\tNAME\tGENDER")
		for _, label := range roster.Labels() {
			id := roster.Identity(label)
			name := roster.Style(label).Render(roster.DisplayName(label))
			gender := ""
			if id != nil {
				gender = id.Gender
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", label, name, gender)
		}
		w.Flush()
		return nil
	},
}

var speakerAssignFlags struct {
	gender string
	avatar string
}

var speakersAssignCmd = &cobra.Command{
	Use:   "assign <session> <label> <name>",
	Short: "Assign a name to a diarization label",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sessionID, label, name := args[0], args[1], args[2]
		roster, err := store.Roster(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		roster.Assign(label, name, speakerAssignFlags.gender, speakerAssignFlags.avatar)
		if err := store.SaveRoster(cmd.Context(), sessionID, roster); err != nil {
			return err
		}
		fmt.Printf("%s is now %s.\n", label, name)
		return nil
	},
}

var speakersSaveCmd = &cobra.Command{
	Use:   "save <session> <file>",
	Short: "Save a session's roster to a YAML file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		roster, err := store.Roster(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return roster.SaveFile(args[1])
	},
}

var speakersMergeCmd = &cobra.Command{
	Use:   "merge <session> <file>",
	Short: "Merge a saved roster YAML file into a session",
	Long: `Merge a saved roster into a session. Labels present in the file
overwrite the session's entries; labels the file does not mention are kept.
Label reuse across diarization runs is heuristic, so review the result.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		roster, err := store.Roster(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := roster.MergeFile(args[1]); err != nil {
			return err
		}
		return store.SaveRoster(cmd.Context(), args[0], roster)
	},
}

func init() {
	speakersAssignCmd.Flags().StringVar(&speakerAssignFlags.gender, "gender", "", "speaker gender, used for pronouns in the tale")
	speakersAssignCmd.Flags().StringVar(&speakerAssignFlags.avatar, "avatar", "", "avatar image path")
	speakersCmd.AddCommand(speakersListCmd)
	speakersCmd.AddCommand(speakersAssignCmd)
	speakersCmd.AddCommand(speakersSaveCmd)
	speakersCmd.AddCommand(speakersMergeCmd)
	rootCmd.AddCommand(speakersCmd)
}
