// Package transcript builds a canonical, speaker-attributed transcript from
// raw ASR word timings and raw diarization speaker turns.
//
// The pipeline is: [Merge] aligns words to speaker turns and produces the
// ordered [Segment] sequence; [Rules.Correct] applies vocabulary
// substitutions; [Punctuate] inserts sentence boundaries. Each stage is a
// pure function over immutable inputs and is safe to call from any
// goroutine.
//
// Segments are created once by the merger and are thereafter only annotated
// by lookups in the speaker roster; they are never restructured.
package transcript

import (
	"fmt"
	"strings"
)

// UnknownLabel is assigned to words that cannot be attributed to any
// diarization turn because no turns were provided.
const UnknownLabel = "UNKNOWN"

// Word is a single timestamped token from the ASR engine.
// Words are immutable once loaded; correction passes produce new Words.
type Word struct {
	// Text is the token text. A correction pass may leave it empty when a
	// multi-word match collapsed into an earlier word; empty words keep
	// their timing and are skipped when joining display text.
	Text string `json:"word" msgpack:"w"`

	// Start and End are offsets from the beginning of the recording, in
	// seconds. Start <= End. A zero-duration word has Start == End.
	Start float64 `json:"start" msgpack:"s"`
	End   float64 `json:"end" msgpack:"e"`

	// Confidence is the ASR score in [0, 1], if the engine reports one.
	Confidence float64 `json:"score,omitempty" msgpack:"c,omitempty"`
}

// Midpoint returns the temporal midpoint of the word. A zero-duration word
// uses Start as both bounds.
func (w Word) Midpoint() float64 {
	if w.End <= w.Start {
		return w.Start
	}
	return w.Start + (w.End-w.Start)/2
}

// SpeakerTurn is a single speaker-homogeneous time interval from the
// diarization engine. Label is an opaque run-scoped identifier such as
// "SPEAKER_00", not a name.
type SpeakerTurn struct {
	Label      string  `json:"speaker" msgpack:"l"`
	Start      float64 `json:"start" msgpack:"s"`
	End        float64 `json:"end" msgpack:"e"`
	Confidence float64 `json:"confidence,omitempty" msgpack:"c,omitempty"`
}

// Contains reports whether t's [Start, End) interval contains the instant p.
func (t SpeakerTurn) Contains(p float64) bool {
	return p >= t.Start && p < t.End
}

// distance returns how far p lies outside t's boundaries, 0 if contained.
func (t SpeakerTurn) distance(p float64) float64 {
	switch {
	case p < t.Start:
		return t.Start - p
	case p >= t.End:
		return p - t.End
	default:
		return 0
	}
}

// Segment is a contiguous run of words attributed to one speaker label.
// The segment holds only the label; display metadata (name, gender, color,
// avatar) lives in the speaker roster and is looked up on demand.
type Segment struct {
	Label string  `json:"speaker" msgpack:"l"`
	Start float64 `json:"start" msgpack:"s"`
	End   float64 `json:"end" msgpack:"e"`
	Words []Word  `json:"words" msgpack:"ws"`
}

// Text joins the non-empty word texts with single spaces.
func (s *Segment) Text() string {
	var sb strings.Builder
	for _, w := range s.Words {
		if w.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// Duration returns the segment length in seconds.
func (s *Segment) Duration() float64 {
	return s.End - s.Start
}

// Timestamp formats the segment start as [MM:SS] or [H:MM:SS].
func (s *Segment) Timestamp() string {
	total := int(s.Start)
	h := total / 3600
	m := total % 3600 / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("[%d:%02d:%02d]", h, m, sec)
	}
	return fmt.Sprintf("[%02d:%02d]", m, sec)
}

// TextSize returns the total rune count of the segment's display text.
// The narrative chunker uses it as the segment's size estimate.
func (s *Segment) TextSize() int {
	n := 0
	first := true
	for _, w := range s.Words {
		if w.Text == "" {
			continue
		}
		if !first {
			n++ // joining space
		}
		n += len([]rune(w.Text))
		first = false
	}
	return n
}
