package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// The ASR engine is consumed through its aligned JSON output: segments of
// words, each word carrying start/end offsets and an alignment score.
// Timestamps arrive as decimal seconds and may be null for words the
// aligner could not place.
type (
	asrResult struct {
		Segments []asrSegment `json:"segments"`
	}

	asrSegment struct {
		Words []asrWord `json:"words"`
	}

	asrWord struct {
		Text  string           `json:"word"`
		Start *decimal.Decimal `json:"start"`
		End   *decimal.Decimal `json:"end"`
		Score *decimal.Decimal `json:"score"`
	}
)

// LoadWords decodes ASR output from r into the ordered word sequence.
// Words without timestamps inherit the previous word's end as a
// zero-duration placement, so every word keeps a position on the timeline.
// Empty or absent input yields an empty, valid slice.
func LoadWords(r io.Reader) ([]Word, error) {
	var res asrResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("transcript: decode asr output: %w", err)
	}

	var words []Word
	lastEnd := 0.0
	for _, seg := range res.Segments {
		for _, aw := range seg.Words {
			text := strings.TrimSpace(aw.Text)
			if text == "" {
				continue
			}
			w := Word{Text: text, Start: lastEnd, End: lastEnd}
			if aw.Start != nil {
				w.Start, _ = aw.Start.Float64()
				w.End = w.Start
			}
			if aw.End != nil {
				w.End, _ = aw.End.Float64()
			}
			if w.End < w.Start {
				w.End = w.Start
			}
			if aw.Score != nil {
				w.Confidence, _ = aw.Score.Float64()
			}
			words = append(words, w)
			lastEnd = w.End
		}
	}

	// The contract promises ordered words; tolerate engines that emit
	// per-segment order but interleave segment boundaries.
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Start < words[j].Start
	})
	return words, nil
}

// LoadTurns decodes diarization output from r into the ordered speaker-turn
// sequence. The expected shape is a JSON array of objects with speaker,
// start, end, and optional confidence. Turns may overlap; malformed turns
// with end before start are clamped, and empty input yields an empty slice.
func LoadTurns(r io.Reader) ([]SpeakerTurn, error) {
	var turns []SpeakerTurn
	if err := json.NewDecoder(r).Decode(&turns); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("transcript: decode diarization output: %w", err)
	}

	out := turns[:0]
	for _, t := range turns {
		if t.Label == "" {
			continue
		}
		if t.End < t.Start {
			t.End = t.Start
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out, nil
}

// LoadWordsFile reads ASR output from the named file.
func LoadWordsFile(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open asr output: %w", err)
	}
	defer f.Close()
	return LoadWords(f)
}

// LoadTurnsFile reads diarization output from the named file.
func LoadTurnsFile(path string) ([]SpeakerTurn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open diarization output: %w", err)
	}
	defer f.Close()
	return LoadTurns(f)
}
