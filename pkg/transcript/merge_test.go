package transcript

import (
	"testing"
)

func word(text string, start, end float64) Word {
	return Word{Text: text, Start: start, End: end}
}

func turn(label string, start, end, conf float64) SpeakerTurn {
	return SpeakerTurn{Label: label, Start: start, End: end, Confidence: conf}
}

func TestMerge_Empty(t *testing.T) {
	if segs := Merge(nil, nil); len(segs) != 0 {
		t.Fatalf("Merge(nil, nil) = %d segments; want 0", len(segs))
	}
	if segs := Merge(nil, []SpeakerTurn{turn("A", 0, 1, 1)}); len(segs) != 0 {
		t.Fatalf("Merge(nil, turns) = %d segments; want 0", len(segs))
	}
}

func TestMerge_NoTurns(t *testing.T) {
	words := []Word{word("hello", 0, 0.5), word("there", 0.6, 1.0)}
	segs := Merge(words, nil)
	if len(segs) != 1 {
		t.Fatalf("got %d segments; want 1", len(segs))
	}
	if segs[0].Label != UnknownLabel {
		t.Errorf("label = %q; want %q", segs[0].Label, UnknownLabel)
	}
	if got := segs[0].Text(); got != "hello there" {
		t.Errorf("text = %q; want %q", got, "hello there")
	}
}

func TestMerge_Coalesce(t *testing.T) {
	words := []Word{
		word("we", 0.0, 0.3),
		word("go", 0.4, 0.7),
		word("north", 0.8, 1.1),
		word("agreed", 2.1, 2.5),
	}
	turns := []SpeakerTurn{
		turn("SPEAKER_00", 0.0, 1.5, 0.9),
		turn("SPEAKER_01", 2.0, 3.0, 0.9),
	}
	segs := Merge(words, turns)
	if len(segs) != 2 {
		t.Fatalf("got %d segments; want 2", len(segs))
	}
	if segs[0].Label != "SPEAKER_00" || segs[0].Text() != "we go north" {
		t.Errorf("seg0 = %q %q", segs[0].Label, segs[0].Text())
	}
	if segs[1].Label != "SPEAKER_01" || segs[1].Text() != "agreed" {
		t.Errorf("seg1 = %q %q", segs[1].Label, segs[1].Text())
	}
	if segs[0].Start != 0.0 || segs[0].End != 1.1 {
		t.Errorf("seg0 bounds = [%v, %v]; want [0, 1.1]", segs[0].Start, segs[0].End)
	}
}

func TestMerge_LabelChangeWithoutGap(t *testing.T) {
	words := []Word{word("yes", 0.0, 1.0), word("no", 1.0, 2.0)}
	turns := []SpeakerTurn{
		turn("A", 0.0, 1.0, 0.9),
		turn("B", 1.0, 2.0, 0.9),
	}
	segs := Merge(words, turns)
	if len(segs) != 2 {
		t.Fatalf("got %d segments; want 2", len(segs))
	}
	if segs[0].Label != "A" || segs[1].Label != "B" {
		t.Errorf("labels = %q, %q; want A, B", segs[0].Label, segs[1].Label)
	}
}

// Overlapping turns: A [0,2) at 0.6 vs B [1,3) at 0.9. Every word whose
// midpoint falls in [1,2) must resolve to B.
func TestMerge_OverlapConfidenceWins(t *testing.T) {
	turns := []SpeakerTurn{
		turn("A", 0.0, 2.0, 0.6),
		turn("B", 1.0, 3.0, 0.9),
	}
	words := []Word{
		word("w1", 0.0, 0.4),  // mid 0.2 -> A
		word("w2", 1.0, 1.2),  // mid 1.1 -> B (overlap, B more confident)
		word("w3", 1.6, 2.0),  // mid 1.8 -> B
		word("w4", 2.2, 2.6),  // mid 2.4 -> B only
	}
	segs := Merge(words, turns)
	if len(segs) != 2 {
		t.Fatalf("got %d segments; want 2", len(segs))
	}
	if segs[0].Label != "A" || len(segs[0].Words) != 1 {
		t.Errorf("seg0 = %q with %d words; want A with 1", segs[0].Label, len(segs[0].Words))
	}
	if segs[1].Label != "B" || len(segs[1].Words) != 3 {
		t.Errorf("seg1 = %q with %d words; want B with 3", segs[1].Label, len(segs[1].Words))
	}
}

func TestMerge_OverlapTieEarliestStart(t *testing.T) {
	turns := []SpeakerTurn{
		turn("A", 0.0, 2.0, 0.8),
		turn("B", 0.5, 2.0, 0.8),
	}
	words := []Word{word("w", 1.0, 1.2)}
	segs := Merge(words, turns)
	if segs[0].Label != "A" {
		t.Errorf("label = %q; want A (earliest start on confidence tie)", segs[0].Label)
	}
}

func TestMerge_NearestTurnFallback(t *testing.T) {
	tests := []struct {
		name  string
		turns []SpeakerTurn
		w     Word
		want  string
	}{
		{
			name:  "closer to earlier turn",
			turns: []SpeakerTurn{turn("A", 0, 1, 0.9), turn("B", 5, 6, 0.9)},
			w:     word("w", 1.4, 1.8), // mid 1.6: 0.6 from A, 3.4 from B
			want:  "A",
		},
		{
			name:  "closer to later turn",
			turns: []SpeakerTurn{turn("A", 0, 1, 0.9), turn("B", 5, 6, 0.9)},
			w:     word("w", 4.4, 4.8), // mid 4.6: 3.6 from A, 0.4 from B
			want:  "B",
		},
		{
			name:  "equidistant prefers earlier",
			turns: []SpeakerTurn{turn("A", 0, 1, 0.9), turn("B", 5, 6, 0.9)},
			w:     word("w", 2.8, 3.2), // mid 3.0: 2.0 from both
			want:  "A",
		},
		{
			name:  "before all turns",
			turns: []SpeakerTurn{turn("A", 2, 3, 0.9)},
			w:     word("w", 0.0, 0.4),
			want:  "A",
		},
		{
			name: "nested earlier turn reaches further",
			turns: []SpeakerTurn{
				turn("A", 0, 10, 0.9),
				turn("B", 1, 2, 0.9),
			},
			w:    word("w", 10.5, 11.5), // mid 11: 1.0 from A, 9.0 from B
			want: "A",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			segs := Merge([]Word{tc.w}, tc.turns)
			if len(segs) != 1 {
				t.Fatalf("got %d segments; want 1", len(segs))
			}
			if segs[0].Label != tc.want {
				t.Errorf("label = %q; want %q", segs[0].Label, tc.want)
			}
		})
	}
}

func TestMerge_ZeroDurationWord(t *testing.T) {
	turns := []SpeakerTurn{turn("A", 0, 1, 0.9), turn("B", 1, 2, 0.9)}
	words := []Word{word("w", 1.0, 1.0)} // midpoint is Start itself
	segs := Merge(words, turns)
	if segs[0].Label != "B" {
		t.Errorf("label = %q; want B (midpoint 1.0 in B's [1,2))", segs[0].Label)
	}
}

// Every input word appears in exactly one output segment, in order, and no
// segment is empty or mixes labels.
func TestMerge_NoLossNoDuplication(t *testing.T) {
	var words []Word
	for i := 0; i < 200; i++ {
		s := float64(i) * 0.5
		words = append(words, word("w", s, s+0.4))
	}
	turns := []SpeakerTurn{
		turn("A", 0, 20, 0.7),
		turn("B", 15, 55, 0.9), // overlaps A
		turn("C", 60, 90, 0.8), // gap before C
	}
	segs := Merge(words, turns)

	total := 0
	prevEnd := -1.0
	for _, seg := range segs {
		if len(seg.Words) == 0 {
			t.Fatal("empty segment")
		}
		for _, w := range seg.Words {
			if w.Start < prevEnd {
				t.Fatalf("word order violated at %v", w.Start)
			}
			prevEnd = w.Start
		}
		total += len(seg.Words)
	}
	if total != len(words) {
		t.Errorf("output words = %d; want %d", total, len(words))
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Label == segs[i-1].Label {
			t.Errorf("adjacent segments %d and %d share label %q", i-1, i, segs[i].Label)
		}
	}
}
