package transcript

// Merge aligns the ordered word sequence to the ordered speaker-turn
// sequence and returns the canonical segment sequence. Both inputs may be
// empty; empty input yields an empty, valid result.
//
// Each word is attributed by midpoint containment: the turn whose
// [Start, End) interval contains the word's midpoint owns the word. When
// diarization turns overlap and several contain the midpoint, the turn with
// the higher confidence wins; ties go to the earliest start. When no turn
// contains the midpoint, the nearest turn by boundary distance owns the
// word, ties again going to the earlier turn. Proportional splitting of a
// word across overlapping turns is a known alternative policy and is
// deliberately not implemented.
//
// Consecutive words resolving to the same label coalesce into one segment;
// any label change starts a new segment even with no time gap. Every input
// word lands in exactly one output segment, in original order. The merge is
// a linear two-pointer walk, O(len(words) + len(turns)), and relies on word
// midpoints being non-decreasing, as the loaders emit them; words with
// wildly overlapping intervals whose midpoints run backwards would let the
// turn window advance past a still-matching turn.
func Merge(words []Word, turns []SpeakerTurn) []Segment {
	if len(words) == 0 {
		return nil
	}

	var segs []Segment

	// Candidate window over turns for the current midpoint. Word midpoints
	// are non-decreasing, so both pointers only move forward: hi admits
	// turns that have started, lo retires turns that have fully ended.
	// prev remembers the retired turn reaching furthest right, the best
	// earlier candidate once the window holds no containing turn.
	lo, hi := 0, 0
	prev := -1

	for _, w := range words {
		mid := w.Midpoint()

		for hi < len(turns) && turns[hi].Start <= mid {
			hi++
		}
		for lo < hi && turns[lo].End <= mid {
			if prev == -1 || turns[lo].End > turns[prev].End {
				prev = lo
			}
			lo++
		}

		label := resolveLabel(turns, lo, hi, prev, mid)

		if n := len(segs); n > 0 && segs[n-1].Label == label {
			seg := &segs[n-1]
			seg.Words = append(seg.Words, w)
			if w.End > seg.End {
				seg.End = w.End
			}
		} else {
			segs = append(segs, Segment{
				Label: label,
				Start: w.Start,
				End:   w.End,
				Words: []Word{w},
			})
		}
	}
	return segs
}

// resolveLabel picks the owning turn for the midpoint mid. Containment
// beats proximity; among containing turns higher confidence wins with
// earliest-start tie-break; with no containing turn the nearest boundary
// wins with earlier-turn tie-break.
func resolveLabel(turns []SpeakerTurn, lo, hi, prev int, mid float64) string {
	if len(turns) == 0 {
		return UnknownLabel
	}

	best := -1
	for i := lo; i < hi; i++ {
		if !turns[i].Contains(mid) {
			continue
		}
		if best == -1 || turns[i].Confidence > turns[best].Confidence {
			best = i
		}
	}
	if best >= 0 {
		return turns[best].Label
	}

	// No containing turn: compare the furthest-reaching retired turn, any
	// window turns already ended, and the first turn yet to start.
	// Ascending index order with a strict comparison keeps the earlier
	// turn on distance ties.
	best = -1
	bestDist := 0.0
	consider := func(i int) {
		if i < 0 || i >= len(turns) {
			return
		}
		d := turns[i].distance(mid)
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	consider(prev)
	for i := lo; i < hi; i++ {
		consider(i)
	}
	consider(hi)

	if best == -1 {
		return UnknownLabel
	}
	return turns[best].Label
}
