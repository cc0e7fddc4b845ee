// Package playback maps a live playback position to the active transcript
// segment, so the interactive surface can highlight whoever is speaking.
//
// A segment stays active for a short linger window after its end, which
// keeps the highlight from flickering during rapid speaker alternation.
// Lookups are stateless over the time-sorted segment slice, so arbitrary
// seeks behave exactly like monotonic advance: there is no cursor to go
// stale.
package playback

import (
	"sort"

	"github.com/krakendreams/scribe/pkg/transcript"
)

// DefaultLinger keeps a speaker highlighted for 1.5 seconds past the end
// of their turn.
const DefaultLinger = 1.5

// Sync resolves playback positions against an attributed transcript.
// The segment slice must be ordered by start time, as the merger emits it;
// Sync reads it and never modifies it.
type Sync struct {
	segs   []transcript.Segment
	maxEnd []float64 // prefix maxima of segment ends
	linger float64
}

// New creates a synchronizer over the segment sequence. A non-positive
// linger selects [DefaultLinger].
func New(segs []transcript.Segment, linger float64) *Sync {
	if linger <= 0 {
		linger = DefaultLinger
	}
	// Overlapping word input can make a long segment outlast its
	// successors, so end times need not be monotonic. The prefix maxima
	// bound the backward scan in ActiveIndex.
	maxEnd := make([]float64, len(segs))
	end := 0.0
	for i := range segs {
		if segs[i].End > end {
			end = segs[i].End
		}
		maxEnd[i] = end
	}
	return &Sync{segs: segs, maxEnd: maxEnd, linger: linger}
}

// ActiveIndex returns the index of the segment active at the given
// position, or -1 when no segment is active. A segment s is active while
// position ∈ [s.Start, s.End+linger). When linger windows of consecutive
// segments overlap, the most recently started segment wins.
func (s *Sync) ActiveIndex(position float64) int {
	// First segment starting after position; candidates lie before it.
	idx := sort.Search(len(s.segs), func(i int) bool {
		return s.segs[i].Start > position
	})

	// The most recently started candidate with an open window decides.
	// The scan stops once every segment up to i has closed, so it ends
	// after one step whenever end times are monotonic.
	for i := idx - 1; i >= 0; i-- {
		if position < s.segs[i].End+s.linger {
			return i
		}
		if position >= s.maxEnd[i]+s.linger {
			break
		}
	}
	return -1
}

// Active returns the segment active at the given position, or nil.
func (s *Sync) Active(position float64) *transcript.Segment {
	if i := s.ActiveIndex(position); i >= 0 {
		return &s.segs[i]
	}
	return nil
}

// SeekTo returns the start time of the segment at index i, for
// click-to-seek. The second return is false if the index is out of range.
func (s *Sync) SeekTo(i int) (float64, bool) {
	if i < 0 || i >= len(s.segs) {
		return 0, false
	}
	return s.segs[i].Start, true
}
