package narrative

import (
	"fmt"

	"github.com/krakendreams/scribe/pkg/transcript"
)

// Budget bounds the size of a chunk.
type Budget struct {
	// Size is the maximum chunk size. Defaults to 6000.
	Size int

	// Tokens switches the unit from characters to estimated tokens
	// (runes divided by four).
	Tokens bool
}

const defaultBudgetSize = 6000

func (b Budget) size() int {
	if b.Size > 0 {
		return b.Size
	}
	return defaultBudgetSize
}

func (b Budget) estimate(seg *transcript.Segment) int {
	n := seg.TextSize()
	if b.Tokens {
		n = (n + 3) / 4
	}
	return n
}

// Split partitions the segment sequence into chunks by greedy bin-packing:
// segments accumulate into the current chunk until the next one would
// exceed the budget, which closes the chunk even if under-full. A single
// segment larger than the whole budget becomes an oversized chunk of its
// own, never dropped or truncated, and is reported as a warning.
// Boundaries always fall on segment boundaries.
func Split(segs []transcript.Segment, budget Budget) ([]Chunk, []Warning) {
	if len(segs) == 0 {
		return nil, nil
	}
	max := budget.size()

	var chunks []Chunk
	var warnings []Warning
	start, size := 0, 0

	flush := func(end int) {
		if end == start {
			return
		}
		chunks = append(chunks, Chunk{
			Index:    len(chunks),
			Segments: segs[start:end],
			Size:     size,
		})
		start, size = end, 0
	}

	for i := range segs {
		n := budget.estimate(&segs[i])
		if size > 0 && size+n > max {
			flush(i)
		}
		size += n
		if n > max {
			// Oversized segment: the flush above emptied the current
			// chunk, so it goes out alone.
			flush(i + 1)
			warnings = append(warnings, Warning{
				ChunkIndex: len(chunks) - 1,
				Message:    fmt.Sprintf("segment of size %d exceeds chunk budget %d", n, max),
			})
		}
	}
	flush(len(segs))
	return chunks, warnings
}
