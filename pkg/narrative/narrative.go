// Package narrative turns a speaker-attributed transcript into
// AI-generated prose. The transcript is partitioned into bounded chunks on
// segment boundaries, each chunk is sent sequentially to a text-generation
// provider together with a bounded carry-over of the prose so far, and the
// outputs are stitched back into one tale.
//
// The [Synthesizer] drives the chunk sequence as an explicit state machine
// (pending, in flight, done, failed) with retry, backoff, and cooperative
// cancellation; completed chunks always survive a failure or a stop.
package narrative

import (
	"github.com/krakendreams/scribe/pkg/transcript"
)

// ChunkState tracks a chunk through the generation run.
type ChunkState int

const (
	StatePending ChunkState = iota
	StateInFlight
	StateDone
	StateFailed
)

func (s ChunkState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInFlight:
		return "in_flight"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Chunk is a non-overlapping slice of the transcript sized for one
// provider request. Chunks partition the segment sequence exactly: no gap,
// no overlap, no reordering, and never a split segment.
type Chunk struct {
	// Index is the 0-based position in the chunk sequence.
	Index int

	// Segments is the chunk's view into the transcript.
	Segments []transcript.Segment

	// Size is the chunk's size estimate in the budget's unit.
	Size int

	// CarryOver is the condensed context that accompanied this chunk's
	// request, set by the synthesizer.
	CarryOver string

	// State, Output, and Err record the chunk's progress through a run.
	State  ChunkState
	Output string
	Err    error
}

// Status is the terminal state of a generation run.
type Status int

const (
	// StatusDone means every chunk completed.
	StatusDone Status = iota
	// StatusPartial means the run was stopped cooperatively; completed
	// chunks are preserved and the rest were never started.
	StatusPartial
	// StatusFailed means a chunk failed after exhausting retries or a
	// fatal provider error aborted the run; completed chunks are
	// preserved.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a generation run. Callers can surface partial
// success accurately: Stitched always holds every completed chunk in
// order, and Remaining reports how much work was left undone.
type Result struct {
	Chunks   []Chunk
	Stitched string
	Title    string
	Closing  string
	Status   Status
}

// Remaining counts chunks that did not complete.
func (r *Result) Remaining() int {
	n := 0
	for i := range r.Chunks {
		if r.Chunks[i].State != StateDone {
			n++
		}
	}
	return n
}

// Warning is a non-fatal condition detected while chunking.
type Warning struct {
	ChunkIndex int
	Message    string
}
