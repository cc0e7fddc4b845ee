package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/krakendreams/scribe/pkg/speaker"
	"github.com/krakendreams/scribe/pkg/transcript"
)

// fakeProvider records prompts and answers each call through fn.
type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	fn      func(call int, prompt string) (string, error)
}

func (p *fakeProvider) Generate(_ context.Context, _ string, prompt string) (string, error) {
	p.mu.Lock()
	call := len(p.prompts)
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()
	return p.fn(call, prompt)
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

func testSegments(n int) []transcript.Segment {
	segs := make([]transcript.Segment, n)
	for i := range segs {
		segs[i] = transcript.Segment{
			Label: fmt.Sprintf("SPEAKER_%02d", i%2),
			Start: float64(i), End: float64(i) + 1,
			Words: []transcript.Word{{Text: fmt.Sprintf("line%d", i), Start: float64(i), End: float64(i) + 1}},
		}
	}
	return segs
}

func newTestSynth(t *testing.T, p Provider, mutate func(*Config)) *Synthesizer {
	t.Helper()
	cfg := Config{
		Provider:    p,
		Model:       "test-model",
		Budget:      Budget{Size: 10},
		BaseBackoff: time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSynthesizer(cfg)
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}
	return s
}

func TestRunCompletes(t *testing.T) {
	p := &fakeProvider{fn: func(call int, _ string) (string, error) {
		return fmt.Sprintf("prose %d", call), nil
	}}

	var events []Progress
	s := newTestSynth(t, p, func(cfg *Config) {
		cfg.OnProgress = func(ev Progress) { events = append(events, ev) }
	})

	res, err := s.Run(context.Background(), testSegments(6))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusDone {
		t.Fatalf("status = %v, want done", res.Status)
	}
	if res.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", res.Remaining())
	}
	for i, c := range res.Chunks {
		if c.State != StateDone {
			t.Errorf("chunk %d state = %v, want done", i, c.State)
		}
		if !strings.Contains(res.Stitched, c.Output) {
			t.Errorf("stitched prose missing chunk %d output", i)
		}
	}
	if res.Title == "" || res.Closing == "" {
		t.Errorf("title %q / closing %q, want both set", res.Title, res.Closing)
	}

	// Progress must walk each chunk through in_flight then done, in order.
	var last int = -1
	for _, ev := range events {
		if ev.State == StateInFlight {
			if ev.Chunk != last+1 {
				t.Fatalf("chunk %d started after chunk %d", ev.Chunk, last)
			}
			last = ev.Chunk
		}
	}
}

func TestRunPromptsCarryContext(t *testing.T) {
	p := &fakeProvider{fn: func(call int, _ string) (string, error) {
		return fmt.Sprintf("OUTPUT_%d", call), nil
	}}
	s := newTestSynth(t, p, func(cfg *Config) {
		roster := speaker.NewRoster()
		roster.Assign("SPEAKER_00", "Thorin", "Male", "")
		cfg.Roster = roster
	})

	res, err := s.Run(context.Background(), testSegments(6))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want at least 2", len(res.Chunks))
	}

	first, second := p.prompts[0], p.prompts[1]
	if !strings.Contains(first, "This is the beginning of the tale.") {
		t.Errorf("first prompt missing opening marker")
	}
	if !strings.Contains(second, "OUTPUT_0") {
		t.Errorf("second prompt missing carry-over of first output")
	}
	if !strings.Contains(first, "Thorin") {
		t.Errorf("prompt missing assigned speaker name")
	}
	if !strings.Contains(first, "Zhree") {
		t.Errorf("prompt missing default narrator")
	}
}

func TestRunCarryOverBounded(t *testing.T) {
	long := strings.Repeat("x", 2000)
	p := &fakeProvider{fn: func(int, string) (string, error) {
		return long, nil
	}}
	s := newTestSynth(t, p, func(cfg *Config) {
		cfg.CarryOverRunes = 100
	})

	res, err := s.Run(context.Background(), testSegments(6))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, c := range res.Chunks[1:] {
		if n := len([]rune(c.CarryOver)); n != 100 {
			t.Errorf("chunk %d carry-over = %d runes, want 100", i+1, n)
		}
	}
}

func TestRunRetriesRateLimit(t *testing.T) {
	p := &fakeProvider{fn: func(call int, _ string) (string, error) {
		if call == 0 {
			return "", classify(KindRateLimited, errors.New("429"))
		}
		return "prose", nil
	}}
	s := newTestSynth(t, p, func(cfg *Config) {
		cfg.Budget = Budget{Size: 100000}
	})

	res, err := s.Run(context.Background(), testSegments(4))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusDone {
		t.Fatalf("status = %v, want done after retry", res.Status)
	}
}

func TestRunRetryExhaustionFailsChunk(t *testing.T) {
	// Chunks 0 and 1 succeed; chunk 2 rate-limits forever.
	p := &fakeProvider{fn: func(call int, _ string) (string, error) {
		if call >= 2 {
			return "", classify(KindRateLimited, errors.New("429"))
		}
		return "prose", nil
	}}
	s := newTestSynth(t, p, nil)

	res, err := s.Run(context.Background(), testSegments(10))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if res.Chunks[0].State != StateDone || res.Chunks[1].State != StateDone {
		t.Errorf("completed chunks not preserved: %v, %v", res.Chunks[0].State, res.Chunks[1].State)
	}
	if res.Chunks[2].State != StateFailed {
		t.Errorf("chunk 2 state = %v, want failed", res.Chunks[2].State)
	}
	for i, c := range res.Chunks[3:] {
		if c.State != StatePending {
			t.Errorf("chunk %d state = %v, want pending", i+3, c.State)
		}
	}
	// Two successes plus three attempts at chunk 2; no title, no closing.
	if got := p.calls(); got != 5 {
		t.Errorf("provider calls = %d, want 5", got)
	}
	if res.Title != "" || res.Closing != "" {
		t.Errorf("failed run must not decorate, got title %q closing %q", res.Title, res.Closing)
	}
}

func TestRunFatalAbortsImmediately(t *testing.T) {
	p := &fakeProvider{fn: func(int, string) (string, error) {
		return "", classify(KindAuth, errors.New("401"))
	}}
	s := newTestSynth(t, p, nil)

	res, err := s.Run(context.Background(), testSegments(4))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if got := p.calls(); got != 1 {
		t.Errorf("provider calls = %d, want 1 (no retry on auth)", got)
	}
}

func TestRunStopBetweenChunks(t *testing.T) {
	var s *Synthesizer
	p := &fakeProvider{fn: func(call int, _ string) (string, error) {
		if call == 1 {
			// Requested mid-run; takes effect before chunk 2 starts.
			s.Stop()
		}
		return "prose", nil
	}}
	s = newTestSynth(t, p, nil)

	res, err := s.Run(context.Background(), testSegments(10))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusPartial {
		t.Fatalf("status = %v, want partial", res.Status)
	}
	if res.Chunks[0].State != StateDone || res.Chunks[1].State != StateDone {
		t.Errorf("completed chunks not preserved")
	}
	for i, c := range res.Chunks[2:] {
		if c.State != StatePending {
			t.Errorf("chunk %d state = %v, want pending", i+2, c.State)
		}
	}
	if got := p.calls(); got != 2 {
		t.Errorf("provider calls = %d, want 2", got)
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := &fakeProvider{fn: func(call int, _ string) (string, error) {
		if call == 0 {
			close(started)
			<-release
		}
		return "prose", nil
	}}
	s := newTestSynth(t, p, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Run(context.Background(), testSegments(4)); err != nil {
			t.Errorf("first Run: %v", err)
		}
	}()

	<-started
	if _, err := s.Run(context.Background(), testSegments(4)); !errors.Is(err, ErrRunActive) {
		t.Errorf("second Run err = %v, want ErrRunActive", err)
	}
	close(release)
	<-done

	// The synthesizer is reusable once the run finishes.
	if _, err := s.Run(context.Background(), testSegments(4)); err != nil {
		t.Errorf("Run after release: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	p := &fakeProvider{fn: func(call int, prompt string) (string, error) {
		if strings.Contains(prompt, "PARTIAL SUMMARIES:") {
			return "combined summary", nil
		}
		return fmt.Sprintf("partial %d", call), nil
	}}
	s := newTestSynth(t, p, nil)

	// 10 segments at budget 10 make 5 chunks, so 2 blocks plus the
	// combination request.
	out, err := s.Summarize(context.Background(), testSegments(10))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "combined summary" {
		t.Errorf("summary = %q, want combined output", out)
	}
	if got := p.calls(); got != 3 {
		t.Errorf("provider calls = %d, want 3", got)
	}
}

func TestSummarizeSingleBlock(t *testing.T) {
	p := &fakeProvider{fn: func(call int, prompt string) (string, error) {
		if strings.Contains(prompt, "PARTIAL SUMMARIES:") {
			t.Errorf("single block must not combine")
		}
		return "only summary", nil
	}}
	s := newTestSynth(t, p, func(cfg *Config) {
		cfg.Budget = Budget{Size: 100000}
	})

	out, err := s.Summarize(context.Background(), testSegments(4))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "only summary" {
		t.Errorf("summary = %q", out)
	}
	if got := p.calls(); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
}

func TestNewSynthesizerValidation(t *testing.T) {
	if _, err := NewSynthesizer(Config{Model: "m"}); err == nil {
		t.Error("missing provider accepted")
	}
	if _, err := NewSynthesizer(Config{Provider: &fakeProvider{}}); err == nil {
		t.Error("missing model accepted")
	}
}
