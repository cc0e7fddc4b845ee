package narrative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/krakendreams/scribe/pkg/speaker"
	"github.com/krakendreams/scribe/pkg/transcript"
)

// ErrRunActive is returned when a run is started on a synthesizer that is
// already driving one.
var ErrRunActive = errors.New("narrative: run already active")

const (
	defaultMaxAttempts    = 3
	defaultBaseBackoff    = time.Second
	defaultCarryOverRunes = 500
	titleExcerptRunes     = 1000
)

// Progress is a one-way notification emitted as a chunk changes state.
type Progress struct {
	Chunk int
	Total int
	State ChunkState
}

// Config configures a [Synthesizer]. Provider is required; everything else
// has a usable default.
type Config struct {
	Provider Provider
	Model    string

	// Style is the storytelling voice by name; unknown names fall back
	// to the default style.
	Style string

	// Narrator is the bard persona speaking the tale.
	Narrator string

	// Budget bounds chunk sizes for Split.
	Budget Budget

	// MaxAttempts caps provider calls per chunk, retries included.
	// Defaults to 3.
	MaxAttempts int

	// BaseBackoff is the first retry delay; each retry doubles it.
	// Defaults to one second.
	BaseBackoff time.Duration

	// CarryOverRunes bounds the tail of stitched prose carried into the
	// next chunk's prompt. Defaults to 500.
	CarryOverRunes int

	// Roster supplies speaker names and genders for the prompts.
	Roster *speaker.Roster

	Logger     *slog.Logger
	OnProgress func(Progress)
}

// Synthesizer drives sequential chunk generation against a provider. One
// run at a time; Stop requests a cooperative stop that takes effect at the
// next chunk boundary.
type Synthesizer struct {
	cfg Config

	mu     sync.Mutex
	active bool
	stop   atomic.Bool
}

func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if cfg.Provider == nil {
		return nil, errors.New("narrative: config missing provider")
	}
	if cfg.Model == "" {
		return nil, errors.New("narrative: config missing model")
	}
	if cfg.Narrator == "" {
		cfg.Narrator = DefaultNarrator
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.CarryOverRunes <= 0 {
		cfg.CarryOverRunes = defaultCarryOverRunes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Synthesizer{cfg: cfg}, nil
}

// Stop requests a cooperative stop. In-flight provider requests are not
// interrupted; the run ends before the next chunk starts.
func (s *Synthesizer) Stop() {
	s.stop.Store(true)
}

func (s *Synthesizer) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrRunActive
	}
	s.active = true
	s.stop.Store(false)
	return nil
}

func (s *Synthesizer) release() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

func (s *Synthesizer) progress(chunk, total int, state ChunkState) {
	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(Progress{Chunk: chunk, Total: total, State: state})
	}
}

func (s *Synthesizer) speakers() []speakerInfo {
	if s.cfg.Roster == nil {
		return nil
	}
	var infos []speakerInfo
	for _, label := range s.cfg.Roster.Labels() {
		info := speakerInfo{Name: s.cfg.Roster.DisplayName(label)}
		if id := s.cfg.Roster.Identity(label); id != nil {
			info.Gender = id.Gender
		}
		infos = append(infos, info)
	}
	return infos
}

// chunkText renders a chunk's segments as attributed dialogue lines.
func (s *Synthesizer) chunkText(c *Chunk) string {
	var sb strings.Builder
	for i := range c.Segments {
		seg := &c.Segments[i]
		name := seg.Label
		if s.cfg.Roster != nil {
			name = s.cfg.Roster.DisplayName(seg.Label)
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(seg.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// carryOver returns the bounded tail of the stitched prose.
func (s *Synthesizer) carryOver(stitched string) string {
	runes := []rune(stitched)
	if len(runes) <= s.cfg.CarryOverRunes {
		return stitched
	}
	return string(runes[len(runes)-s.cfg.CarryOverRunes:])
}

// generate issues one provider request with retry and exponential backoff
// for retryable failures.
func (s *Synthesizer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := s.cfg.BaseBackoff << uint(attempt-2)
			s.cfg.Logger.Warn("retrying provider request",
				"attempt", attempt,
				"backoff", backoff,
				"error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
		out, err := s.cfg.Provider.Generate(ctx, s.cfg.Model, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if !AsProviderError(err).Retryable() {
			return "", err
		}
	}
	return "", lastErr
}

// Run generates the tale for the given transcript. Chunks are processed
// strictly in order; a chunk failure or a stop ends the run with every
// completed chunk preserved in the result. Provider failures are recorded
// in the result rather than returned: the error return is reserved for
// ErrRunActive and for a context already cancelled before the first chunk.
func (s *Synthesizer) Run(ctx context.Context, segs []transcript.Segment) (*Result, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	chunks, warnings := Split(segs, s.cfg.Budget)
	for _, w := range warnings {
		s.cfg.Logger.Warn("oversized chunk", "chunk", w.ChunkIndex, "message", w.Message)
	}

	res := &Result{Chunks: chunks, Status: StatusDone}
	total := len(chunks)
	style := StyleByName(s.cfg.Style)
	speakers := s.speakers()

	var stitched strings.Builder
	for i := range res.Chunks {
		if s.stop.Load() || ctx.Err() != nil {
			res.Status = StatusPartial
			break
		}
		c := &res.Chunks[i]
		c.CarryOver = s.carryOver(stitched.String())
		c.State = StateInFlight
		s.progress(i, total, StateInFlight)
		s.cfg.Logger.Info("generating chunk", "chunk", i, "total", total, "size", c.Size)

		prompt, err := renderPrompt("chunk.gotmpl", promptData{
			Narrator:    s.cfg.Narrator,
			Style:       style,
			Speakers:    speakers,
			ChunkNumber: i + 1,
			TotalChunks: total,
			CarryOver:   c.CarryOver,
			Transcript:  s.chunkText(c),
		})
		if err != nil {
			c.State = StateFailed
			c.Err = err
			s.progress(i, total, StateFailed)
			res.Status = StatusFailed
			break
		}

		out, err := s.generate(ctx, prompt)
		if err != nil {
			c.State = StateFailed
			c.Err = err
			s.progress(i, total, StateFailed)
			res.Status = StatusFailed
			s.cfg.Logger.Error("chunk failed", "chunk", i, "error", err)
			break
		}

		c.State = StateDone
		c.Output = strings.TrimSpace(out)
		s.progress(i, total, StateDone)
		if stitched.Len() > 0 {
			stitched.WriteString("\n\n")
		}
		stitched.WriteString(c.Output)
	}

	res.Stitched = stitched.String()
	if res.Status == StatusDone && total > 0 {
		s.decorate(ctx, res, style)
	}
	return res, nil
}

// decorate adds the title and closing line. Both are best-effort: a
// failure here never degrades a completed run.
func (s *Synthesizer) decorate(ctx context.Context, res *Result, style Style) {
	excerpt := res.Stitched
	if runes := []rune(excerpt); len(runes) > titleExcerptRunes {
		excerpt = string(runes[:titleExcerptRunes])
	}

	if prompt, err := renderPrompt("title.gotmpl", promptData{
		Narrator: s.cfg.Narrator,
		Excerpt:  excerpt,
	}); err == nil {
		if title, err := s.generate(ctx, prompt); err == nil {
			res.Title = strings.Trim(strings.TrimSpace(title), `"'`)
		} else {
			s.cfg.Logger.Warn("title generation failed", "error", err)
		}
	}

	if prompt, err := renderPrompt("closing.gotmpl", promptData{
		Narrator: s.cfg.Narrator,
		Style:    style,
	}); err == nil {
		if closing, err := s.generate(ctx, prompt); err == nil {
			res.Closing = strings.TrimSpace(closing)
		} else {
			s.cfg.Logger.Warn("closing generation failed", "error", err)
		}
	}
}

// summaryBlockSize caps how many chunk texts feed one intermediate
// summary request.
const summaryBlockSize = 4

// Summarize produces a short session summary suitable for posting to the
// party's chat. The transcript is chunked with the run budget, each block
// of chunks is summarized, and one final request combines the partial
// summaries. A single block skips the combination step.
func (s *Synthesizer) Summarize(ctx context.Context, segs []transcript.Segment) (string, error) {
	if err := s.acquire(); err != nil {
		return "", err
	}
	defer s.release()

	chunks, _ := Split(segs, s.cfg.Budget)
	if len(chunks) == 0 {
		return "", errors.New("narrative: empty transcript")
	}
	speakers := s.speakers()

	var partials []string
	for start := 0; start < len(chunks); start += summaryBlockSize {
		if s.stop.Load() || ctx.Err() != nil {
			return "", context.Canceled
		}
		end := min(start+summaryBlockSize, len(chunks))
		var block strings.Builder
		for i := start; i < end; i++ {
			block.WriteString(s.chunkText(&chunks[i]))
		}

		prompt, err := renderPrompt("summary.gotmpl", promptData{
			Narrator:   s.cfg.Narrator,
			Speakers:   speakers,
			Transcript: block.String(),
		})
		if err != nil {
			return "", err
		}
		s.cfg.Logger.Info("summarizing block", "chunks", fmt.Sprintf("%d-%d", start, end-1))
		out, err := s.generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		partials = append(partials, strings.TrimSpace(out))
	}

	if len(partials) == 1 {
		return partials[0], nil
	}

	prompt, err := renderPrompt("combine.gotmpl", promptData{
		Narrator:   s.cfg.Narrator,
		Transcript: strings.Join(partials, "\n\n"),
	})
	if err != nil {
		return "", err
	}
	out, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
