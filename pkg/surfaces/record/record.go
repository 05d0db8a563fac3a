// Package record provides a headless surface that keeps every frame drawn and
// replays scripted event batches. Tests and batch hosts use it to drive the
// render loop without a terminal or browser.
package record

import (
	"context"
	"sync"

	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/state"
)

// Surface records frames per pass. Each PollEvents call hands out the next
// scripted batch; once the script is exhausted it returns no events, which
// ends a render loop.
type Surface struct {
	mu      sync.Mutex
	passes  [][]render.Frame
	current []render.Frame
	open    bool
	script  [][]render.Event
}

var (
	_ render.Surface   = (*Surface)(nil)
	_ render.PassHooks = (*Surface)(nil)
)

// New returns a recorder that replays the given batches in order.
func New(batches ...[]render.Event) *Surface {
	s := &Surface{}
	for _, batch := range batches {
		s.script = append(s.script, append([]render.Event(nil), batch...))
	}
	return s
}

// Queue appends another batch to the script.
func (s *Surface) Queue(events ...render.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, append([]render.Event(nil), events...))
}

// BeginPass starts a new frame list.
func (s *Surface) BeginPass(context.Context, uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.open = true
	return nil
}

// EndPass files the frames of the finished pass.
func (s *Surface) EndPass(context.Context, uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes = append(s.passes, s.current)
	s.current = nil
	s.open = false
	return nil
}

// Draw records a frame. Frames drawn outside BeginPass/EndPass are filed as
// a pass of their own.
func (s *Surface) Draw(_ context.Context, frame render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame.Errors = append([]string(nil), frame.Errors...)
	if !s.open {
		s.passes = append(s.passes, []render.Frame{frame})
		return nil
	}
	s.current = append(s.current, frame)
	return nil
}

// PollEvents returns the next scripted batch.
func (s *Surface) PollEvents(ctx context.Context) ([]render.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.script) == 0 {
		return nil, nil
	}
	batch := s.script[0]
	s.script = s.script[1:]
	return batch, nil
}

// Passes returns the recorded frames, one slice per pass.
func (s *Surface) Passes() [][]render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]render.Frame, len(s.passes))
	for idx, frames := range s.passes {
		out[idx] = append([]render.Frame(nil), frames...)
	}
	return out
}

// Last returns the frames of the most recent pass.
func (s *Surface) Last() []render.Frame {
	passes := s.Passes()
	if len(passes) == 0 {
		return nil
	}
	return passes[len(passes)-1]
}

// Entry is a comparable digest of a frame.
type Entry struct {
	ID         string
	Depth      int
	Visible    bool
	Value      any
	Text       string
	Form       string
	FormStatus state.FormStatus
	Errors     []string
}

// Trace digests frames for comparisons in tests and logs.
func Trace(frames []render.Frame) []Entry {
	out := make([]Entry, 0, len(frames))
	for _, frame := range frames {
		out = append(out, Entry{
			ID:         frame.ID(),
			Depth:      frame.Depth,
			Visible:    frame.Visible,
			Value:      frame.Value,
			Text:       frame.Text,
			Form:       frame.Form,
			FormStatus: frame.FormStatus,
			Errors:     frame.Errors,
		})
	}
	return out
}

// Find returns the frame of id in frames.
func Find(frames []render.Frame, id string) (render.Frame, bool) {
	for _, frame := range frames {
		if frame.ID() == id {
			return frame, true
		}
	}
	return render.Frame{}, false
}
