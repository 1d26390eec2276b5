package trace

import (
	"fmt"
	"io"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer, one line each.
type StreamTracer struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Tracer = (*StreamTracer)(nil)

func NewStreamTracer(w io.Writer) *StreamTracer {
	return &StreamTracer{w: w}
}

// Emit writes an event to the output. Write failures are swallowed: tracing
// must never break the pipeline.
func (t *StreamTracer) Emit(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := fmt.Sprintf("[%s] %-7s %s", ev.Time.Format("15:04:05.000"), ev.Kind, ev.Phase)
	if ev.Kind == KindEnd {
		line += fmt.Sprintf(" (%0.2f ms)", float64(ev.Dur.Microseconds())/1000)
	}
	if ev.Note != "" {
		line += "  // " + ev.Note
	}
	_, _ = fmt.Fprintln(t.w, line)
}

// Flush is a no-op; events are written as they arrive.
func (t *StreamTracer) Flush() error { return nil }

// Enabled always returns true.
func (t *StreamTracer) Enabled() bool { return true }
