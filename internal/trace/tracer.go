// Package trace records timing events for the compile pipeline phases.
package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindBegin marks the start of a pipeline phase.
	KindBegin Kind = iota + 1
	// KindEnd marks the end of a pipeline phase.
	KindEnd
	// KindPoint represents an instant event.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Event is one trace record. Dur is set on KindEnd events only.
type Event struct {
	Kind  Kind
	Phase string
	Time  time.Time
	Dur   time.Duration
	Note  string
}

// Tracer receives pipeline trace events. Implementations must be safe for
// concurrent Emit calls.
type Tracer interface {
	Emit(ev Event)
	// Flush ensures all buffered events are written.
	Flush() error
	// Enabled reports whether emitting is worthwhile at all.
	Enabled() bool
}

// Begin emits a phase-start event and returns a closure that emits the
// matching end with the measured duration.
func Begin(t Tracer, phase string) func(note string) {
	if t == nil || !t.Enabled() {
		return func(string) {}
	}
	start := time.Now()
	t.Emit(Event{Kind: KindBegin, Phase: phase, Time: start})
	return func(note string) {
		now := time.Now()
		t.Emit(Event{Kind: KindEnd, Phase: phase, Time: now, Dur: now.Sub(start), Note: note})
	}
}

// Point emits an instant event.
func Point(t Tracer, phase, note string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(Event{Kind: KindPoint, Phase: phase, Time: time.Now(), Note: note})
}
