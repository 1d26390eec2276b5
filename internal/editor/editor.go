// Package editor defines the capability surface the pipeline needs from a
// code editor widget, plus an in-memory implementation used by the TUI and
// by tests.
package editor

import "sketch/internal/diag"

// Marker is an underline annotation over a character range, tagged with a
// severity. Lines and columns are 1-based.
type Marker struct {
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Message   string
	Severity  diag.Severity
}

// Decoration highlights whole lines in the gutter, StartLine through EndLine
// inclusive, 1-based.
type Decoration struct {
	StartLine uint32
	EndLine   uint32
}

// Handle identifies an installed line decoration so it can be removed later.
type Handle uint64

// Editor is the widget capability consumed by the pipeline. The pipeline
// drives it from a single goroutine at a time; implementations that are also
// read by a UI must synchronize internally, as Buffer does.
type Editor interface {
	// Value returns the current script text.
	Value() string
	// SetValue replaces the current script text.
	SetValue(text string)
	// SetMarkers replaces all underline markers owned by owner. An empty
	// slice clears them.
	SetMarkers(owner string, markers []Marker)
	// ApplyDecorations removes the decorations named by previous and
	// installs next, returning handles for the installed set. The swap is
	// atomic: callers always hand back the full prior set.
	ApplyDecorations(previous []Handle, next []Decoration) []Handle
	// Focus moves input focus to the editor.
	Focus()
}
