// Package present turns compile errors into editor annotations and error
// panel content.
package present

import (
	"fmt"

	"sketch/internal/diag"
	"sketch/internal/editor"
	"sketch/internal/source"
)

// MaxErrors caps how many compile errors are shown verbatim; the rest
// collapse into a single summary line.
const MaxErrors = 5

// MarkerOwner tags the underline markers installed by the presenter.
const MarkerOwner = "compile"

// Panel is the textual error surface, one line per error.
type Panel interface {
	// Show replaces the panel content and makes it visible.
	Show(lines []string)
	// Hide empties and hides the panel.
	Hide()
}

// Presenter owns the editor's diagnostic annotations and the error panel.
// Every Display replaces the previous decoration set wholesale.
type Presenter struct {
	ed      editor.Editor
	panel   Panel
	handles []editor.Handle
}

func New(ed editor.Editor, panel Panel) *Presenter {
	return &Presenter{ed: ed, panel: panel}
}

// Display shows errs in the panel and annotates every ranged error with a
// gutter decoration and a severity-tagged underline marker. Sequences longer
// than MaxErrors are truncated with a summary line. A range that fails to
// parse is a contract violation by the compiler and the error propagates;
// annotations are not partially applied in that case.
func (p *Presenter) Display(errs diag.List) error {
	errs = Truncate(errs)

	markers := make([]editor.Marker, 0, len(errs))
	decos := make([]editor.Decoration, 0, len(errs))
	for _, e := range errs {
		if e.Range == "" {
			continue
		}
		rng, err := source.ParseRange(e.Range)
		if err != nil {
			return fmt.Errorf("compiler emitted unusable range: %w", err)
		}
		decos = append(decos, editor.Decoration{
			StartLine: rng.Start.Line,
			EndLine:   rng.End.Line,
		})
		markers = append(markers, editor.Marker{
			StartLine: rng.Start.Line,
			StartCol:  rng.Start.Col,
			EndLine:   rng.End.Line,
			EndCol:    rng.End.Col,
			Message:   e.Message,
			Severity:  diag.SevError,
		})
	}

	p.ed.SetMarkers(MarkerOwner, markers)
	p.handles = p.ed.ApplyDecorations(p.handles, decos)
	p.panel.Show(errs.Messages())
	return nil
}

// Clear removes all markers and decorations and hides the panel. Calling it
// with nothing shown is a no-op.
func (p *Presenter) Clear() {
	p.ed.SetMarkers(MarkerOwner, nil)
	p.handles = p.ed.ApplyDecorations(p.handles, nil)
	p.panel.Hide()
}

// Truncate caps errs at MaxErrors, appending a rangeless summary error for
// the elided remainder. Shorter sequences are returned unchanged.
func Truncate(errs diag.List) diag.List {
	if len(errs) <= MaxErrors {
		return errs
	}
	elided := len(errs) - MaxErrors
	out := make(diag.List, 0, MaxErrors+1)
	out = append(out, errs[:MaxErrors]...)
	out = append(out, diag.Error{
		Message: fmt.Sprintf("... and %d more error(s)", elided),
	})
	return out
}
