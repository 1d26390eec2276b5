// Package pipeline drives one compile cycle end to end: encode the script,
// compile it, then either fetch rendered markup or show diagnostics. A
// single-permit gate rejects overlapping cycles.
package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"sketch/internal/compile"
	"sketch/internal/diag"
	"sketch/internal/editor"
	"sketch/internal/present"
	"sketch/internal/render"
	"sketch/internal/trace"
	"sketch/internal/transport"
)

// ErrBusy rejects a compile attempted while another is still running.
// Attempts are refused outright, never queued.
var ErrBusy = errors.New("a compile is already in progress")

// Loader is the loading-overlay capability.
type Loader interface {
	Show()
	Hide()
}

// Saver receives the encoded script whenever encoding succeeds, so a share
// link survives even a failed compile.
type Saver interface {
	SaveEncoded(encoded string) error
}

type nopLoader struct{}

func (nopLoader) Show() {}
func (nopLoader) Hide() {}

type nopSaver struct{}

func (nopSaver) SaveEncoded(string) error { return nil }

// Config wires a Pipeline. Editor, Codec, Compiler, Renderer and Presenter
// are required; the rest default to no-ops.
type Config struct {
	Editor    editor.Editor
	Codec     transport.Codec
	Compiler  *compile.Client
	Renderer  *render.Client
	Presenter *present.Presenter
	Loader    Loader
	Saver     Saver
	Tracer    trace.Tracer
	Layout    string
	Theme     int
}

// Result reports the terminal state of one compile cycle along with whatever
// that state carries: markup on success, diagnostics on user errors, an alert
// message on every tooling failure, and the encoded share payload whenever
// encoding succeeded.
type Result struct {
	State   State
	Markup  string
	Errors  diag.List
	Alert   string
	Encoded string
}

// Pipeline owns the compile cycle and the UI state around it. All mutation
// happens on the calling goroutine; the gate only rejects overlap.
type Pipeline struct {
	gate      *semaphore.Weighted
	ed        editor.Editor
	codec     transport.Codec
	compiler  *compile.Client
	renderer  *render.Client
	presenter *present.Presenter
	loader    Loader
	saver     Saver
	tracer    trace.Tracer
	layout    string
	theme     int
}

func New(cfg Config) *Pipeline {
	p := &Pipeline{
		gate:      semaphore.NewWeighted(1),
		ed:        cfg.Editor,
		codec:     cfg.Codec,
		compiler:  cfg.Compiler,
		renderer:  cfg.Renderer,
		presenter: cfg.Presenter,
		loader:    cfg.Loader,
		saver:     cfg.Saver,
		tracer:    cfg.Tracer,
		layout:    cfg.Layout,
		theme:     cfg.Theme,
	}
	if p.loader == nil {
		p.loader = nopLoader{}
	}
	if p.saver == nil {
		p.saver = nopSaver{}
	}
	if p.tracer == nil {
		p.tracer = trace.Nop
	}
	return p
}

// Busy reports whether a compile cycle is currently running.
func (p *Pipeline) Busy() bool {
	if p.gate.TryAcquire(1) {
		p.gate.Release(1)
		return false
	}
	return true
}

// Compile runs one full cycle for the editor's current script. It returns
// ErrBusy when a cycle is already running. Any other non-nil error is a
// contract violation by the compile service (an unusable payload or range);
// tooling failures are reported through Result.Alert instead. The gate is
// released and the loader hidden on every path.
func (p *Pipeline) Compile(ctx context.Context) (Result, error) {
	if !p.gate.TryAcquire(1) {
		return Result{}, ErrBusy
	}
	defer p.gate.Release(1)

	p.loader.Show()
	defer p.loader.Hide()

	end := trace.Begin(p.tracer, "pipeline")
	res, err := p.run(ctx)
	if err != nil {
		end("contract violation")
		return Result{}, err
	}
	end(res.State.String())
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (Result, error) {
	script := p.ed.Value()

	endEncode := trace.Begin(p.tracer, "encode")
	encoded, err := p.codec.Encode(script)
	endEncode("")
	if err != nil {
		return Result{State: StateShowingTransportError, Alert: AlertEncodeFailed}, nil
	}
	// Persist before compiling: a broken script still gets a share link.
	p.persist(encoded)

	endCompile := trace.Begin(p.tracer, "compile")
	outcome, err := p.compiler.Compile(ctx, script)
	endCompile("")
	if err != nil {
		if errors.Is(err, compile.ErrBadPayload) {
			return Result{}, err
		}
		return Result{State: StateShowingTransportError, Alert: AlertCompileUnreachable, Encoded: encoded}, nil
	}

	switch outcome.Kind {
	case compile.OutcomeUserError:
		if err := p.presenter.Display(outcome.Errors); err != nil {
			return Result{}, err
		}
		return Result{State: StateShowingUserErrors, Errors: outcome.Errors, Encoded: encoded}, nil
	case compile.OutcomeInternalError:
		return Result{State: StateShowingInternalError, Alert: AlertInternalError, Encoded: encoded}, nil
	}

	p.presenter.Clear()

	// The compiler may hand back a normalized script; re-encode so the share
	// link and the render payload match what it actually compiled.
	if outcome.Script != "" && outcome.Script != script {
		if reencoded, err := p.codec.Encode(outcome.Script); err == nil {
			encoded = reencoded
			p.persist(encoded)
		}
	}

	endRender := trace.Begin(p.tracer, "render")
	markup, err := p.renderer.Render(ctx, encoded, p.layout, p.theme)
	endRender("")
	if err != nil {
		return Result{State: StateShowingTransportError, Alert: renderAlert(err), Encoded: encoded}, nil
	}
	return Result{State: StateRenderingDiagram, Markup: markup, Encoded: encoded}, nil
}

// persist is best-effort: failing to save the share state never fails the
// compile.
func (p *Pipeline) persist(encoded string) {
	if err := p.saver.SaveEncoded(encoded); err != nil {
		trace.Point(p.tracer, "persist", "save failed: "+err.Error())
	}
}
