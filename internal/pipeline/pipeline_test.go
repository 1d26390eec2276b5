package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sketch/internal/compile"
	"sketch/internal/editor"
	"sketch/internal/present"
	"sketch/internal/render"
	"sketch/internal/transport"
)

type fakeService struct {
	res     compile.Result
	err     error
	started chan struct{}
	block   chan struct{}
	scripts []string
}

func (f *fakeService) Compile(_ context.Context, script string) (compile.Result, error) {
	f.scripts = append(f.scripts, script)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.res, f.err
}

type fakePanel struct {
	lines   []string
	visible bool
}

func (p *fakePanel) Show(lines []string) { p.lines, p.visible = lines, true }
func (p *fakePanel) Hide()               { p.lines, p.visible = nil, false }

type fakeLoader struct {
	shows, hides int
}

func (l *fakeLoader) Show() { l.shows++ }
func (l *fakeLoader) Hide() { l.hides++ }

type fakeSaver struct {
	saved []string
	err   error
}

func (s *fakeSaver) SaveEncoded(encoded string) error {
	s.saved = append(s.saved, encoded)
	return s.err
}

type fixture struct {
	pipeline *Pipeline
	buf      *editor.Buffer
	panel    *fakePanel
	loader   *fakeLoader
	saver    *fakeSaver
	svc      *fakeService
}

func newFixture(t *testing.T, script string, svc *fakeService, renderHandler http.HandlerFunc) *fixture {
	t.Helper()
	if renderHandler == nil {
		renderHandler = func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<svg/>"))
		}
	}
	srv := httptest.NewServer(renderHandler)
	t.Cleanup(srv.Close)

	buf := editor.NewBuffer(script)
	panel := &fakePanel{}
	loader := &fakeLoader{}
	saver := &fakeSaver{}
	p := New(Config{
		Editor:    buf,
		Codec:     transport.FlateCodec{},
		Compiler:  compile.NewClient(svc),
		Renderer:  render.NewClient(srv.URL),
		Presenter: present.New(buf, panel),
		Loader:    loader,
		Saver:     saver,
		Layout:    "breeze",
		Theme:     0,
	})
	return &fixture{pipeline: p, buf: buf, panel: panel, loader: loader, saver: saver, svc: svc}
}

func checkReleased(t *testing.T, f *fixture) {
	t.Helper()
	if f.pipeline.Busy() {
		t.Error("pipeline still busy after Compile returned")
	}
	if f.loader.shows != f.loader.hides {
		t.Errorf("loader shows=%d hides=%d, want balanced", f.loader.shows, f.loader.hides)
	}
}

func TestPipeline_Success(t *testing.T) {
	svc := &fakeService{res: compile.Result{Result: "x -> y\n"}}
	f := newFixture(t, "x -> y\n", svc, nil)

	res, err := f.pipeline.Compile(context.Background())
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if res.State != StateRenderingDiagram {
		t.Errorf("state = %v, want rendering-diagram", res.State)
	}
	if res.Markup != "<svg/>" {
		t.Errorf("markup = %q, want the rendered body", res.Markup)
	}
	if res.Encoded == "" {
		t.Error("no encoded share payload on success")
	}
	if len(f.saver.saved) == 0 {
		t.Error("encoded script was not persisted")
	}
	if f.panel.visible {
		t.Error("error panel visible after a clean compile")
	}
	checkReleased(t, f)
}

func TestPipeline_UserErrors(t *testing.T) {
	svc := &fakeService{res: compile.Result{
		UserError: `{"errs":[{"errmsg":"unknown shape","range":"index.sk,2:4:30-2:12:38"},{"errmsg":"dangling arrow"}]}`,
	}}
	f := newFixture(t, "x -> \n", svc, nil)

	res, err := f.pipeline.Compile(context.Background())
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if res.State != StateShowingUserErrors {
		t.Errorf("state = %v, want showing-user-errors", res.State)
	}
	if len(res.Errors) != 2 {
		t.Errorf("got %d errors, want 2", len(res.Errors))
	}
	if !f.panel.visible || len(f.panel.lines) != 2 {
		t.Errorf("panel visible=%v lines=%d, want visible with 2 lines", f.panel.visible, len(f.panel.lines))
	}
	if got := len(f.buf.Markers(present.MarkerOwner)); got != 1 {
		t.Errorf("got %d markers, want 1 for the ranged error", got)
	}
	// A failed compile still leaves a shareable payload behind.
	if res.Encoded == "" || len(f.saver.saved) == 0 {
		t.Error("encoded share payload missing after user errors")
	}
	checkReleased(t, f)
}

func TestPipeline_InternalError(t *testing.T) {
	tests := []struct {
		name string
		res  compile.Result
	}{
		{name: "explicit internal error", res: compile.Result{InternalError: "layout pass panicked"}},
		{name: "all fields empty", res: compile.Result{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "x -> y\n", &fakeService{res: tt.res}, nil)

			res, err := f.pipeline.Compile(context.Background())
			if err != nil {
				t.Fatalf("Compile returned error: %v", err)
			}
			if res.State != StateShowingInternalError {
				t.Errorf("state = %v, want showing-internal-error", res.State)
			}
			if res.Alert != AlertInternalError {
				t.Errorf("alert = %q, want the internal-error alert", res.Alert)
			}
			if len(res.Errors) != 0 {
				t.Errorf("internal error carried %d positional diagnostics, want none", len(res.Errors))
			}
			checkReleased(t, f)
		})
	}
}

func TestPipeline_EncodeFailure(t *testing.T) {
	// An empty script cannot be encoded; the cycle aborts before compiling.
	svc := &fakeService{res: compile.Result{Result: "ok"}}
	f := newFixture(t, "", svc, nil)

	res, err := f.pipeline.Compile(context.Background())
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if res.State != StateShowingTransportError || res.Alert != AlertEncodeFailed {
		t.Errorf("state=%v alert=%q, want transport error with encode alert", res.State, res.Alert)
	}
	if len(svc.scripts) != 0 {
		t.Error("compile service was called despite encode failure")
	}
	checkReleased(t, f)
}

func TestPipeline_CompileUnreachable(t *testing.T) {
	svc := &fakeService{err: errors.New("connection refused")}
	f := newFixture(t, "x -> y\n", svc, nil)

	res, err := f.pipeline.Compile(context.Background())
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if res.State != StateShowingTransportError || res.Alert != AlertCompileUnreachable {
		t.Errorf("state=%v alert=%q, want transport error with connectivity alert", res.State, res.Alert)
	}
	checkReleased(t, f)
}

func TestPipeline_RenderFailures(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantAlert string
	}{
		{
			name:      "rate limited",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusForbidden) },
			wantAlert: AlertRateLimited,
		},
		{
			name:      "service fault",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			wantAlert: AlertRenderFailed,
		},
		{
			name:      "unexpected status",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) },
			wantAlert: "render failed with unexpected status 418",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{res: compile.Result{Result: "x -> y\n"}}
			f := newFixture(t, "x -> y\n", svc, tt.handler)

			res, err := f.pipeline.Compile(context.Background())
			if err != nil {
				t.Fatalf("Compile returned error: %v", err)
			}
			if res.State != StateShowingTransportError {
				t.Errorf("state = %v, want showing-transport-error", res.State)
			}
			if res.Alert != tt.wantAlert {
				t.Errorf("alert = %q, want %q", res.Alert, tt.wantAlert)
			}
			checkReleased(t, f)
		})
	}
}

func TestPipeline_RenderNetworkFailure(t *testing.T) {
	svc := &fakeService{res: compile.Result{Result: "x -> y\n"}}
	f := newFixture(t, "x -> y\n", svc, nil)

	// Point the renderer at a closed server.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	f.pipeline.renderer = render.NewClient(srv.URL)

	res, err := f.pipeline.Compile(context.Background())
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if res.State != StateShowingTransportError || res.Alert != AlertRenderUnreachable {
		t.Errorf("state=%v alert=%q, want transport error with connectivity alert", res.State, res.Alert)
	}
	checkReleased(t, f)
}

func TestPipeline_ContractViolationPropagates(t *testing.T) {
	svc := &fakeService{res: compile.Result{UserError: "not json"}}
	f := newFixture(t, "x -> y\n", svc, nil)

	_, err := f.pipeline.Compile(context.Background())
	if !errors.Is(err, compile.ErrBadPayload) {
		t.Fatalf("Compile error = %v, want ErrBadPayload", err)
	}
	// The gate and loader are still released even for propagated errors.
	checkReleased(t, f)
}

func TestPipeline_RejectsConcurrentCompile(t *testing.T) {
	svc := &fakeService{
		res:     compile.Result{Result: "x\n"},
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	f := newFixture(t, "x\n", svc, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := f.pipeline.Compile(context.Background()); err != nil {
			t.Errorf("first Compile returned error: %v", err)
		}
	}()

	// Wait until the first cycle is inside the compile call, holding the gate.
	select {
	case <-svc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first compile never reached the compile service")
	}

	if !f.pipeline.Busy() {
		t.Error("Busy() = false while a compile is in flight")
	}
	if _, err := f.pipeline.Compile(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Compile error = %v, want ErrBusy", err)
	}

	close(svc.block)
	<-done
	checkReleased(t, f)
}
