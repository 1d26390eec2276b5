package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sketch/internal/compile"
	"sketch/internal/editor"
	"sketch/internal/pipeline"
	"sketch/internal/present"
	"sketch/internal/project"
	"sketch/internal/render"
	"sketch/internal/trace"
	"sketch/internal/transport"
)

// toolchain bundles everything a command needs to run the compile pipeline:
// the discovered configuration plus clients built from it and the flags.
type toolchain struct {
	cfg      project.Config
	codec    transport.Codec
	compiler *compile.Client
	renderer *render.Client
	tracer   trace.Tracer
	layout   string
	theme    int
}

func newToolchain(cmd *cobra.Command) (*toolchain, error) {
	endpoint, err := cmd.Root().PersistentFlags().GetString("endpoint")
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint flag: %w", err)
	}
	layout, err := cmd.Root().PersistentFlags().GetString("layout")
	if err != nil {
		return nil, fmt.Errorf("failed to get layout flag: %w", err)
	}
	theme, err := cmd.Root().PersistentFlags().GetInt("theme")
	if err != nil {
		return nil, fmt.Errorf("failed to get theme flag: %w", err)
	}
	timeout, err := cmd.Root().PersistentFlags().GetDuration("timeout")
	if err != nil {
		return nil, fmt.Errorf("failed to get timeout flag: %w", err)
	}
	traceOn, err := cmd.Root().PersistentFlags().GetBool("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	cfg, err := project.Discover(".")
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = cfg.Render.Endpoint
	}
	if layout == "" {
		layout = cfg.Render.Layout
	}
	if theme < 0 {
		theme = cfg.Render.Theme
	}

	var compileOpts []compile.HTTPOption
	renderOpts := make([]render.Option, 0, len(cfg.Keys)+1)
	if timeout > 0 {
		compileOpts = append(compileOpts, compile.WithTimeout(timeout))
		renderOpts = append(renderOpts, render.WithTimeout(timeout))
	}
	for keyedLayout, key := range cfg.Keys {
		renderOpts = append(renderOpts, render.WithAPIKey(keyedLayout, key))
	}

	tracer := trace.Nop
	if traceOn {
		tracer = trace.NewStreamTracer(os.Stderr)
	}

	return &toolchain{
		cfg:      cfg,
		codec:    transport.FlateCodec{},
		compiler: compile.NewClient(compile.NewHTTPService(endpoint, compileOpts...)),
		renderer: render.NewClient(endpoint, renderOpts...),
		tracer:   tracer,
		layout:   layout,
		theme:    theme,
	}, nil
}

func (tc *toolchain) newPipeline(buf *editor.Buffer, panel present.Panel, saver pipeline.Saver, loader pipeline.Loader) *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		Editor:    buf,
		Codec:     tc.codec,
		Compiler:  tc.compiler,
		Renderer:  tc.renderer,
		Presenter: present.New(buf, panel),
		Loader:    loader,
		Saver:     saver,
		Tracer:    tc.tracer,
		Layout:    tc.layout,
		Theme:     tc.theme,
	})
}

// readScript loads the script from a file argument, or from stdin when the
// argument is missing or "-".
func readScript(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read script from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

// setupColor applies the --color flag, defaulting to terminal detection.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
	}
	return nil
}

// nopPanel discards panel updates; CLI commands format diagnostics
// themselves from the pipeline result.
type nopPanel struct{}

func (nopPanel) Show([]string) {}
func (nopPanel) Hide()         {}
