package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sketch/internal/editor"
	"sketch/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Compile a diagram script and fetch its SVG markup",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "write markup to a file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	tc, err := newToolchain(cmd)
	if err != nil {
		return err
	}
	script, err := readScript(args)
	if err != nil {
		return err
	}

	buf := editor.NewBuffer(script)
	pipe := tc.newPipeline(buf, nopPanel{}, nil, nil)

	res, err := pipe.Compile(cmd.Context())
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	switch res.State {
	case pipeline.StateRenderingDiagram:
		if outPath == "" {
			fmt.Fprint(cmd.OutOrStdout(), res.Markup)
			return nil
		}
		if err := os.WriteFile(outPath, []byte(res.Markup), 0o644); err != nil {
			return fmt.Errorf("failed to write markup: %w", err)
		}
		return nil
	case pipeline.StateShowingUserErrors:
		if err := printDiagnostics(os.Stderr, res.Errors); err != nil {
			return err
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(res.Errors))
	default:
		return errors.New(res.Alert)
	}
}
