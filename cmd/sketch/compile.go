package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sketch/internal/editor"
	"sketch/internal/pipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a diagram script and report diagnostics",
	Long:  `Compile a diagram script through the playground service. Reads the file argument, or stdin when the argument is missing or "-"`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
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
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
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
