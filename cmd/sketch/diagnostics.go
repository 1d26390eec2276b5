package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"sketch/internal/diag"
	"sketch/internal/present"
	"sketch/internal/source"
)

var (
	errLabelColor = color.New(color.FgRed, color.Bold)
	positionColor = color.New(color.FgCyan)
)

// printDiagnostics writes one line per error in the same shape editors show:
// path:line:col: error: message. Errors without a range print the message
// alone. The sequence is capped the same way the playground panel caps it.
func printDiagnostics(w io.Writer, errs diag.List) error {
	for _, e := range present.Truncate(errs) {
		if e.Range == "" {
			fmt.Fprintf(w, "%s %s\n", errLabelColor.Sprint("error:"), e.Message)
			continue
		}
		rng, err := source.ParseRange(e.Range)
		if err != nil {
			return err
		}
		path := rng.Path
		if path == "" {
			path = "script"
		}
		loc := fmt.Sprintf("%s:%d:%d:", path, rng.Start.Line, rng.Start.Col)
		fmt.Fprintf(w, "%s %s %s\n", positionColor.Sprint(loc), errLabelColor.Sprint("error:"), e.Message)
	}
	return nil
}
