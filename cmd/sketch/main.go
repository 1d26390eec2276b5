package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sketch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Sketch diagram playground client",
	Long:  `Sketch compiles diagram scripts through the playground service, maps diagnostics back onto the source, and fetches rendered SVG markup`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("trace", false, "print pipeline phase timings to stderr")
	rootCmd.PersistentFlags().String("endpoint", "", "playground API endpoint (overrides sketch.toml)")
	rootCmd.PersistentFlags().String("layout", "", "layout engine (overrides sketch.toml)")
	rootCmd.PersistentFlags().Int("theme", -1, "theme id (overrides sketch.toml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout for remote calls (0=default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
