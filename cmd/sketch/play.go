package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sketch/internal/editor"
	"sketch/internal/session"
	"sketch/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive playground",
	Long:  `Open a terminal playground: edit a script, compile with ctrl+r, see diagnostics inline. The last script is restored on the next run`,
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringP("out", "o", "", "write the last rendered markup here on exit")
	playCmd.Flags().String("session", "", "session file path (default: user cache dir)")
	playCmd.Flags().Bool("fresh", false, "ignore the persisted session and start from the seed script")
}

// sessionSaver adapts the session store to the pipeline's Saver.
type sessionSaver struct {
	store  *session.Store
	layout string
	theme  int
}

func (s sessionSaver) SaveEncoded(encoded string) error {
	return s.store.Save(session.State{Encoded: encoded, Layout: s.layout, Theme: s.theme})
}

func runPlay(cmd *cobra.Command, _ []string) error {
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	sessionPath, err := cmd.Flags().GetString("session")
	if err != nil {
		return fmt.Errorf("failed to get session flag: %w", err)
	}
	fresh, err := cmd.Flags().GetBool("fresh")
	if err != nil {
		return fmt.Errorf("failed to get fresh flag: %w", err)
	}

	tc, err := newToolchain(cmd)
	if err != nil {
		return err
	}

	var store *session.Store
	if sessionPath != "" {
		store, err = session.OpenAt(sessionPath)
	} else {
		store, err = session.Open("sketch")
	}
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	script := tc.cfg.Play.Seed
	if !fresh {
		if state, ok, err := store.Load(); err == nil && ok {
			// A session that no longer decodes is discarded, not fatal.
			if prior, err := tc.codec.Decode(state.Encoded); err == nil {
				script = prior
			} else if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to drop stale session: %w", err)
			}
		}
	}

	buf := editor.NewBuffer(script)
	panel := &ui.ErrorPanel{}
	saver := sessionSaver{store: store, layout: tc.layout, theme: tc.theme}
	pipe := tc.newPipeline(buf, panel, saver, nil)

	model := ui.New(pipe, buf, panel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, err := program.Run()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	if outPath != "" {
		if m, ok := final.(*ui.Model); ok && m.Markup() != "" {
			if err := os.WriteFile(outPath, []byte(m.Markup()), 0o644); err != nil {
				return fmt.Errorf("failed to write markup: %w", err)
			}
		}
	}
	return nil
}
