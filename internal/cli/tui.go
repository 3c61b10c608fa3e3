package cli

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/ui"
)

// runTUI opens the interactive list on the alternate screen
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	// The alternate screen owns the terminal, so logs go to a file or nowhere
	log.SetOutput(io.Discard)
	s.logger = log.Default()
	if s.cfg.LogFile != "" {
		f, err := tea.LogToFile(s.cfg.LogFile, "todo")
		if err != nil {
			return err
		}
		defer f.Close()
	}

	ctrlOpts, err := s.controllerOptions()
	if err != nil {
		return err
	}

	app, err := ui.NewApp(s.store, s.cfg.Storage.Key, ctrlOpts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
