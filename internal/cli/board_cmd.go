package cli

import (
	"errors"
	"os"

	"github.com/TristoneFM/material-request-mes/internal/board"
	"github.com/TristoneFM/material-request-mes/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Run the full-screen dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("the board needs an interactive terminal")
			}

			cfg := config.Load()

			model := board.New(board.NewAPI(cfg.Board.APIBaseURL), cfg.Board.PollInterval)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}
}
