package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/internal/interface/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive client",
	Long:  "Launch an interactive terminal UI for uploading documents and chatting with them",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	c := newCore()

	// Background poll errors must not write over the UI.
	logFile, err := tea.LogToFile(c.cfg.LogPath, "nyaya")
	if err == nil {
		defer logFile.Close()
	}

	model := tui.New(c.cfg, c.sess, c.docs)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	return nil
}
