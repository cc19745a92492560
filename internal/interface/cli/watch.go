package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/internal/core/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Auto-upload new documents from a directory",
	Long: `Watch a directory and upload every new supported document that
appears in it. Useful as a scanner drop folder: anything saved there is
queued for processing automatically.

Runs until interrupted.

Examples:
  nyaya watch ~/Scans`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	c := newCore()
	if err := c.restore(cmd.Context()); err != nil {
		return err
	}

	w, err := watch.New(c.docs, args[0])
	if err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}
