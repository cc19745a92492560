package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
	"github.com/AswinRaj1123/NyayaAI/internal/core/poll"
)

var (
	uploadWait    bool
	uploadTimeout time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document",
	Long: `Upload a legal document (.pdf, .docx, or .txt) for processing.

The backend extracts and embeds the text in the background; use
'nyaya list' to watch the status, or pass --wait to block until the
document is ready.

Examples:
  nyaya upload lease.pdf
  nyaya upload lease.pdf --wait
  nyaya upload lease.pdf --wait --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolVar(&uploadWait, "wait", false, "Wait until processing reaches a terminal state")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 5*time.Minute, "Give up waiting after this long (with --wait)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	c := newCore()
	if err := c.restore(cmd.Context()); err != nil {
		return err
	}

	doc, err := c.docs.Upload(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("upload failed: %s", errDetail(err))
	}
	fmt.Printf("Uploaded %s (id %s, status %s)\n", doc.Filename, doc.ID, doc.Status.Label())

	if !uploadWait {
		return nil
	}
	return waitForDocument(cmd.Context(), c, doc.ID)
}

// waitForDocument polls the document list until the document reaches a
// terminal status. Reuses the poll engine so the wait inherits its
// single-flight and cadence behavior.
func waitForDocument(ctx context.Context, c *core, id string) error {
	p := poll.New(func(ctx context.Context) ([]models.Document, error) {
		return c.docs.List(ctx)
	}, c.cfg.PollInterval)
	p.Start()
	defer p.Stop()

	timeout := time.After(uploadTimeout)
	fmt.Print("Waiting for processing")

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return ctx.Err()
		case <-timeout:
			fmt.Println()
			return fmt.Errorf("document %s not ready after %s", id, uploadTimeout)
		case ev, ok := <-p.Events():
			if !ok {
				fmt.Println()
				return fmt.Errorf("polling stopped unexpectedly")
			}
			switch ev.Kind {
			case poll.EventAuthFailed:
				fmt.Println()
				return fmt.Errorf("session expired — run 'nyaya login' again")
			case poll.EventSnapshot:
				doc, ok := ev.Snapshot.Find(id)
				if !ok {
					continue
				}
				if doc.Status.Terminal() {
					fmt.Println()
					if doc.Status == models.StatusError {
						return fmt.Errorf("processing failed for %s", doc.Filename)
					}
					fmt.Printf("%s is ready. Ask away: nyaya ask %s \"...\"\n", doc.Filename, doc.ID)
					return nil
				}
				fmt.Print(".")
			}
		}
	}
}
