package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

var historyOutput string

var historyCmd = &cobra.Command{
	Use:   "history <document-id>",
	Short: "Show a document's conversation history",
	Long: `Show every question asked about a document, oldest first.

With --output, the history is rendered to a markdown file through a
template. Drop history_template.md in the config directory to customize
the format.

Examples:
  nyaya history 12
  nyaya history 12 --output lease-notes.md`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Write rendered markdown to this file")
}

func runHistory(cmd *cobra.Command, args []string) error {
	documentID := args[0]

	c := newCore()
	if err := c.restore(cmd.Context()); err != nil {
		return err
	}

	entries, err := c.docs.History(cmd.Context(), documentID)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %s", errDetail(err))
	}

	if historyOutput != "" {
		return exportHistory(cmd.Context(), c, documentID, entries)
	}

	if len(entries) == 0 {
		fmt.Println("No questions asked about this document yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("Q: %s\n", e.Question)
		fmt.Printf("A: %s\n", e.Answer)
		meta := fmt.Sprintf("%d sections", e.Sources)
		if !e.AskedAt.IsZero() {
			meta += " · " + humanize.Time(e.AskedAt)
		}
		fmt.Printf("   (%s)\n\n", meta)
	}
	return nil
}

func exportHistory(ctx context.Context, c *core, documentID string, entries []models.ConversationEntry) error {
	filename := documentID
	if documents, err := c.docs.List(ctx); err == nil {
		for _, d := range documents {
			if d.ID == documentID {
				filename = d.Filename
				break
			}
		}
	}

	templateEntries := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		asked := ""
		if !e.AskedAt.IsZero() {
			asked = e.AskedAt.Format(time.RFC1123)
		}
		templateEntries = append(templateEntries, map[string]any{
			"question": e.Question,
			"answer":   e.Answer,
			"sources":  e.Sources,
			"asked_at": asked,
		})
	}

	rendered, err := mustache.Render(c.cfg.HistoryTemplate, map[string]any{
		"filename": filename,
		"entries":  templateEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to render history template: %w", err)
	}

	if err := os.WriteFile(historyOutput, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", historyOutput, err)
	}
	fmt.Printf("Exported %d entries to %s\n", len(entries), historyOutput)
	return nil
}
