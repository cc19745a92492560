package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

var listSince string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Long: `List your uploaded documents with their processing status.

Documents move through uploaded -> processing -> ready (or error). Only
ready documents can be questioned.

Examples:
  nyaya list
  nyaya list --since yesterday
  nyaya list --since "last friday"
  nyaya list --since 2026-08-01`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSince, "since", "", "Only documents uploaded after this date (natural language ok)")
}

func runList(cmd *cobra.Command, args []string) error {
	c := newCore()
	if err := c.restore(cmd.Context()); err != nil {
		return err
	}

	documents, err := c.docs.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %s", errDetail(err))
	}

	if listSince != "" {
		cutoff := parseSince(listSince)
		if cutoff == nil {
			return fmt.Errorf("could not parse date %q", listSince)
		}
		documents = filterSince(documents, *cutoff)
	}

	if len(documents) == 0 {
		if listSince != "" {
			fmt.Printf("No documents uploaded since %s.\n", listSince)
		} else {
			fmt.Println("No documents yet. Run 'nyaya upload <file>' to add one.")
		}
		return nil
	}

	fmt.Printf("Showing %d document(s)\n\n", len(documents))
	for _, d := range documents {
		fmt.Printf("[%s] %s\n", d.ID, d.Filename)
		fmt.Printf("    Status: %s\n", d.Status.Label())
		if !d.UploadedAt.IsZero() {
			fmt.Printf("    Uploaded: %s\n", humanize.Time(d.UploadedAt))
		}
		fmt.Println()
	}
	return nil
}

func filterSince(documents []models.Document, cutoff time.Time) []models.Document {
	var out []models.Document
	for _, d := range documents {
		if d.UploadedAt.After(cutoff) {
			out = append(out, d)
		}
	}
	return out
}

// parseSince accepts the usual date formats and natural language
// ("yesterday", "last friday"). Explicit layouts are tried first; a natural
// language match must consume the whole input, otherwise "2026-08-01" would
// resolve to today at 08:01.
func parseSince(s string) *time.Time {
	s = strings.TrimSpace(s)

	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(s, time.Now())
	if err == nil && result != nil && result.Index == 0 && len(result.Text) == len(s) {
		return &result.Time
	}
	return nil
}

// errDetail pulls the backend's message out of an API error for display.
func errDetail(err error) string {
	return api.Detail(err, "request failed")
}
