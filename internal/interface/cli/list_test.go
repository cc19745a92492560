package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/AswinRaj1123/NyayaAI/internal/core/config"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2026-08-01", true},
		{"2026/08/01", true},
		{"2026-08-01T09:30:00", true},
		{"yesterday", true},
		{"last friday", true},
		{"not a date at all zzz", false},
		// Partial natural-language matches inside longer strings are not
		// dates; they must be rejected, not guessed at.
		{"meeting notes from yesterday afternoon", false},
	}

	for _, tt := range tests {
		got := parseSince(tt.in)
		if (got != nil) != tt.want {
			t.Errorf("parseSince(%q) = %v, want parseable=%v", tt.in, got, tt.want)
		}
	}
}

func TestParseSinceAbsolute(t *testing.T) {
	got := parseSince("2026-08-01")
	if got == nil {
		t.Fatal("parseSince failed on an ISO date")
	}
	// The digits must parse as a date, not be scavenged for a time of day.
	if got.Year() != 2026 || got.Month() != time.August || got.Day() != 1 {
		t.Errorf("parseSince(2026-08-01) = %v, want 2026-08-01", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("parseSince(2026-08-01) carries a time of day: %v", got)
	}
}

func TestFilterSince(t *testing.T) {
	cutoff := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	docs := []models.Document{
		{ID: "1", UploadedAt: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "2", UploadedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "3"}, // no timestamp: excluded
	}

	got := filterSince(docs, cutoff)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("filterSince() = %+v", got)
	}
}

func TestHistoryTemplateRenders(t *testing.T) {
	rendered, err := mustache.Render(config.DefaultHistoryTemplate, map[string]any{
		"filename": "lease.pdf",
		"entries": []map[string]any{
			{"question": "What is the notice period?", "answer": "30 days", "sources": 3, "asked_at": "Fri, 01 Aug 2026 10:00:00 UTC"},
		},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"# lease.pdf", "## What is the notice period?", "30 days", "3 relevant sections"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered output missing %q:\n%s", want, rendered)
		}
	}
}
