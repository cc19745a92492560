package tui

import (
	"errors"
	"testing"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
)

func TestDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"backend detail", &api.Error{Kind: api.KindAuth, Detail: "Incorrect email or password"}, "Incorrect email or password"},
		{"wrapped transport error", &api.Error{Kind: api.KindTransient, Op: "documents", Err: errors.New("connection refused")}, "documents: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detail(tt.err); got != tt.want {
				t.Errorf("detail() = %q, want %q", got, tt.want)
			}
		})
	}
}
