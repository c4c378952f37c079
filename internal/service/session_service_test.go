package service

import (
	"strings"
	"testing"

	"tabsensei-be/internal/entity"
)

func TestSessionExcerpt(t *testing.T) {
	t.Run("joins tab titles", func(t *testing.T) {
		sess := &entity.TabSession{
			Tabs: []entity.SavedTab{
				{Title: "The Rust Book"},
				{Title: "Rustlings"},
			},
		}
		got := sessionExcerpt(sess)
		if got != "The Rust Book, Rustlings" {
			t.Errorf("sessionExcerpt = %q", got)
		}
	})

	t.Run("empty session", func(t *testing.T) {
		if got := sessionExcerpt(&entity.TabSession{}); got != "" {
			t.Errorf("expected empty excerpt, got %q", got)
		}
	})

	t.Run("long titles truncated", func(t *testing.T) {
		sess := &entity.TabSession{
			Tabs: []entity.SavedTab{
				{Title: strings.Repeat("a", 200)},
				{Title: "never reached"},
			},
		}
		got := sessionExcerpt(sess)
		if len([]rune(got)) != excerptRunes+1 { // +1 for the ellipsis
			t.Errorf("excerpt length = %d runes, want %d", len([]rune(got)), excerptRunes+1)
		}
		if !strings.HasSuffix(got, "…") {
			t.Errorf("long excerpt should end with ellipsis, got %q", got)
		}
	})
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short stays whole", in: "hello", n: 10, want: "hello"},
		{name: "exact stays whole", in: "hello", n: 5, want: "hello"},
		{name: "long gets cut", in: "hello world", n: 5, want: "hello…"},
		{name: "multibyte safe", in: "héllo wörld", n: 5, want: "héllo…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.n); got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
