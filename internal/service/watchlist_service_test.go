package service

import (
	"strings"
	"testing"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "strips query string",
			raw:  "https://shop.example.com/headphones?ref=home&utm_source=mail",
			want: "https://shop.example.com/headphones",
		},
		{
			name: "strips fragment",
			raw:  "https://shop.example.com/headphones#reviews",
			want: "https://shop.example.com/headphones",
		},
		{
			name: "strips both",
			raw:  "https://shop.example.com/headphones?color=black#specs",
			want: "https://shop.example.com/headphones",
		},
		{
			name: "keeps trailing slash",
			raw:  "https://shop.example.com/headphones/",
			want: "https://shop.example.com/headphones/",
		},
		{
			name: "keeps path and port",
			raw:  "http://localhost:8080/products/42?x=1",
			want: "http://localhost:8080/products/42",
		},
		{
			name: "trims whitespace",
			raw:  "  https://shop.example.com/item  ",
			want: "https://shop.example.com/item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canonicalURL(tt.raw)
			if got != tt.want {
				t.Errorf("canonicalURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDropMessage(t *testing.T) {
	t.Run("target reached", func(t *testing.T) {
		msg := dropMessage("target", "Wireless Headphones", "USD", 129.99, 99.99)

		if !strings.Contains(msg, "hit your target price") {
			t.Errorf("expected target wording, got %q", msg)
		}
		if !strings.Contains(msg, "USD 99.99") {
			t.Errorf("expected new price in message, got %q", msg)
		}
		if !strings.Contains(msg, "was USD 129.99") {
			t.Errorf("expected old price in message, got %q", msg)
		}
	})

	t.Run("relative drop", func(t *testing.T) {
		msg := dropMessage("drop", "Wireless Headphones", "USD", 100.00, 75.00)

		if !strings.Contains(msg, "dropped 25%") {
			t.Errorf("expected drop percentage, got %q", msg)
		}
		// Arrow reads old to new
		if !strings.Contains(msg, "USD 100.00 → USD 75.00") {
			t.Errorf("expected old → new order, got %q", msg)
		}
	})
}
