package utils

import (
	"reflect"
	"testing"
)

func TestSplitText(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      []string
	}{
		{
			name:      "short text stays whole",
			text:      "just a note",
			chunkSize: 100,
			overlap:   10,
			want:      []string{"just a note"},
		},
		{
			name:      "breaks at whitespace inside the window",
			text:      "alpha beta gamma delta epsilon",
			chunkSize: 12,
			overlap:   4,
			want:      []string{"alpha beta ", "ta gamma ", " delta epsil", "psilon"},
		},
		{
			name:      "no whitespace falls back to hard cuts",
			text:      "aaaaaaaaaa",
			chunkSize: 4,
			overlap:   1,
			want:      []string{"aaaa", "aaaa", "aaaa"},
		},
		{
			name:      "multibyte runes are never split",
			text:      "ααααββββ",
			chunkSize: 5,
			overlap:   2,
			want:      []string{"ααααβ", "αββββ"},
		},
		{
			name:      "zero chunk size returns input",
			text:      "anything",
			chunkSize: 0,
			overlap:   0,
			want:      []string{"anything"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitText(tc.text, tc.chunkSize, tc.overlap)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitText(%q, %d, %d) = %q, want %q", tc.text, tc.chunkSize, tc.overlap, got, tc.want)
			}
		})
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog while the cat watches from the windowsill."
	chunks := SplitText(text, 30, 8)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	first := []rune(chunks[0])
	last := []rune(chunks[len(chunks)-1])
	if string(first[0]) != "T" {
		t.Errorf("first chunk starts with %q, want start of input", string(first[0]))
	}
	if string(last[len(last)-1]) != "." {
		t.Errorf("last chunk ends with %q, want end of input", string(last[len(last)-1]))
	}
}
