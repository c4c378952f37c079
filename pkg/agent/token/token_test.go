package token

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple sentence",
			input: "What is Johnny Depp's birthdate?",
			want:  []string{"what", "is", "johnny", "depp", "s", "birthdate"},
		},
		{
			name:  "urls split on punctuation",
			input: "https://en.wikipedia.org/wiki/Johnny_Depp",
			want:  []string{"https", "en", "wikipedia", "org", "wiki", "johnny", "depp"},
		},
		{
			name:  "digits kept",
			input: "MacBook Pro 14 (2024)",
			want:  []string{"macbook", "pro", "14", "2024"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only separators",
			input: "--- ... !!!",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOverlapScore(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{
			name: "identical sets score 1",
			a:    []string{"quantum", "computing"},
			b:    []string{"computing", "quantum"},
			want: 1.0,
		},
		{
			name: "disjoint sets score 0",
			a:    []string{"apple", "pie"},
			b:    []string{"quantum", "computing"},
			want: 0.0,
		},
		{
			name: "empty left side",
			a:    nil,
			b:    []string{"quantum"},
			want: 0.0,
		},
		{
			name: "empty right side",
			a:    []string{"quantum"},
			b:    nil,
			want: 0.0,
		},
		{
			name: "duplicates collapse before scoring",
			a:    []string{"go", "go", "go"},
			b:    []string{"go"},
			want: 1.0,
		},
		{
			name: "partial overlap",
			a:    []string{"johnny", "depp", "birthdate"},
			b:    []string{"johnny", "depp", "wikipedia"},
			want: 2.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapScore(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OverlapScore(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestOverlapScoreSymmetric(t *testing.T) {
	pairs := [][2][]string{
		{{"a", "b", "c"}, {"b", "c", "d", "e"}},
		{{"compare", "laptops"}, {"macbook", "laptops", "review", "compare"}},
		{{"x"}, {"y"}},
		{nil, {"z"}},
	}
	for _, p := range pairs {
		ab := OverlapScore(p[0], p[1])
		ba := OverlapScore(p[1], p[0])
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("OverlapScore not symmetric for %v / %v: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestOverlapScoreRange(t *testing.T) {
	a := []string{"one", "two", "three", "four"}
	b := []string{"three", "four", "five"}
	got := OverlapScore(a, b)
	if got < 0 || got > 1 {
		t.Errorf("OverlapScore out of range: %v", got)
	}
}
