package extract

import (
	"reflect"
	"strings"
	"testing"
)

const deppText = "Johnny Depp (born June 9, 1963) is an American actor. He rose to prominence on the television series 21 Jump Street (1987). Short bit."

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "us format", input: "released June 9, 1963 in cinemas", want: "June 9, 1963", ok: true},
		{name: "day first", input: "on 9 June 1963 the film premiered", want: "9 June 1963", ok: true},
		{name: "no date", input: "no dates here at all", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Date(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBirthDate(t *testing.T) {
	got, ok := BirthDate(deppText)
	if !ok || got != "June 9, 1963" {
		t.Errorf("BirthDate = (%q, %v), want June 9, 1963", got, ok)
	}

	yearOnly := "Depp (born 1963) is an actor."
	got, ok = BirthDate(yearOnly)
	if !ok || got != "1963" {
		t.Errorf("BirthDate year fallback = (%q, %v), want 1963", got, ok)
	}

	noBorn := "The premiere was held on 9 June 1963 in Paris."
	got, ok = BirthDate(noBorn)
	if !ok || got != "9 June 1963" {
		t.Errorf("BirthDate plain-date fallback = (%q, %v)", got, ok)
	}
}

func TestYears(t *testing.T) {
	text := "Founded in 1898, rebuilt 2003, catalog number 4711, year 2150 is out of range."
	got := Years(text)
	want := []int{1898, 2003}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Years = %v, want %v", got, want)
	}

	if y, ok := EarliestYear("between 1975 and 1912 and 2001"); !ok || y != 1912 {
		t.Errorf("EarliestYear = (%d, %v), want 1912", y, ok)
	}
	if _, ok := EarliestYear("nothing here"); ok {
		t.Error("EarliestYear found a year in plain text")
	}
	if y, ok := FirstYear("first 1975 then 1912"); !ok || y != 1975 {
		t.Errorf("FirstYear = (%d, %v), want 1975", y, ok)
	}
}

func TestSentencesFilterShort(t *testing.T) {
	got := Sentences(deppText)
	if len(got) != 2 {
		t.Fatalf("Sentences returned %d, want 2 (short crumb dropped): %v", len(got), got)
	}
	if !strings.Contains(got[0], "born June 9, 1963") {
		t.Errorf("first sentence = %q", got[0])
	}
}

func TestBestSentences(t *testing.T) {
	best := BestSentences("when was johnny depp born", deppText, 1)
	if len(best) != 1 {
		t.Fatalf("BestSentences returned %d, want 1", len(best))
	}
	if !strings.Contains(best[0], "born June 9, 1963") {
		t.Errorf("best sentence = %q", best[0])
	}

	if got := BestSentences("quarks and gluons", deppText, 2); got != nil {
		t.Errorf("unrelated query should find nothing, got %v", got)
	}
	if got := BestSentences("depp", "", 2); got != nil {
		t.Errorf("empty text should find nothing, got %v", got)
	}
}

func TestIsChronological(t *testing.T) {
	chrono := []string{"when was depp born", "who was first", "earliest release", "what is his birthdate"}
	for _, q := range chrono {
		if !IsChronological(q) {
			t.Errorf("IsChronological(%q) = false", q)
		}
	}
	if IsChronological("compare these laptops") {
		t.Error("IsChronological matched a comparison query")
	}
}

func TestAnswer(t *testing.T) {
	got, ok := Answer("what is johnny depp's birthdate", deppText)
	if !ok || !strings.Contains(got, "June 9, 1963") {
		t.Errorf("Answer = (%q, %v), want the birth sentence", got, ok)
	}

	got, ok = Answer("what series did he appear in", deppText)
	if !ok || !strings.Contains(got, "21 Jump Street") {
		t.Errorf("Answer = (%q, %v), want the series sentence", got, ok)
	}

	if _, ok := Answer("anything", "tiny."); ok {
		t.Error("Answer found something in unusable text")
	}
}
