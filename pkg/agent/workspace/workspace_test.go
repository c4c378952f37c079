package workspace

import (
	"reflect"
	"testing"

	"tabsensei-be/pkg/agent/tab"
)

func TestDetectDuplicatesByURL(t *testing.T) {
	tabs := []tab.Tab{
		{ID: 1, Title: "Product A", URL: "https://a.com/x?ref=1"},
		{ID: 2, Title: "Different title", URL: "https://a.com/x?ref=2"},
		{ID: 3, Title: "Unrelated", URL: "https://b.com/y"},
	}
	groups := DetectDuplicates(tabs)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Indices, []int{0, 1}) {
		t.Errorf("group indices = %v, want [0 1]", groups[0].Indices)
	}
	if groups[0].Anchor() != 0 {
		t.Errorf("anchor = %d, want 0", groups[0].Anchor())
	}
	if !reflect.DeepEqual(groups[0].Extras(), []int{1}) {
		t.Errorf("extras = %v, want [1]", groups[0].Extras())
	}
}

func TestDetectDuplicatesByTitle(t *testing.T) {
	long := []tab.Tab{
		{ID: 1, Title: "Introduction to Quantum Computing", URL: "https://a.com/1"},
		{ID: 2, Title: "Introduction to Quantum Computing", URL: "https://b.com/2"},
	}
	if got := DetectDuplicates(long); len(got) != 1 {
		t.Errorf("long identical titles should merge, got %d groups", len(got))
	}

	short := []tab.Tab{
		{ID: 1, Title: "Hi", URL: "https://a.com/1"},
		{ID: 2, Title: "Hi", URL: "https://b.com/2"},
	}
	if got := DetectDuplicates(short); len(got) != 0 {
		t.Errorf("short titles must not merge, got %d groups", len(got))
	}
}

func TestDetectDuplicatesPartition(t *testing.T) {
	tabs := []tab.Tab{
		{ID: 1, Title: "Same long page title here", URL: "https://a.com/x"},
		{ID: 2, Title: "Same long page title here", URL: "https://a.com/x?q=1"},
		{ID: 3, Title: "Same long page title here", URL: "https://c.com/z"},
		{ID: 4, Title: "Solo", URL: "https://d.com"},
	}
	groups := DetectDuplicates(tabs)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	seen := map[int]bool{}
	for _, g := range groups {
		for _, idx := range g.Indices {
			if seen[idx] {
				t.Errorf("index %d appears in more than one group", idx)
			}
			seen[idx] = true
		}
	}
	if len(groups[0].Indices) != 3 {
		t.Errorf("group size = %d, want 3", len(groups[0].Indices))
	}
}

func TestDetectDuplicatesSmallInputs(t *testing.T) {
	if got := DetectDuplicates(nil); got != nil {
		t.Errorf("nil tabs produced groups: %v", got)
	}
	one := []tab.Tab{{ID: 1, Title: "Only one", URL: "https://a.com"}}
	if got := DetectDuplicates(one); got != nil {
		t.Errorf("single tab produced groups: %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		tab  tab.Tab
		want Category
	}{
		{
			name: "amazon product page",
			tab:  tab.Tab{Title: "Sony Headphones", URL: "https://www.amazon.com/dp/B09", Text: "Add to cart"},
			want: CategoryShopping,
		},
		{
			name: "youtube",
			tab:  tab.Tab{Title: "Lo-fi beats", URL: "https://www.youtube.com/watch?v=x", Text: ""},
			want: CategoryEntertainment,
		},
		{
			name: "wikipedia",
			tab:  tab.Tab{Title: "Quantum computing - Wikipedia", URL: "https://en.wikipedia.org/wiki/Quantum_computing", Text: ""},
			want: CategoryResearch,
		},
		{
			name: "google docs",
			tab:  tab.Tab{Title: "Q3 planning", URL: "https://docs.google.com/document/d/1", Text: ""},
			want: CategoryWork,
		},
		{
			name: "nothing matches",
			tab:  tab.Tab{Title: "Untitled", URL: "https://example.org/page", Text: "plain text"},
			want: CategoryUnknown,
		},
		{
			name: "shopping precedence over entertainment",
			tab:  tab.Tab{Title: "Gaming Chair - Best Buy", URL: "https://www.bestbuy.com/chair", Text: "As seen on youtube reviews"},
			want: CategoryShopping,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.tab); got != tt.want {
				t.Errorf("Classify(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestCountByCategory(t *testing.T) {
	cats := []Category{CategoryShopping, CategoryShopping, CategoryWork, CategoryUnknown}
	counts := CountByCategory(cats)
	if counts["shopping"] != 2 || counts["work"] != 1 || counts["unknown"] != 1 {
		t.Errorf("CountByCategory = %v", counts)
	}
}
