package extract

import (
	"reflect"
	"testing"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

func TestFilter_Stopwords(t *testing.T) {
	for word := range stopwords {
		if got := Filter([]string{word}); len(got) != 0 {
			t.Errorf("Filter([%q]) = %q, want empty", word, got)
		}
	}
}

func TestFilter_Blocklist(t *testing.T) {
	for word := range blocklist {
		if got := Filter([]string{word}); len(got) != 0 {
			t.Errorf("Filter([%q]) = %q, want empty", word, got)
		}
	}
}

func TestFilter_Numbers(t *testing.T) {
	if got := Filter([]string{"123"}); len(got) != 0 {
		t.Errorf("Expected numbers to be removed, got %q", got)
	}

	// digits mixed with letters are kept
	got := Filter([]string{"a2", "2e"})
	if !reflect.DeepEqual(got, []string{"a2", "2e"}) {
		t.Errorf("Expected mixed tokens to be kept, got %q", got)
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	if got := Filter([]string{"amsterdam"}); !reflect.DeepEqual(got, []string{"amsterdam"}) {
		t.Errorf("Filter([amsterdam]) = %q", got)
	}

	got := Filter([]string{"zeist", "de", "raad", "12", "", "onderweg", "motie"})
	want := []string{"zeist", "raad", "motie"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %q, want %q", got, want)
	}
}

func TestRemoveDoubles(t *testing.T) {
	in := model.Keywords{"raad", "motie", "raad", "Raad", "motie", "zeist"}
	want := model.Keywords{"raad", "motie", "Raad", "zeist"}

	got := RemoveDoubles(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemoveDoubles = %q, want %q", got, want)
	}
}

func TestRemoveDoubles_Idempotent(t *testing.T) {
	inputs := []model.Keywords{
		nil,
		{},
		{"a"},
		{"a", "a", "a"},
		{"b", "a", "b", "c", "a"},
		{"kerkstraat", "raad", "subsidie", "raad", "kerkstraat"},
	}

	for _, in := range inputs {
		once := RemoveDoubles(in)
		twice := RemoveDoubles(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("RemoveDoubles not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
