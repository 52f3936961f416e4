package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

type fakeResolver struct{}

func (fakeResolver) ResolveCount(_ context.Context, link extract.Link) (*LinkCount, error) {
	if strings.HasSuffix(link.URL, "/fail") {
		return nil, errors.New("search failed")
	}
	if strings.HasSuffix(link.URL, "/empty") {
		return nil, nil
	}
	return &LinkCount{Keywords: model.Keywords{"raad"}, Count: len(link.URL)}, nil
}

func TestResolveLinks(t *testing.T) {
	links := []extract.Link{
		{URL: "https://nos.nl/artikel/1"},
		{URL: "https://nos.nl/artikel/fail"},
		{URL: "https://nos.nl/artikel/22"},
		{URL: "https://nos.nl/artikel/empty"},
	}

	counts := NewCountProcessor(fakeResolver{}, 3).ResolveLinks(context.Background(), links)
	if len(counts) != len(links) {
		t.Fatalf("expected %d counts, got %d", len(links), len(counts))
	}

	for i, c := range counts {
		if c.Link.URL != links[i].URL {
			t.Errorf("count %d out of order: %s", i, c.Link.URL)
		}
	}
	if counts[0].Count != len(links[0].URL) || counts[0].GetError() != nil {
		t.Errorf("unexpected count %+v", counts[0])
	}
	if counts[1].GetError() == nil {
		t.Error("expected error for failed link")
	}
	if counts[3].Count != 0 || counts[3].GetError() != nil {
		t.Errorf("unexpected count for link without keywords %+v", counts[3])
	}
}

func TestResolveLinks_Empty(t *testing.T) {
	if got := NewCountProcessor(fakeResolver{}, 2).ResolveLinks(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no counts, got %d", len(got))
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# overview pages\nhttps://nos.nl/\n\nhttps://www.at5.nl/\nhttps://nos.nl/\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 || urls[0] != "https://nos.nl/" || urls[1] != "https://www.at5.nl/" {
		t.Errorf("unexpected urls %v", urls)
	}
}

func TestReadURLsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadURLsFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
