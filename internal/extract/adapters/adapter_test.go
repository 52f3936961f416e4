package adapters

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/wordlist"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(wordlist.NewSet(), model.DefaultConfig().Extraction)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func TestFindAdapter(t *testing.T) {
	registry := newTestRegistry(t)

	tests := []struct {
		url  string
		want string
	}{
		{"https://nos.nl/artikel/123-iets", "nos"},
		{"https://www.rtvutrecht.nl/nieuws/2001", "rtvutrecht"},
		{"https://www.at5.nl/artikelen/1", "at5"},
		{"https://www.nhnieuws.nl/nieuws/5", "nhnieuws"},
		{"https://www.1limburg.nl/nieuws/9", "1limburg"},
		{"https://example.com/news", "generic"},
		{"https://notnos.nl/artikel/1", "generic"},
		{"://broken", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := registry.FindAdapter(tt.url).Name; got != tt.want {
				t.Errorf("FindAdapter(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestRegistryNames(t *testing.T) {
	names := newTestRegistry(t).Names()
	if names[len(names)-1] != "generic" {
		t.Errorf("generic adapter should be last, got %v", names)
	}
	if len(names) != len(builtinSites())+1 {
		t.Errorf("got %d names, want %d", len(names), len(builtinSites())+1)
	}
}

func TestNewUnknownRegion(t *testing.T) {
	_, err := New(Definition{Name: "x", Regions: []string{"atlantis"}}, wordlist.NewSet())
	if err == nil {
		t.Fatal("expected error for unknown region")
	}
}

func TestShouldHandle(t *testing.T) {
	adapter := &Adapter{Definition: Definition{Hosts: []string{"nos.nl"}}}

	for raw, want := range map[string]bool{
		"https://nos.nl/":          true,
		"https://WWW.NOS.NL/x":     true,
		"https://nos.nl.evil.com/": false,
		"https://example.com/":     false,
	} {
		u, _ := url.Parse(raw)
		if got := adapter.ShouldHandle(u); got != want {
			t.Errorf("ShouldHandle(%q) = %v, want %v", raw, got, want)
		}
	}

	open := &Adapter{}
	u, _ := url.Parse("https://anything.example/")
	if !open.ShouldHandle(u) {
		t.Error("adapter without hosts should handle any URL")
	}
}

func TestIsSPA(t *testing.T) {
	registry := newTestRegistry(t)
	if !registry.FindAdapter("https://www.at5.nl/").IsSPA() {
		t.Error("at5 should be a single-page app")
	}
	if registry.FindAdapter("https://nos.nl/").IsSPA() {
		t.Error("nos should not be a single-page app")
	}
}

const rtvPage = `<!DOCTYPE html>
<html><head>
<title>Site title</title>
<meta name="keywords" content="Gemeenteraad, Utrecht">
</head><body>
<h1 class="article-title">Gemeenteraad Utrecht kiest nieuwe wethouder</h1>
<div class="article-content">UTRECHT - De gemeenteraad heeft gisteren een nieuwe wethouder gekozen.</div>
<div class="article-content">Lees ook: andere berichten</div>
</body></html>`

func TestArticleByClass(t *testing.T) {
	doc, err := extract.ParseHTML(rtvPage)
	if err != nil {
		t.Fatal(err)
	}

	adapter := newTestRegistry(t).FindAdapter("https://www.rtvutrecht.nl/nieuws/1")
	if !adapter.IsArticlePage(doc) {
		t.Fatal("expected article page")
	}

	article := adapter.Article(doc)
	if article.Title != "Gemeenteraad Utrecht kiest nieuwe wethouder" {
		t.Errorf("title = %q", article.Title)
	}
	if len(article.Body) != 2 {
		t.Fatalf("body elements = %d, want 2", len(article.Body))
	}
	if !strings.HasPrefix(article.Body[0], "UTRECHT - ") {
		t.Errorf("body[0] = %q", article.Body[0])
	}
	if !reflect.DeepEqual(article.MetaKeywords, []string{"Gemeenteraad, Utrecht"}) {
		t.Errorf("meta keywords = %v", article.MetaKeywords)
	}
}

func TestKeywordsLeadingCapsCity(t *testing.T) {
	adapter, err := New(Definition{
		Name:        "test",
		MaxKeywords: 5,
		City:        extract.CityFromLeadingCaps,
		Cleaner:     firstElementOnly,
	}, wordlist.NewSet())
	if err != nil {
		t.Fatal(err)
	}

	article := extract.Article{
		Title: "Gemeenteraad stemt over begroting",
		Body: []string{
			"AMERSFOORT - De gemeenteraad stemt vanavond over de begroting van het college. ",
			"Advertentie zwembad sportpark ",
		},
	}

	keywords := adapter.Keywords(article)
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if keywords[0] != "amersfoort" {
		t.Errorf("first keyword = %q, want city", keywords[0])
	}
	for _, kw := range keywords {
		if kw == "zwembad" || kw == "sportpark" {
			t.Errorf("cleaned body element leaked keyword %q", kw)
		}
	}
}

func TestKeywordsOffTopic(t *testing.T) {
	adapter := newTestRegistry(t).FindAdapter("https://nos.nl/artikel/1")
	article := extract.Article{
		Title: "Voetbalclub wint wedstrijd",
		Body:  []string{"De spelers vierden de overwinning met supporters in het stadion. "},
	}
	if got := adapter.Keywords(article); len(got) != 0 {
		t.Errorf("expected no keywords for off-topic article, got %v", got)
	}
}

func TestFirstElementOnly(t *testing.T) {
	if got := firstElementOnly([]string{"a", "b"}); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("got %v", got)
	}
	if got := firstElementOnly(nil); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
