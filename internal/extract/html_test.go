package extract

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

const samplePage = `
<html>
<head>
	<title>Nieuws - Site</title>
	<meta name="keywords" content="Utrecht, gemeenteraad">
	<meta name="News_Keywords" content="begroting">
	<meta name="description" content="niet gebruiken">
	<script>var x = "raad";</script>
</head>
<body>
	<nav><a href="/artikel/1">Eerste</a> <a href="#top">Top</a></nav>
	<article>
		<h1>Raad stemt in</h1>
		<p>UTRECHT - De gemeenteraad stemt in.</p>
		<p>Met de <b>begroting</b> voor 2025.</p>
		<style>.x { color: red; }</style>
	</article>
	<p>Reclame buiten het artikel</p>
	<a href="https://example.com/artikel/2#reacties">Tweede</a>
	<a href="/artikel/1">Eerste opnieuw</a>
	<a href="mailto:redactie@example.com">Mail</a>
	<a href="/video/3">Video</a>
</body>
</html>
`

func TestArticleFromHTML(t *testing.T) {
	doc, err := ParseHTML(samplePage)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	a := ArticleFromHTML(doc, []string{"keywords", "news_keywords"})

	if a.Title != "Raad stemt in" {
		t.Errorf("Title = %q", a.Title)
	}
	if len(a.Body) != 2 {
		t.Fatalf("Expected 2 body paragraphs, got %d: %q", len(a.Body), a.Body)
	}
	if !strings.HasPrefix(a.Body[0], "UTRECHT - De gemeenteraad") {
		t.Errorf("Unexpected first paragraph: %q", a.Body[0])
	}
	if a.Body[1] != "Met de begroting voor 2025. " {
		t.Errorf("Unexpected second paragraph: %q", a.Body[1])
	}
	if !reflect.DeepEqual(a.MetaKeywords, []string{"Utrecht, gemeenteraad", "begroting"}) {
		t.Errorf("MetaKeywords = %q", a.MetaKeywords)
	}
}

func TestArticleFromHTML_FallbackTitle(t *testing.T) {
	doc, err := ParseHTML(`<html><head><title>Alleen titel</title></head><body><p>tekst</p></body></html>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	a := ArticleFromHTML(doc, nil)
	if a.Title != "Alleen titel" {
		t.Errorf("Title = %q", a.Title)
	}
	if len(a.Body) != 1 {
		t.Errorf("Expected body from all paragraphs, got %q", a.Body)
	}
	if len(a.MetaKeywords) != 0 {
		t.Errorf("Expected no meta keywords, got %q", a.MetaKeywords)
	}
}

func TestTextContent_SkipsScripts(t *testing.T) {
	doc, err := ParseHTML(`<div>een <script>geheim()</script><span>twee</span></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	if got := TextContent(doc); got != "een twee" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestIsArticlePage(t *testing.T) {
	doc, _ := ParseHTML(samplePage)
	if !IsArticlePage(doc) {
		t.Error("Expected article page")
	}

	doc, _ = ParseHTML(`<html><body><a href="/x">x</a></body></html>`)
	if IsArticlePage(doc) {
		t.Error("Expected overview page")
	}
}

func TestLinks(t *testing.T) {
	doc, err := ParseHTML(samplePage)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	links, err := Links(doc, "https://example.com/", regexp.MustCompile(`/artikel/`))
	if err != nil {
		t.Fatalf("Links failed: %v", err)
	}

	var urls []string
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	want := []string{"https://example.com/artikel/1", "https://example.com/artikel/2"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("Links = %q, want %q", urls, want)
	}
	if links[0].Text != "Eerste" {
		t.Errorf("Expected first occurrence text, got %q", links[0].Text)
	}
}

func TestLinks_NoPattern(t *testing.T) {
	doc, _ := ParseHTML(samplePage)

	links, err := Links(doc, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("Links failed: %v", err)
	}
	// artikel/1, artikel/2, video/3; anchors and mailto are skipped
	if len(links) != 3 {
		t.Errorf("Expected 3 links, got %d: %+v", len(links), links)
	}
}
