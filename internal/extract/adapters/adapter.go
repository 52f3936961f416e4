package adapters

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/score"
	"github.com/voordathetnieuwswas/vhnw/internal/wordlist"
	"golang.org/x/net/html"
)

// Definition describes how a news site is handled. Every field has a usable
// zero value; optional capabilities are disabled when left empty.
type Definition struct {
	Name  string
	Hosts []string // host names, subdomains included

	// Article links on overview pages
	LinkPattern *regexp.Regexp

	// Article location. Empty classes fall back to the generic h1/article lookup.
	TitleClass string
	BodyClass  string
	CityClass  string

	// Keyword extraction
	MetaTagNames []string
	Regions      []string // empty means first-N extraction without a word list
	MaxKeywords  int
	City         extract.CityMethod
	Cleaner      extract.BodyCleaner

	// Single-page-app recheck interval; zero for regular sites
	SPARecheck time.Duration
	// Element whose content is replaced on single-page apps; extraction is
	// limited to it when present
	MutationSelector string
}

// Adapter is a compiled site definition
type Adapter struct {
	Definition
	extractor *extract.ArticleExtractor
}

// New compiles a definition against the word lists
func New(def Definition, words *wordlist.Set) (*Adapter, error) {
	maximum := def.MaxKeywords
	if maximum <= 0 {
		maximum = 5
	}

	method := score.FirstN(maximum)
	if len(def.Regions) > 0 {
		list, err := words.Lookup(def.Regions...)
		if err != nil {
			return nil, fmt.Errorf("adapter %s: %w", def.Name, err)
		}
		method = score.NewScorer(list.Words, list.Dynamic, maximum).Keywords
	}

	extractor := extract.NewArticleExtractor(method, wordlist.Trigger())
	if def.City != nil {
		extractor.City = def.City
	}
	extractor.Cleaner = def.Cleaner

	return &Adapter{Definition: def, extractor: extractor}, nil
}

// ShouldHandle reports whether the URL belongs to this site
func (a *Adapter) ShouldHandle(u *url.URL) bool {
	if len(a.Hosts) == 0 {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range a.Hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// IsSPA reports whether pages must be rechecked for new content
func (a *Adapter) IsSPA() bool {
	return a.SPARecheck > 0
}

// Links returns the article links on an overview page
func (a *Adapter) Links(doc *html.Node, pageURL string) ([]extract.Link, error) {
	return extract.Links(doc, pageURL, a.LinkPattern)
}

// IsArticlePage reports whether the document holds a single article
func (a *Adapter) IsArticlePage(doc *html.Node) bool {
	if a.BodyClass != "" {
		return findFirst(doc, byClass(a.BodyClass)) != nil
	}
	return extract.IsArticlePage(doc)
}

// Article locates the article text in the document
func (a *Adapter) Article(doc *html.Node) extract.Article {
	root := doc
	if a.MutationSelector != "" {
		if n := findFirst(doc, byTag(a.MutationSelector)); n != nil {
			root = n
		}
	}

	article := extract.ArticleFromHTML(root, nil)
	article.MetaKeywords = extract.MetaContents(doc, a.MetaTagNames)

	if a.TitleClass != "" {
		if n := findFirst(doc, byClass(a.TitleClass)); n != nil {
			article.Title = extract.TextContent(n)
		}
	}
	if a.BodyClass != "" {
		article.Body = nil
		for _, n := range findAll(doc, byClass(a.BodyClass)) {
			article.Body = append(article.Body, extract.TextContent(n)+" ")
		}
	}
	if a.CityClass != "" {
		if n := findFirst(doc, byClass(a.CityClass)); n != nil {
			article.CityText = extract.TextContent(n)
		}
	}

	return article
}

// Keywords extracts the search keywords of an article
func (a *Adapter) Keywords(article extract.Article) model.Keywords {
	return a.extractor.KeywordsByMetaAndBody(article)
}

// Registry manages site adapters
type Registry struct {
	adapters []*Adapter
	generic  *Adapter
}

// NewRegistry compiles the built-in site adapters and a generic fallback
// that scores against the given regions
func NewRegistry(words *wordlist.Set, cfg model.ExtractionConfig) (*Registry, error) {
	registry := &Registry{}

	for _, def := range builtinSites() {
		if err := registry.Register(def, words); err != nil {
			return nil, err
		}
	}

	generic, err := New(genericDefinition(cfg), words)
	if err != nil {
		return nil, err
	}
	registry.generic = generic

	return registry, nil
}

// Register compiles and adds a site definition
func (r *Registry) Register(def Definition, words *wordlist.Set) error {
	adapter, err := New(def, words)
	if err != nil {
		return err
	}
	r.adapters = append(r.adapters, adapter)
	return nil
}

// FindAdapter finds the adapter for a URL, falling back to the generic one
func (r *Registry) FindAdapter(rawURL string) *Adapter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return r.generic
	}

	for _, adapter := range r.adapters {
		if adapter.ShouldHandle(u) {
			return adapter
		}
	}

	return r.generic
}

// Names returns the names of the registered adapters
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters)+1)
	for _, a := range r.adapters {
		names = append(names, a.Name)
	}
	return append(names, r.generic.Name)
}

// byClass matches element nodes carrying the CSS class
func byClass(className string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key == "class" {
				for _, class := range strings.Fields(attr.Val) {
					if class == className {
						return true
					}
				}
			}
		}
		return false
	}
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// findAll finds all nodes matching a predicate, not descending into matches
func findAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// findFirst finds the first node matching a predicate
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
