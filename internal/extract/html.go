package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses an HTML document
func ParseHTML(content string) (*html.Node, error) {
	return html.Parse(strings.NewReader(content))
}

// skipped elements never contribute text
func skipped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "script", "style", "noscript", "iframe", "svg", "object", "textarea", "template":
		return true
	}
	return false
}

// TextContent returns the text of a node and its descendants, skipping
// scripts and styles. Text nodes are separated by a single space.
func TextContent(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// MetaContents returns the content attribute of every meta tag whose name
// matches one of names (case-insensitive), in document order
func MetaContents(doc *html.Node, names []string) []string {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}

	var contents []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			if wanted[strings.ToLower(attr(n, "name"))] {
				if content := attr(n, "content"); content != "" {
					contents = append(contents, content)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if len(wanted) > 0 {
		walk(doc)
	}
	return contents
}

// ArticleFromHTML builds an Article from a generic news page: the first h1
// (or the document title) becomes the title, paragraphs inside <article> (or
// all paragraphs when there is none) become the body
func ArticleFromHTML(doc *html.Node, metaTagNames []string) Article {
	a := Article{
		MetaKeywords: MetaContents(doc, metaTagNames),
	}

	if h1 := findFirst(doc, "h1"); h1 != nil {
		a.Title = TextContent(h1)
	} else if title := findFirst(doc, "title"); title != nil {
		a.Title = TextContent(title)
	}

	root := findFirst(doc, "article")
	if root == nil {
		root = doc
	}
	for _, p := range findAll(root, "p") {
		if text := TextContent(p); text != "" {
			// keep a separator, body texts are concatenated as-is
			a.Body = append(a.Body, text+" ")
		}
	}

	return a
}

// IsArticlePage reports whether the document has an <article> element or
// at least three paragraphs
func IsArticlePage(doc *html.Node) bool {
	return findFirst(doc, "article") != nil || len(findAll(doc, "p")) >= 3
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	if skipped(n) {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}
