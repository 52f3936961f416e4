package extract

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Link is an article link found on an overview page
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
}

// Links returns the unique absolute http(s) links in the document whose URL
// matches pattern (all links when pattern is nil)
func Links(doc *html.Node, sourceURL string, pattern *regexp.Regexp) ([]Link, error) {
	baseURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}

	var links []Link
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if resolved := resolveURL(baseURL, attr(n, "href")); resolved != "" && !seen[resolved] {
				if pattern == nil || pattern.MatchString(resolved) {
					seen[resolved] = true
					links = append(links, Link{URL: resolved, Text: TextContent(n)})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return links, nil
}

// resolveURL resolves a relative URL against a base URL
func resolveURL(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	// Skip javascript: and mailto: links
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""

	// Only keep http/https URLs
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}
