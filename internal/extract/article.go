package extract

import (
	"regexp"
	"strings"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/score"
)

// Article is the text of a news article, already isolated from the page
type Article struct {
	Title        string
	Body         []string // text of the body elements, in document order
	CityText     string   // text of a dedicated city element, if the site has one
	MetaKeywords []string // raw content of keyword meta tags
}

// CityMethod finds the city an article is about
type CityMethod func(a Article) string

// BodyCleaner drops or trims body elements before extraction
type BodyCleaner func(body []string) []string

// CityFromElement normalizes the dedicated city element text
func CityFromElement(a Article) string {
	return Normalize(a.CityText)
}

var leadingCaps = regexp.MustCompile(`^[A-Z][A-Z ]+[A-Z]`)

// CityFromLeadingCaps returns the uppercase words the article body opens
// with, as in "UTRECHT - De gemeenteraad ..."
func CityFromLeadingCaps(a Article) string {
	if len(a.Body) == 0 {
		return ""
	}
	return leadingCaps.FindString(strings.TrimSpace(a.Body[0]))
}

// NoCity never finds a city
func NoCity(Article) string { return "" }

// ArticleExtractor extracts keywords from an article's title and body
type ArticleExtractor struct {
	Method      score.Method
	City        CityMethod
	Cleaner     BodyCleaner
	Trigger     []*regexp.Regexp
	MinKeywords int
}

// NewArticleExtractor creates an extractor with the given scoring method and
// trigger patterns. The city method defaults to CityFromElement and the
// body is used as-is.
func NewArticleExtractor(method score.Method, trigger []*regexp.Regexp) *ArticleExtractor {
	if method == nil {
		method = score.FirstN(5)
	}
	return &ArticleExtractor{
		Method:      method,
		City:        CityFromElement,
		Trigger:     trigger,
		MinKeywords: 3,
	}
}

// Text builds the weighted text: the title twice, then the cleaned body
func (e *ArticleExtractor) Text(a Article) string {
	body := a.Body
	if e.Cleaner != nil {
		body = e.Cleaner(body)
	}
	return strings.Repeat(a.Title+" ", 2) + strings.Join(body, "")
}

// Extract returns the keywords for the article, or an empty list when the
// page is off-topic or fewer than MinKeywords terms remain
func (e *ArticleExtractor) Extract(a Article) model.Keywords {
	if a.Title == "" && len(a.Body) == 0 {
		return model.Keywords{}
	}

	text := e.Text(a)
	tokens := TextToTokens(text)

	// no trigger patterns means no gate
	if len(e.Trigger) > 0 && !score.MatchesAny(tokens, e.Trigger) {
		return model.Keywords{}
	}

	keywords := append(model.Keywords{}, e.Method(text, tokens)...)

	if e.City != nil {
		if city := e.City(a); city != "" {
			keywords = append(model.Keywords{strings.ToLower(city)}, keywords...)
		}
	}

	if street := StreetName(tokens); street != "" {
		keywords = append(keywords, strings.ToLower(street))
	}

	unique := RemoveDoubles(keywords)

	minimum := e.MinKeywords
	if minimum <= 0 {
		minimum = 3
	}
	if len(unique) < minimum {
		return model.Keywords{}
	}

	return unique
}

var metaSeparator = regexp.MustCompile(`,\s*`)

// KeywordsFromMeta splits keyword meta tag contents on commas, removes
// duplicates and runs the method over the result
func KeywordsFromMeta(contents []string, method score.Method) model.Keywords {
	if method == nil {
		method = score.FirstN(2)
	}

	var unique model.Keywords
	for _, content := range contents {
		for _, kw := range metaSeparator.Split(content, -1) {
			if kw != "" {
				unique = append(unique, kw)
			}
		}
	}
	unique = RemoveDoubles(unique)

	text := strings.Join(unique, " ")
	return method(text, TextToTokens(text))
}

// KeywordsByMetaAndBody extracts body keywords and, when there are any,
// prepends the first meta keyword
func (e *ArticleExtractor) KeywordsByMetaAndBody(a Article) model.Keywords {
	body := e.Extract(a)
	if len(body) == 0 {
		return model.Keywords{}
	}

	meta := KeywordsFromMeta(a.MetaKeywords, e.Method)
	if len(meta) > 1 {
		meta = meta[:1]
	}

	return RemoveDoubles(append(meta, body...))
}
