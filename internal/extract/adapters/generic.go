package adapters

import (
	"regexp"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

// genericDefinition is the fallback for unknown sites
func genericDefinition(cfg model.ExtractionConfig) Definition {
	return Definition{
		Name:         "generic",
		MetaTagNames: cfg.MetaTagNames,
		Regions:      cfg.Regions,
		MaxKeywords:  cfg.MaxKeywords,
	}
}

// firstElementOnly keeps the lead element; later elements on these sites
// hold related links and advertisements
func firstElementOnly(body []string) []string {
	if len(body) > 1 {
		return body[:1]
	}
	return body
}

func builtinSites() []Definition {
	return []Definition{
		{
			Name:         "nos",
			Hosts:        []string{"nos.nl"},
			LinkPattern:  regexp.MustCompile(`/artikel/`),
			TitleClass:   "article__title",
			MetaTagNames: []string{"keywords", "news_keywords"},
			MaxKeywords:  5,
		},
		{
			Name:         "rtvutrecht",
			Hosts:        []string{"rtvutrecht.nl"},
			LinkPattern:  regexp.MustCompile(`/nieuws/\d+`),
			TitleClass:   "article-title",
			BodyClass:    "article-content",
			MetaTagNames: []string{"keywords"},
			Regions:      []string{"utrecht", "landelijk"},
			MaxKeywords:  3,
			City:         extract.CityFromLeadingCaps,
			Cleaner:      firstElementOnly,
		},
		{
			Name:             "at5",
			Hosts:            []string{"at5.nl"},
			LinkPattern:      regexp.MustCompile(`/artikelen/\d+`),
			MetaTagNames:     []string{"keywords"},
			Regions:          []string{"amsterdam", "landelijk"},
			MaxKeywords:      3,
			SPARecheck:       2 * time.Second,
			MutationSelector: "main",
		},
		{
			Name:         "nhnieuws",
			Hosts:        []string{"nhnieuws.nl"},
			LinkPattern:  regexp.MustCompile(`/nieuws/\d+`),
			MetaTagNames: []string{"keywords"},
			Regions:      []string{"noord-holland", "landelijk"},
			MaxKeywords:  3,
			City:         extract.CityFromLeadingCaps,
		},
		{
			Name:         "1limburg",
			Hosts:        []string{"1limburg.nl"},
			LinkPattern:  regexp.MustCompile(`/nieuws/\d+`),
			MetaTagNames: []string{"keywords"},
			Regions:      []string{"limburg", "landelijk"},
			MaxKeywords:  3,
			CityClass:    "article-location",
		},
	}
}
