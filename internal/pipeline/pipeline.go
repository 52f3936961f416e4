package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/cache"
	"github.com/voordathetnieuwswas/vhnw/internal/correlate"
	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/extract/adapters"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/util"
	"github.com/voordathetnieuwswas/vhnw/internal/worker"
	"golang.org/x/net/html"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Pipeline connects page fetching, keyword extraction, the result cache and
// the correlator
type Pipeline struct {
	fetcher    *Fetcher
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	adapters   *adapters.Registry
	correlator *correlate.Correlator
	store      *cache.Store // nil when caching is disabled
	config     *model.Config

	// Log receives warnings that do not fail an operation
	Log io.Writer
}

// NewPipeline creates a pipeline with the given configuration. store may be
// nil to disable caching.
func NewPipeline(cfg *model.Config, registry *adapters.Registry, correlator *correlate.Correlator, store *cache.Store) *Pipeline {
	fetcher := NewFetcherFromConfig(cfg.HTTP)

	var robots *util.RobotsChecker
	if cfg.HTTP.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, fetcher.httpClient)
	}

	return &Pipeline{
		fetcher:    fetcher,
		robots:     robots,
		limiter:    worker.NewLimiterFromConfig(cfg.RateLimiting),
		adapters:   registry,
		correlator: correlator,
		store:      store,
		config:     cfg,
		Log:        io.Discard,
	}
}

// ArticleResult is the outcome of handling the article a reader is viewing
type ArticleResult struct {
	URL      string
	Adapter  string
	Keywords model.Keywords
	Results  []model.ResultRecord
	Cached   bool
}

// HandleArticle extracts the keywords of an article and returns its verified
// results, from the cache when available. An article without keywords is
// not searched.
func (p *Pipeline) HandleArticle(ctx context.Context, pageURL string, article extract.Article) (*ArticleResult, error) {
	adapter := p.adapters.FindAdapter(pageURL)
	result := &ArticleResult{
		URL:      pageURL,
		Adapter:  adapter.Name,
		Keywords: adapter.Keywords(article),
		Results:  []model.ResultRecord{},
	}
	if len(result.Keywords) == 0 {
		return result, nil
	}

	entry := p.entry(pageURL)
	if entry.ResultsResolved() {
		result.Results = entry.Results
		result.Cached = true
		return result, nil
	}

	results, err := p.correlator.FindVerifiedResults(ctx, result.Keywords)
	if err != nil {
		return nil, err
	}
	result.Results = results

	p.save(ctx, pageURL, entry.WithResults(results, result.Keywords))
	return result, nil
}

// ResolveCount returns the hit count of a linked article, fetching and
// searching it when the cache has no count yet. A link without keywords
// yields nil.
func (p *Pipeline) ResolveCount(ctx context.Context, link extract.Link) (*worker.LinkCount, error) {
	entry := p.entry(link.URL)
	if entry.CountResolved() {
		return &worker.LinkCount{Keywords: entry.Keywords, Count: *entry.Count, Cached: true}, nil
	}

	adapter := p.adapters.FindAdapter(link.URL)
	page, err := p.fetch(ctx, link.URL)
	if err != nil {
		return nil, err
	}
	doc, err := extract.ParseHTML(page.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", link.URL, err)
	}

	keywords := adapter.Keywords(adapter.Article(doc))
	if len(keywords) == 0 {
		return nil, nil
	}

	count, err := p.correlator.FindCount(ctx, keywords)
	if err != nil {
		return nil, err
	}

	p.save(ctx, link.URL, entry.WithCount(count, keywords))
	return &worker.LinkCount{Keywords: keywords, Count: count}, nil
}

// HandleLinks resolves the hit counts of the article links on an overview
// page. Links to other sites are ignored.
func (p *Pipeline) HandleLinks(ctx context.Context, pageURL string, doc *html.Node) ([]*worker.LinkCount, error) {
	adapter := p.adapters.FindAdapter(pageURL)

	links, err := adapter.Links(doc, pageURL)
	if err != nil {
		return nil, fmt.Errorf("collect links: %w", err)
	}

	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	// without known hosts, stay on the overview page's host
	handled := links[:0]
	for _, link := range links {
		u, err := url.Parse(link.URL)
		if err != nil || !adapter.ShouldHandle(u) {
			continue
		}
		if len(adapter.Hosts) == 0 && !strings.EqualFold(u.Host, page.Host) {
			continue
		}
		handled = append(handled, link)
	}

	processor := worker.NewCountProcessor(p, p.config.Concurrency.Workers)
	return processor.ResolveLinks(ctx, handled), nil
}

// ScanURL fetches an article and returns its keywords and verified results
func (p *Pipeline) ScanURL(ctx context.Context, pageURL string) (*model.Report, error) {
	page, article, adapter, err := p.fetchArticle(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result, err := p.HandleArticle(ctx, page.FinalURL, article)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		SourceURL: page.FinalURL,
		FetchedAt: time.Now().UTC(),
		FetchMeta: page.Meta,
		Adapter:   adapter.Name,
		Keywords:  result.Keywords,
		Results:   result.Results,
		Cached:    result.Cached,
	}
	if report.Keywords == nil {
		report.Keywords = model.Keywords{}
	}
	return report, nil
}

// ScanLinks fetches an overview page and resolves the counts of its links
func (p *Pipeline) ScanLinks(ctx context.Context, pageURL string) ([]*worker.LinkCount, error) {
	page, err := p.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := extract.ParseHTML(page.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return p.HandleLinks(ctx, page.FinalURL, doc)
}

// Extraction is the keyword extraction of a fetched page
type Extraction struct {
	URL       string
	Adapter   string
	IsArticle bool
	Article   extract.Article
	Keywords  model.Keywords
}

// ExtractURL fetches a page and extracts its keywords without searching
func (p *Pipeline) ExtractURL(ctx context.Context, pageURL string) (*Extraction, error) {
	page, article, adapter, err := p.fetchArticle(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, _ := extract.ParseHTML(page.HTML)

	return &Extraction{
		URL:       page.FinalURL,
		Adapter:   adapter.Name,
		IsArticle: doc != nil && adapter.IsArticlePage(doc),
		Article:   article,
		Keywords:  adapter.Keywords(article),
	}, nil
}

// fetchArticle fetches and extracts an article. Single-page apps render
// their content late, so an empty extraction is retried once after the
// adapter's recheck interval.
func (p *Pipeline) fetchArticle(ctx context.Context, pageURL string) (*FetchResult, extract.Article, *adapters.Adapter, error) {
	adapter := p.adapters.FindAdapter(pageURL)

	attempts := 1
	if adapter.IsSPA() {
		attempts = 2
	}

	var (
		page    *FetchResult
		article extract.Article
		err     error
	)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleepContext(ctx, adapter.SPARecheck); err != nil {
				return nil, article, nil, err
			}
		}

		page, err = p.fetch(ctx, pageURL)
		if err != nil {
			return nil, article, nil, err
		}

		doc, err := extract.ParseHTML(page.HTML)
		if err != nil {
			return nil, article, nil, fmt.Errorf("parse %s: %w", pageURL, err)
		}
		article = adapter.Article(doc)
		if len(adapter.Keywords(article)) > 0 {
			break
		}
	}

	return page, article, adapter, nil
}

// fetch honours robots.txt and the per-host rate limit
func (p *Pipeline) fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	var delay time.Duration
	if p.robots != nil {
		allowed, crawlDelay, err := p.robots.CanFetch(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", pageURL, ErrDisallowed)
		}
		delay = crawlDelay
	}

	if err := p.limiter.WaitWithDelay(ctx, pageURL, delay); err != nil {
		return nil, err
	}

	return p.fetcher.FetchWithRetry(ctx, pageURL)
}

// entry returns the cached entry for key, or a fresh one
func (p *Pipeline) entry(key string) model.CacheEntry {
	if p.store == nil {
		return model.NewCacheEntry(time.Now())
	}
	if entry, ok := p.store.Get(key); ok {
		return *entry
	}
	return p.store.Create()
}

// save stores the entry; persistence failures are logged, the result stands
func (p *Pipeline) save(ctx context.Context, key string, entry model.CacheEntry) {
	if p.store == nil {
		return
	}
	if err := p.store.Set(ctx, key, entry); err != nil {
		fmt.Fprintf(p.Log, "Warning: %v\n", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
