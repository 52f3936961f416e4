package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

// CountResolver resolves the hit count of one linked article
type CountResolver interface {
	ResolveCount(ctx context.Context, link extract.Link) (*LinkCount, error)
}

// LinkCount is the hit count of a linked article
type LinkCount struct {
	Link     extract.Link
	Keywords model.Keywords
	Count    int
	Cached   bool
	Error    error
	index    int
}

// GetError returns the error of the resolution
func (c *LinkCount) GetError() error {
	return c.Error
}

// countJob resolves a single link
type countJob struct {
	link     extract.Link
	index    int
	resolver CountResolver
}

func (j *countJob) Execute(ctx context.Context) Result {
	count, err := j.resolver.ResolveCount(ctx, j.link)
	if err != nil || count == nil {
		return &LinkCount{Link: j.link, Error: err, index: j.index}
	}
	count.Link = j.link
	count.index = j.index
	return count
}

// CountProcessor resolves link counts concurrently
type CountProcessor struct {
	resolver    CountResolver
	concurrency int
}

// NewCountProcessor creates a processor running concurrency workers
func NewCountProcessor(resolver CountResolver, concurrency int) *CountProcessor {
	return &CountProcessor{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// ResolveLinks resolves all links and returns the counts in link order
func (p *CountProcessor) ResolveLinks(ctx context.Context, links []extract.Link) []*LinkCount {
	if len(links) == 0 {
		return []*LinkCount{}
	}

	pool := NewPool(ctx, p.concurrency)
	pool.Start()

	for i, link := range links {
		pool.Submit(&countJob{link: link, index: i, resolver: p.resolver})
	}

	counts := make([]*LinkCount, len(links))
	for _, result := range pool.Wait() {
		count := result.(*LinkCount)
		counts[count.index] = count
	}

	// jobs dropped by cancellation
	for i, count := range counts {
		if count == nil {
			counts[i] = &LinkCount{Link: links[i], Error: ctx.Err(), index: i}
		}
	}

	return counts
}

// ReadURLsFromFile reads URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
