package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/newsreader/internal/domain"
	"github.com/Adda-Baaj/newsreader/pkg/httpclient"
)

// MaxHTMLBodyBytes is the page size limit callers should configure on the
// scraper's HTTP client.
const MaxHTMLBodyBytes = 1 << 20 // 1 MiB

var errNoLink = errors.New("item has no link")

// ScraperOptions tunes a Scraper.
type ScraperOptions struct {
	Delay   time.Duration
	Headers map[string]string
	Log     Logger
}

// Scraper fetches item pages and reads OpenGraph and <title> metadata.
type Scraper struct {
	client  httpclient.Client
	delay   time.Duration
	headers map[string]string
	log     Logger
}

// NewScraper builds a scraper over client.
func NewScraper(client httpclient.Client, opts ScraperOptions) *Scraper {
	log := opts.Log
	if log == nil {
		log = noopLogger{}
	}
	return &Scraper{
		client:  client,
		delay:   opts.Delay,
		headers: opts.Headers,
		log:     log,
	}
}

// Enrich returns a copy of items where empty titles and descriptions are
// filled from the linked page. Items that are already complete are not
// fetched. A cancelled ctx stops enrichment and the remaining items are
// returned unchanged.
func (s *Scraper) Enrich(ctx context.Context, items []domain.NewsItem) []domain.NewsItem {
	out := append([]domain.NewsItem(nil), items...)
	if s == nil || s.client == nil {
		return out
	}

	fetched := 0
	for i, it := range items {
		if it.Title != "" && it.Description != "" {
			continue
		}
		if ctx.Err() != nil {
			return out
		}

		if fetched > 0 && s.delay > 0 {
			timer := time.NewTimer(s.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		fetched++

		enriched, err := s.fetchAndMerge(ctx, it)
		if err != nil {
			s.log.WarnObj("item metadata scrape failed", "metadata_error", map[string]any{
				"url":   it.Link,
				"error": err.Error(),
			})
			continue
		}
		out[i] = enriched
	}

	s.log.DebugObj("items enriched", "enrich_result", map[string]any{
		"items":   len(items),
		"fetched": fetched,
	})
	return out
}

func (s *Scraper) fetchAndMerge(ctx context.Context, it domain.NewsItem) (domain.NewsItem, error) {
	if strings.TrimSpace(it.Link) == "" {
		return it, errNoLink
	}

	resp, err := s.client.Get(ctx, it.Link, s.headers)
	if err != nil {
		return it, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return it, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	meta, err := parseMeta(resp.Body())
	if err != nil {
		return it, err
	}
	if it.Title == "" {
		it.Title = meta.Title
	}
	if it.Description == "" {
		it.Description = meta.Description
	}
	return it, nil
}

type pageMeta struct {
	Title       string
	Description string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	content := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return val
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			content(`meta[property="og:title"]`),
			doc.Find("head title").First().Text(),
		),
		Description: firstNonEmpty(
			content(`meta[property="og:description"]`),
			content(`meta[name="description"]`),
		),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
