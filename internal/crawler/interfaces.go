// Package crawler enriches news items with metadata scraped from their pages.
package crawler

import (
	"context"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

// ItemEnricher fills missing item fields from the linked pages.
type ItemEnricher interface {
	Enrich(ctx context.Context, items []domain.NewsItem) []domain.NewsItem
}

// Logger is the logging surface the scraper relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
