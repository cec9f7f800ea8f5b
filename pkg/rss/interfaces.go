// Package rss fetches a single RSS feed and extracts a bounded list of news items.
package rss

import (
	"context"

	"github.com/Adda-Baaj/newsreader/internal/domain"
	"github.com/Adda-Baaj/newsreader/pkg/httpclient"
)

// ProgressFunc is called after each parsed item with the running count and the requested total.
type ProgressFunc func(current, total int)

// FeedFetcher downloads a feed document.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Parser extracts up to count items from a feed document, reporting progress after each one.
type Parser interface {
	Parse(document string, count int, progress ProgressFunc) []domain.NewsItem
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within rss.
type HTTPClient = httpclient.Client

// Logger defines the logging surface the pipeline relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
