package rss

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrClientNotInitialized is returned by every Fetch on a Fetcher built without an HTTP client.
var ErrClientNotInitialized = errors.New("http client not initialized")

// Fetcher performs one GET per call against a feed URL. No retries.
type Fetcher struct {
	client  HTTPClient
	headers map[string]string
	log     Logger
	initErr error
}

// NewFetcher builds a fetcher over client. A nil client is recorded as an
// initialization failure and surfaces on every Fetch.
func NewFetcher(client HTTPClient, headers map[string]string, log Logger) *Fetcher {
	f := &Fetcher{
		client:  client,
		headers: headers,
		log:     ensureLogger(log),
	}
	if client == nil {
		f.initErr = ErrClientNotInitialized
		f.log.ErrorObj("feed fetcher initialization failed", "error", f.initErr.Error())
	}
	return f
}

// Fetch returns the response body of url, or "" and an error describing the failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f == nil || f.initErr != nil {
		return "", ErrClientNotInitialized
	}

	f.log.DebugObj("fetching feed url", "url", url)

	resp, err := f.client.Get(ctx, url, f.headers)
	if err != nil {
		err = fmt.Errorf("fetch feed %s: %w", url, err)
		f.log.WarnObj("feed fetch failed", "fetch_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return "", err
	}

	body := resp.Body()
	if status := resp.StatusCode(); status < 200 || status > 299 {
		err = fmt.Errorf("feed %s returned status %d body: %s", url, status, responseSnippet(body))
		f.log.WarnObj("feed fetch failed", "fetch_error", map[string]any{
			"url":         url,
			"status_code": status,
		})
		return "", err
	}

	f.log.DebugObj("feed fetched", "fetch_result", map[string]any{
		"url":   url,
		"bytes": len(body),
	})
	return string(body), nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
