// Package httpclient wraps the outbound HTTP stack used for feed and page downloads.
package httpclient

import "context"

// Response exposes the parts of an HTTP response the feed pipeline reads.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs GET requests; tests substitute fakes for the resty-backed implementation.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
