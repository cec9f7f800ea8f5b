package rss

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

type stubFetcher struct {
	body  string
	err   error
	calls int
	urls  []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.calls++
	s.urls = append(s.urls, url)
	return s.body, s.err
}

type panicParser struct{}

func (panicParser) Parse(string, int, ProgressFunc) []domain.NewsItem {
	panic("parser exploded")
}

const twoItemFeed = `<rss><channel>
<item><title>Live 1</title><link>https://example.com/1</link></item>
<item><title>Live 2</title><link>https://example.com/2</link></item>
</channel></rss>`

func TestFetchNewsParsesLiveDocument(t *testing.T) {
	fetcher := &stubFetcher{body: twoItemFeed}
	var out bytes.Buffer
	r := NewReader(fetcher, nil, "https://example.com/rss", ReaderOptions{Out: &out})

	res := r.FetchNews(context.Background(), 5)
	if res.Err != nil || res.FetchErr != nil {
		t.Fatalf("unexpected errors: %v / %v", res.Err, res.FetchErr)
	}
	if res.FallbackUsed {
		t.Fatalf("fallback should not be used for a live document")
	}
	if len(res.Items) != 2 || res.Items[1].Title != "Live 2" {
		t.Fatalf("unexpected items %#v", res.Items)
	}
	if out.String() != "Fetching URL: https://example.com/rss\n" {
		t.Fatalf("expected only the fetch notice, got %q", out.String())
	}
	if fetcher.calls != 1 || fetcher.urls[0] != "https://example.com/rss" {
		t.Fatalf("expected a single fetch of the feed url, got %v", fetcher.urls)
	}
}

func TestFetchNewsFallsBackOnTransportError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	var out bytes.Buffer
	var calls []progressCall
	r := NewReader(fetcher, NewScanParser(), "https://example.com/rss", ReaderOptions{
		Out:      &out,
		Progress: recordProgress(&calls),
	})

	res := r.FetchNews(context.Background(), 5)
	if !res.FallbackUsed {
		t.Fatalf("expected fallback")
	}
	if res.Err != nil {
		t.Fatalf("fallback is not a failure, got Err=%v", res.Err)
	}
	if res.FetchErr == nil || !strings.Contains(res.FetchErr.Error(), "connection refused") {
		t.Fatalf("expected fetch error to be kept, got %v", res.FetchErr)
	}
	if len(res.Items) != FallbackItemCount {
		t.Fatalf("expected %d fallback items, got %d", FallbackItemCount, len(res.Items))
	}
	if res.Items[0].Title != "Sample News Item 1" {
		t.Fatalf("unexpected first fallback item %#v", res.Items[0])
	}
	if want := "Fetching URL: https://example.com/rss\n" + FallbackWarning + "\n"; out.String() != want {
		t.Fatalf("expected fetch notice then fallback warning, got %q", out.String())
	}
	if len(calls) != 5 {
		t.Fatalf("expected 5 progress calls, got %d", len(calls))
	}
	if !errors.Is(res.LastError(), res.FetchErr) {
		t.Fatalf("LastError should surface the fetch error")
	}
}

func TestFetchNewsFallsBackOnEmptyBody(t *testing.T) {
	r := NewReader(&stubFetcher{}, nil, "https://example.com/rss", ReaderOptions{})

	res := r.FetchNews(context.Background(), 2)
	if !res.FallbackUsed || len(res.Items) != 2 {
		t.Fatalf("expected 2 fallback items, got fallback=%v items=%d", res.FallbackUsed, len(res.Items))
	}
	if res.FetchErr == nil {
		t.Fatalf("expected a descriptive error for the empty body")
	}
}

func TestFetchNewsUninitializedClientUsesFallback(t *testing.T) {
	r := NewReader(NewFetcher(nil, nil, nil), nil, "https://example.com/rss", ReaderOptions{})

	res := r.FetchNews(context.Background(), 10)
	if !errors.Is(res.FetchErr, ErrClientNotInitialized) {
		t.Fatalf("expected ErrClientNotInitialized, got %v", res.FetchErr)
	}
	if len(res.Items) != FallbackItemCount {
		t.Fatalf("expected fallback items, got %d", len(res.Items))
	}
}

func TestFetchNewsZeroCount(t *testing.T) {
	var calls []progressCall
	r := NewReader(&stubFetcher{body: twoItemFeed}, nil, "u", ReaderOptions{Progress: recordProgress(&calls)})

	res := r.FetchNews(context.Background(), 0)
	if len(res.Items) != 0 || len(calls) != 0 || res.Err != nil {
		t.Fatalf("expected empty result, got %#v", res)
	}
}

func TestFetchNewsRecoversFromParserPanic(t *testing.T) {
	r := NewReader(&stubFetcher{body: twoItemFeed}, panicParser{}, "u", ReaderOptions{})

	res := r.FetchNews(context.Background(), 3)
	if res.Err == nil || !strings.Contains(res.Err.Error(), "parser exploded") {
		t.Fatalf("expected recovered panic as error, got %v", res.Err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("expected empty, non-nil items, got %#v", res.Items)
	}
}

func TestFetchNewsRecoversFromProgressPanic(t *testing.T) {
	r := NewReader(&stubFetcher{body: twoItemFeed}, nil, "u", ReaderOptions{
		Progress: func(int, int) { panic("sink failed") },
	})

	res := r.FetchNews(context.Background(), 3)
	if res.Err == nil || len(res.Items) != 0 {
		t.Fatalf("expected failure result, got %#v", res)
	}
}

func TestFetchNewsDoesNotLeakErrorsAcrossCalls(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("timeout")}
	r := NewReader(fetcher, nil, "u", ReaderOptions{})

	first := r.FetchNews(context.Background(), 1)
	if first.FetchErr == nil {
		t.Fatalf("expected first call to record fetch error")
	}

	fetcher.err = nil
	fetcher.body = twoItemFeed
	second := r.FetchNews(context.Background(), 1)
	if second.LastError() != nil || second.FallbackUsed {
		t.Fatalf("second call inherited state: %#v", second)
	}
}
