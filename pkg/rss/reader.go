package rss

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

// FallbackWarning is written to the reader output before the fallback document is parsed.
const FallbackWarning = "Warning: Using sample data as fallback."

// Result is the outcome of one FetchNews call.
type Result struct {
	Items []domain.NewsItem
	// FallbackUsed reports that the embedded sample document replaced the live feed.
	FallbackUsed bool
	// FetchErr is the transport failure that triggered the fallback, if any.
	FetchErr error
	// Err is set when the pipeline itself failed; Items is empty then.
	Err error
}

// ReaderOptions controls the optional collaborators of a Reader.
type ReaderOptions struct {
	Progress ProgressFunc
	Out      io.Writer
	Log      Logger
}

// Reader ties a fetcher and a parser to one feed URL. It is not safe for
// concurrent use.
type Reader struct {
	fetcher  FeedFetcher
	parser   Parser
	feedURL  string
	progress ProgressFunc
	out      io.Writer
	log      Logger
}

// NewReader builds a Reader. A nil parser selects the ScanParser.
func NewReader(fetcher FeedFetcher, parser Parser, feedURL string, opts ReaderOptions) *Reader {
	if parser == nil {
		parser = NewScanParser()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Reader{
		fetcher:  fetcher,
		parser:   parser,
		feedURL:  feedURL,
		progress: opts.Progress,
		out:      out,
		log:      ensureLogger(opts.Log),
	}
}

// FetchNews downloads the feed and returns at most count items. A failed or
// empty download falls back to the embedded sample document. Panics from the
// fetcher, parser or progress callback are converted into Result.Err.
func (r *Reader) FetchNews(ctx context.Context, count int) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{
				Items: []domain.NewsItem{},
				Err:   fmt.Errorf("fetch news: %v", rec),
			}
			r.log.ErrorObj("feed pipeline aborted", "error", res.Err.Error())
		}
	}()

	if r.fetcher == nil {
		return Result{Items: []domain.NewsItem{}, Err: ErrClientNotInitialized}
	}

	fmt.Fprintf(r.out, "Fetching URL: %s\n", r.feedURL)
	body, err := r.fetcher.Fetch(ctx, r.feedURL)
	if body == "" {
		if err == nil {
			err = fmt.Errorf("feed %s returned an empty body", r.feedURL)
		}
		res.FallbackUsed = true
		res.FetchErr = err
		fmt.Fprintln(r.out, FallbackWarning)
		r.log.WarnObj("using fallback feed document", "fallback_reason", err.Error())
		body = FallbackDocument()
	}

	res.Items = r.parser.Parse(body, count, r.progress)
	r.log.DebugObj("feed parsed", "parse_result", map[string]any{
		"url":      r.feedURL,
		"items":    len(res.Items),
		"fallback": res.FallbackUsed,
	})
	return res
}

// LastError returns the most relevant error of the result: the pipeline
// failure if there was one, otherwise the fetch failure behind a fallback.
func (res Result) LastError() error {
	if res.Err != nil {
		return res.Err
	}
	return res.FetchErr
}
