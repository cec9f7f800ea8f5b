// Package app wires configuration, the feed pipeline and its optional sinks
// into the commands exposed by the newsreader binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Adda-Baaj/newsreader/internal/config"
	"github.com/Adda-Baaj/newsreader/internal/crawler"
	"github.com/Adda-Baaj/newsreader/internal/domain"
	"github.com/Adda-Baaj/newsreader/internal/logger"
	"github.com/Adda-Baaj/newsreader/internal/render"
	"github.com/Adda-Baaj/newsreader/pkg/feeds"
	"github.com/Adda-Baaj/newsreader/pkg/httpclient"
	"github.com/Adda-Baaj/newsreader/pkg/publishers"
	"github.com/Adda-Baaj/newsreader/pkg/rss"
)

// DefaultCount is the number of items shown when no count is given.
const DefaultCount = 5

// NoNewsError reports that a news request produced nothing to show.
type NoNewsError struct {
	Reason error
}

func (e *NoNewsError) Error() string {
	reason := "no items found"
	if e.Reason != nil {
		reason = e.Reason.Error()
	}
	return "Error fetching news: " + reason
}

func (e *NoNewsError) Unwrap() error { return e.Reason }

// NewsOptions are the per-invocation switches of the news command.
type NewsOptions struct {
	Count   int
	FeedID  string
	Enrich  bool
	Publish bool
}

// NewsReader is the runtime behind the CLI commands.
type NewsReader struct {
	cfg      *config.Config
	log      logger.Logger
	registry *feeds.Registry
	client   httpclient.Client
	pages    httpclient.Client
	out      io.Writer
	errOut   io.Writer
}

// NewNewsReader loads the feed registry and builds the shared HTTP client.
func NewNewsReader(cfg *config.Config, log logger.Logger, out, errOut io.Writer) (*NewsReader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	reg, err := feeds.LoadRegistry(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load feeds registry: %w", err)
	}

	ids := make([]string, 0)
	for _, f := range reg.All() {
		ids = append(ids, f.ID)
	}
	log.DebugObj("feeds registry loaded", "feeds_meta", map[string]any{
		"count": len(ids),
		"ids":   ids,
		"file":  cfg.FeedsFile,
	})

	return &NewsReader{
		cfg:      cfg,
		log:      log,
		registry: reg,
		client: httpclient.NewRestyClientWithOptions(httpclient.Options{
			Timeout:   cfg.HTTPTimeout,
			UserAgent: cfg.UserAgent,
		}),
		pages: httpclient.NewRestyClientWithOptions(httpclient.Options{
			Timeout:      cfg.HTTPTimeout,
			UserAgent:    cfg.UserAgent,
			MaxBodyBytes: crawler.MaxHTMLBodyBytes,
		}),
		out:    out,
		errOut: errOut,
	}, nil
}

// WithHTTPClient swaps the client used for feed and page downloads.
func (n *NewsReader) WithHTTPClient(client httpclient.Client) *NewsReader {
	n.client = client
	n.pages = client
	return n
}

// Feeds returns the registered feeds ordered by id.
func (n *NewsReader) Feeds() []feeds.Feed {
	return n.registry.All()
}

// ResolveFeed picks the feed for id, falling back to the configured default.
// A configured feed_url replaces the URL of the selected feed.
func (n *NewsReader) ResolveFeed(id string) (feeds.Feed, error) {
	if id == "" {
		id = n.cfg.FeedID
	}
	if id == "" {
		id = feeds.DefaultFeedID
	}

	feed, ok := n.registry.ByID(id)
	if !ok {
		return feeds.Feed{}, fmt.Errorf("unknown feed %q (run 'newsreader feeds' to list feeds)", id)
	}
	if n.cfg.FeedURL != "" {
		feed.URL = n.cfg.FeedURL
	}
	return feed, nil
}

// News fetches, renders and optionally enriches and publishes one batch of items.
func (n *NewsReader) News(ctx context.Context, opts NewsOptions) error {
	feed, err := n.ResolveFeed(opts.FeedID)
	if err != nil {
		return err
	}

	var fanout *publishers.Fanout
	if opts.Publish {
		fanout, err = n.buildFanout(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := fanout.Close(); cerr != nil {
				n.log.ErrorObj("publisher close failed", "error", cerr.Error())
			}
		}()
	}

	printer := render.NewPrinter(n.out)
	reader := rss.NewReader(
		rss.NewFetcher(n.client, feeds.Headers(feed), n.log),
		n.parser(),
		feed.URL,
		rss.ReaderOptions{Progress: printer.Progress(), Out: n.out, Log: n.log},
	)

	fmt.Fprintf(n.out, "Fetching latest news from %s...\n", feed.Name)
	res := reader.FetchNews(ctx, opts.Count)
	printer.ClearProgress()

	if res.FetchErr != nil {
		fmt.Fprintf(n.errOut, "Error fetching URL: %v\n", res.FetchErr)
	}
	if res.Err != nil {
		return &NoNewsError{Reason: res.Err}
	}
	if len(res.Items) == 0 && opts.Count > 0 {
		return &NoNewsError{Reason: res.LastError()}
	}

	items := res.Items
	if opts.Enrich {
		items = n.enrich(ctx, feed, items)
	}

	printer.Items(feed.Name, items)

	if fanout != nil {
		return n.publish(ctx, fanout, feed, items)
	}
	return nil
}

func (n *NewsReader) parser() rss.Parser {
	if n.cfg.FeedParser == config.ParserGofeed {
		return rss.NewGofeedParser(n.log)
	}
	return rss.NewScanParser()
}

func (n *NewsReader) enrich(ctx context.Context, feed feeds.Feed, items []domain.NewsItem) []domain.NewsItem {
	var enricher crawler.ItemEnricher = crawler.NewScraper(n.pages, crawler.ScraperOptions{
		Delay:   n.cfg.EnrichDelay,
		Headers: feeds.Headers(feed),
		Log:     n.log,
	})
	return enricher.Enrich(ctx, items)
}

func (n *NewsReader) buildFanout(ctx context.Context) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(n.cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return nil, errors.New("no publishers enabled")
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, n.log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, cfg := range enabled {
		summaries = append(summaries, map[string]string{"id": cfg.ID, "type": cfg.Type})
	}
	n.log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubs), nil
}

func (n *NewsReader) publish(ctx context.Context, fanout *publishers.Fanout, feed feeds.Feed, items []domain.NewsItem) error {
	var errs []error
	delivered := 0
	for _, it := range items {
		ok, err := fanout.Publish(ctx, publishers.NewEvent(feed.ID, feed.Name, it))
		if err != nil {
			errs = append(errs, err)
		}
		if ok == fanout.Size() {
			delivered++
		}
	}

	n.log.InfoObj("items published", "publish_result", map[string]any{
		"feed_id":    feed.ID,
		"items":      len(items),
		"delivered":  delivered,
		"publishers": fanout.Size(),
	})

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("publish items: %w", err)
	}
	return nil
}
