package rss

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

// GofeedParser decodes the document structurally with gofeed. It accepts
// RSS, Atom and JSON feeds and resolves CDATA and entities.
type GofeedParser struct {
	parser *gofeed.Parser
	log    Logger
}

// NewGofeedParser builds a structural parser.
func NewGofeedParser(log Logger) *GofeedParser {
	return &GofeedParser{
		parser: gofeed.NewParser(),
		log:    ensureLogger(log),
	}
}

// Parse returns at most count items in document order. Undecodable input yields no items.
func (p *GofeedParser) Parse(document string, count int, progress ProgressFunc) []domain.NewsItem {
	items := []domain.NewsItem{}
	if count <= 0 {
		return items
	}

	feed, err := p.parser.Parse(strings.NewReader(document))
	if err != nil {
		p.log.WarnObj("gofeed could not decode feed document", "parse_error", err.Error())
		return items
	}

	for _, it := range feed.Items {
		if len(items) >= count {
			break
		}
		if it == nil {
			continue
		}

		items = append(items, domain.NewsItem{
			Title:       it.Title,
			Link:        it.Link,
			Description: StripTags(it.Description),
			PubDate:     it.Published,
			GUID:        it.GUID,
		})

		if progress != nil {
			progress(len(items), count)
		}
	}

	return items
}
