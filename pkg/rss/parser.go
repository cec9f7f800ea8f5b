package rss

import (
	"regexp"
	"strings"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

const (
	itemOpen  = "<item>"
	itemClose = "</item>"
)

// Each pattern takes the shortest span on a single line, so the first closing tag wins.
var (
	titlePattern       = regexp.MustCompile(`<title>(.*?)</title>`)
	linkPattern        = regexp.MustCompile(`<link>(.*?)</link>`)
	descriptionPattern = regexp.MustCompile(`<description>(.*?)</description>`)
	pubDatePattern     = regexp.MustCompile(`<pubDate>(.*?)</pubDate>`)
	guidPattern        = regexp.MustCompile(`<guid>(.*?)</guid>`)

	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ScanParser finds items by literal marker search rather than XML decoding.
// Nested items, CDATA and entities are not understood.
type ScanParser struct{}

// NewScanParser returns the default parser.
func NewScanParser() ScanParser { return ScanParser{} }

// Parse walks document from the start, extracting at most count items.
// An opening marker without a closing one ends the scan.
func (ScanParser) Parse(document string, count int, progress ProgressFunc) []domain.NewsItem {
	items := []domain.NewsItem{}
	cursor := 0

	for len(items) < count {
		start := strings.Index(document[cursor:], itemOpen)
		if start < 0 {
			break
		}
		start += cursor

		end := strings.Index(document[start:], itemClose)
		if end < 0 {
			break
		}
		end += start + len(itemClose)

		items = append(items, extractItem(document[start:end]))
		cursor = end

		if progress != nil {
			progress(len(items), count)
		}
	}

	return items
}

func extractItem(window string) domain.NewsItem {
	return domain.NewsItem{
		Title:       firstGroup(titlePattern, window),
		Link:        firstGroup(linkPattern, window),
		Description: StripTags(firstGroup(descriptionPattern, window)),
		PubDate:     firstGroup(pubDatePattern, window),
		GUID:        firstGroup(guidPattern, window),
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// StripTags removes every angle-bracketed run from s. Text between brackets
// that is not markup is removed as well.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return tagPattern.ReplaceAllString(s, "")
}
