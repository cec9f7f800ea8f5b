package rss

import _ "embed"

// fallbackDocument is parsed whenever the live fetch yields no content.
//
//go:embed fallback.xml
var fallbackDocument string

// FallbackItemCount is the number of items in the fallback document.
const FallbackItemCount = 5

// FallbackDocument returns the embedded five-item sample feed.
func FallbackDocument() string {
	return fallbackDocument
}
