package publishers

import (
	"time"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

// Event is the JSON payload delivered to every sink for one news item.
type Event struct {
	FeedID      string          `json:"feed_id"`
	FeedName    string          `json:"feed_name"`
	Item        domain.NewsItem `json:"item"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent stamps item with the feed it came from and the current UTC time.
func NewEvent(feedID, feedName string, item domain.NewsItem) Event {
	return Event{
		FeedID:      feedID,
		FeedName:    feedName,
		Item:        item,
		CollectedAt: time.Now().UTC(),
	}
}
