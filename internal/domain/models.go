package domain

// Domain contains core models.

// NewsItem is one syndicated entry extracted from a feed document.
// Every field is empty when the matching tag was absent.
type NewsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pub_date"`
	GUID        string `json:"guid"`
}
