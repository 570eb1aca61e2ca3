package models

import "time"

// NewsItem is one business-news article.
type NewsItem struct {
	Title       string `json:"article_title"`
	URL         string `json:"article_url"`
	PhotoURL    string `json:"article_photo_url,omitempty"`
	Source      string `json:"source,omitempty"`
	PostTimeUTC string `json:"post_time_utc,omitempty"`
}

// NewsFeed is an append-only, URL-deduplicated sequence of articles
// grown through "load more" pagination. Offset always equals the number
// of loaded items, not a server cursor.
type NewsFeed struct {
	Items       []NewsItem
	Offset      int
	HasMore     bool
	LastUpdated time.Time
}

// Reset returns the feed to its freshly-entered state.
func (f *NewsFeed) Reset() {
	f.Items = nil
	f.Offset = 0
	f.HasMore = true
	f.LastUpdated = time.Time{}
}

// Append adds items not already present (by article URL) and updates
// the pagination bookkeeping. It returns the items actually added.
func (f *NewsFeed) Append(items []NewsItem, hasMore bool) []NewsItem {
	seen := make(map[string]struct{}, len(f.Items))
	for _, it := range f.Items {
		seen[it.URL] = struct{}{}
	}

	var added []NewsItem
	for _, it := range items {
		if _, dup := seen[it.URL]; dup {
			continue
		}
		seen[it.URL] = struct{}{}
		added = append(added, it)
	}

	f.Items = append(f.Items, added...)
	f.HasMore = hasMore
	f.Offset = len(f.Items)
	f.LastUpdated = time.Now()
	return added
}
