package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewsFeed_AppendDeduplicatesByURL(t *testing.T) {
	var feed NewsFeed
	feed.Reset()

	first := []NewsItem{
		{Title: "A", URL: "https://news.test/a"},
		{Title: "B", URL: "https://news.test/b"},
	}
	added := feed.Append(first, true)
	assert.Len(t, added, 2)
	assert.Equal(t, 2, feed.Offset)
	assert.True(t, feed.HasMore)

	// Overlapping page: only the genuinely new article lands.
	second := []NewsItem{
		{Title: "B", URL: "https://news.test/b"},
		{Title: "C", URL: "https://news.test/c"},
	}
	added = feed.Append(second, false)
	assert.Len(t, added, 1)
	assert.Equal(t, "https://news.test/c", added[0].URL)
	assert.Equal(t, 3, feed.Offset)
	assert.False(t, feed.HasMore)

	urls := make(map[string]int)
	for _, it := range feed.Items {
		urls[it.URL]++
	}
	for url, n := range urls {
		assert.Equal(t, 1, n, "duplicate article url %s", url)
	}
}

func TestNewsFeed_AppendDedupesWithinOnePage(t *testing.T) {
	var feed NewsFeed
	feed.Reset()

	added := feed.Append([]NewsItem{
		{Title: "A", URL: "https://news.test/a"},
		{Title: "A again", URL: "https://news.test/a"},
	}, true)

	assert.Len(t, added, 1)
	assert.Equal(t, 1, feed.Offset)
}

func TestNewsFeed_Reset(t *testing.T) {
	var feed NewsFeed
	feed.Append([]NewsItem{{URL: "https://news.test/a"}}, false)
	feed.Reset()

	assert.Empty(t, feed.Items)
	assert.Equal(t, 0, feed.Offset)
	assert.True(t, feed.HasMore)
	assert.True(t, feed.LastUpdated.IsZero())
}
