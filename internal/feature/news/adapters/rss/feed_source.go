// Package rss はgofeedを使ったRSS/Atomフィードの取得アダプタを提供します。
package rss

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"fx_backend/internal/feature/news/domain/entity"
	"fx_backend/internal/feature/news/usecase"
)

type rssFeed struct {
	parser *gofeed.Parser
	now    func() time.Time
}

var _ usecase.FeedRepository = (*rssFeed)(nil)

// NewFeedRepository は共有HTTPクライアントを使うフィードリポジトリを生成します。
func NewFeedRepository(client *http.Client) *rssFeed {
	p := gofeed.NewParser()
	p.Client = client
	return &rssFeed{parser: p, now: time.Now}
}

// Fetch は1つのフィードURLから記事を取得します。
// タイムスタンプはUTCに正規化し、欠落時は現在時刻で補います。
func (r *rssFeed) Fetch(ctx context.Context, feedURL string) ([]usecase.FeedItem, error) {
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	source := sourceLabel(feedURL)
	items := make([]usecase.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		ts := r.now().UTC()
		if it.PublishedParsed != nil {
			ts = it.PublishedParsed.UTC()
		} else if it.UpdatedParsed != nil {
			ts = it.UpdatedParsed.UTC()
		}

		items = append(items, usecase.FeedItem{
			News: entity.NewsItem{
				Title:     strings.TrimSpace(it.Title),
				URL:       it.Link,
				Timestamp: ts,
				Source:    source,
			},
			MatchText: it.Title + " " + it.Description + " " + it.Content,
		})
	}
	return items, nil
}

// sourceLabel はフィードURLのホスト名をソース表示名として使います。
func sourceLabel(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Host
}
