// Package entity defines the domain models for the news feature.
package entity

import "time"

// NewsItem represents a single headline pulled from a news feed.
// Sentiment is normally nil: polarity is computed on demand during the
// decision stage, not at fetch time.
type NewsItem struct {
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"` // UTC
	Source    string    `json:"source,omitempty"`
	Sentiment *float64  `json:"sentiment,omitempty"`
}
