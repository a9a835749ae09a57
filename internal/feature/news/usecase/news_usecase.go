// Package usecase は為替関連ニュースの収集・選別ロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fx_backend/internal/feature/news/domain/entity"
)

const (
	// DefaultCutoffDays は古い記事を除外する既定の日数です。
	DefaultCutoffDays = 3
	// DefaultMatchedCap は通貨一致記事の最大返却件数です。
	DefaultMatchedCap = 15
	// DefaultFallbackCap はフォールバック時の最大返却件数です。
	DefaultFallbackCap = 10
)

// FeedItem はフィードから取得した1件の記事と、通貨マッチング用の
// 結合テキスト（タイトル+要約+本文）を保持します。
type FeedItem struct {
	News      entity.NewsItem
	MatchText string
}

// FeedRepository は単一フィードURLからの記事取得を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase)側で定義します。
type FeedRepository interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// newsUsecase は複数フィードからの収集、通貨マッチング、
// フォールバック選択のユースケースを定義します。
type newsUsecase struct {
	feeds       FeedRepository
	sources     []string
	cutoffDays  int
	matchedCap  int
	fallbackCap int
	now         func() time.Time
}

// NewNewsUsecase はnewsUsecaseの新しいインスタンスを生成します。
// cutoffDays/caps が0以下の場合は既定値を使用します。
func NewNewsUsecase(feeds FeedRepository, sources []string, cutoffDays, matchedCap, fallbackCap int) *newsUsecase {
	if cutoffDays <= 0 {
		cutoffDays = DefaultCutoffDays
	}
	if matchedCap <= 0 {
		matchedCap = DefaultMatchedCap
	}
	if fallbackCap <= 0 {
		fallbackCap = DefaultFallbackCap
	}
	return &newsUsecase{
		feeds:       feeds,
		sources:     sources,
		cutoffDays:  cutoffDays,
		matchedCap:  matchedCap,
		fallbackCap: fallbackCap,
		now:         time.Now,
	}
}

// FetchNews は指定通貨コード（例: "EUR"）に関する直近の記事を新しい順で返します。
//
// 方針:
//   - 到達不能・壊れたフィードはログに残してスキップし、全体は失敗させない
//   - cutoffDays より古い記事は一致判定にもフォールバックにも使わない
//   - 通貨コードがタイトル+要約+本文に（大文字小文字を無視して）含まれば一致
//   - 一致が0件でも直近の記事があれば、最新 fallbackCap 件を代わりに返す。
//     判定段が無信号で飢えないようにするためで、カットオフは広げない
func (nu *newsUsecase) FetchNews(ctx context.Context, currency string) []entity.NewsItem {
	keyword := strings.ToUpper(strings.TrimSpace(currency))
	cutoff := nu.now().UTC().AddDate(0, 0, -nu.cutoffDays)

	var matched []entity.NewsItem
	var recent []entity.NewsItem

	for _, url := range nu.sources {
		items, err := nu.feeds.Fetch(ctx, url)
		if err != nil {
			slog.Warn("skipping news source", "url", url, "error", err)
			continue
		}
		for _, it := range items {
			if it.News.Timestamp.Before(cutoff) {
				continue
			}
			if keyword != "" && strings.Contains(strings.ToUpper(it.MatchText), keyword) {
				matched = append(matched, it.News)
			}
			// フォールバック用には常に保持する
			recent = append(recent, it.News)
		}
	}

	if len(matched) == 0 && len(recent) > 0 {
		slog.Info("no currency-specific news, falling back to recent headlines", "currency", keyword)
		sortByTimestampDesc(recent)
		return limit(recent, nu.fallbackCap)
	}

	sortByTimestampDesc(matched)
	return limit(matched, nu.matchedCap)
}

func sortByTimestampDesc(items []entity.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
}

func limit(items []entity.NewsItem, n int) []entity.NewsItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}
