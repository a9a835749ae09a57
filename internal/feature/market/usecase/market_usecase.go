// Package usecase は為替ローソク足取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"fx_backend/internal/feature/market/domain/entity"
	"fx_backend/internal/shared/ratelimiter"
)

const (
	// DefaultInterval はローソク足取得のデフォルト時間間隔です。
	DefaultInterval = "1day"
	// minOutputSize は判定に最低限必要な本数（昨日+今日）です。
	minOutputSize = 2
)

// MarketRepository は為替データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// marketUsecase は直近のローソク足ウィンドウ取得のユースケースを定義します。
type marketUsecase struct {
	market      MarketRepository
	rateLimiter ratelimiter.RateLimiterInterface
	interval    string
}

// NewMarketUsecase はmarketUsecaseの新しいインスタンスを生成します。
// interval が空の場合は DefaultInterval を使用します。
func NewMarketUsecase(market MarketRepository, rateLimiter ratelimiter.RateLimiterInterface, interval string) *marketUsecase {
	if interval == "" {
		interval = DefaultInterval
	}
	return &marketUsecase{market: market, rateLimiter: rateLimiter, interval: interval}
}

// FetchCandles は指定ペアの直近 lookbackDays 日分のローソク足を昇順で返します。
//
// プロバイダ側の完全な失敗（ネットワークエラー、空データ）はエラーにせず
// 空スライスとして吸収します。呼び出し側は空や1本のみの結果を
// 「データ不足」として扱い、エラーとしては扱いません。
func (mu *marketUsecase) FetchCandles(ctx context.Context, pair string, lookbackDays int) []entity.Candle {
	symbol := toProviderSymbol(pair)
	if symbol == "" {
		slog.Warn("unrecognized pair format, skipping market fetch", "pair", pair)
		return nil
	}
	if lookbackDays <= 0 {
		lookbackDays = 1
	}

	if mu.rateLimiter != nil {
		mu.rateLimiter.WaitIfNeeded()
	}

	cs, err := mu.market.GetTimeSeries(ctx, symbol, mu.interval, outputSize(mu.interval, lookbackDays))
	if err != nil {
		// 劣化した取得はログのみ。判定段に縮退シグナルとして渡す。
		slog.Warn("market fetch degraded", "pair", pair, "interval", mu.interval, "error", err)
		return nil
	}
	return cs
}

// toProviderSymbol は "EURUSD" を Twelve Data の "EUR/USD" 形式に変換します。
func toProviderSymbol(pair string) string {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if len(p) != 6 {
		return ""
	}
	return p[:3] + "/" + p[3:]
}

// outputSize は時間間隔と遡及日数から要求本数を見積もります。
func outputSize(interval string, days int) int {
	perDay := 1
	switch interval {
	case "1h":
		perDay = 24
	case "4h":
		perDay = 6
	case "1day":
		perDay = 1
	}
	// 市場休日で欠ける分の余裕を少し持たせる
	size := int(float64(days*perDay) * 1.1)
	if size < minOutputSize {
		size = minOutputSize
	}
	return size
}
