// Package usecase は推奨パイプラインのオーケストレーションを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fx_backend/internal/feature/advisor/domain/entity"
	marketentity "fx_backend/internal/feature/market/domain/entity"
	newsentity "fx_backend/internal/feature/news/domain/entity"
)

// DefaultLookbackDays はローソク足取得の既定の遡及日数です。
const DefaultLookbackDays = 3

// MarketFetcher は直近ローソク足の取得を抽象化します。取得の劣化は
// 実装側で空スライスに吸収されます。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketFetcher interface {
	FetchCandles(ctx context.Context, pair string, lookbackDays int) []marketentity.Candle
}

// NewsFetcher は通貨コードに関する直近ニュースの取得を抽象化します。
type NewsFetcher interface {
	FetchNews(ctx context.Context, currency string) []newsentity.NewsItem
}

// Decider はローソク足とニュースから推奨を組み立てます。エラーは返しません。
type Decider interface {
	Decide(pair string, candles []marketentity.Candle, news []newsentity.NewsItem) entity.Recommendation
}

// Notifier は推奨のダイジェスト通知を抽象化します。送信失敗は
// ステータス文字列（sent/dryrun/error）に吸収され、エラーは返しません。
type Notifier interface {
	Notify(ctx context.Context, rec entity.Recommendation) (status, recipient string)
}

// TraceRepository は実行トレースの永続化を抽象化します。
type TraceRepository interface {
	Save(ctx context.Context, trace *entity.Trace) error
}

// PipelineUsecase は Fetch→Decide→Notify を順に実行し、構造化トレースを
// 組み立てて永続化するオーケストレータです。
type PipelineUsecase struct {
	market       MarketFetcher
	news         NewsFetcher
	decider      Decider
	notifier     Notifier
	traces       TraceRepository
	lookbackDays int

	// テストで固定するためのフック
	now      func() time.Time
	newRunID func() string
}

// NewPipelineUsecase はPipelineUsecaseの新しいインスタンスを生成します。
func NewPipelineUsecase(market MarketFetcher, news NewsFetcher, decider Decider, notifier Notifier, traces TraceRepository, lookbackDays int) *PipelineUsecase {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &PipelineUsecase{
		market:       market,
		news:         news,
		decider:      decider,
		notifier:     notifier,
		traces:       traces,
		lookbackDays: lookbackDays,
		now:          time.Now,
		newRunID:     func() string { return uuid.NewString() },
	}
}

// RunOnce は1ペア分のパイプラインを実行します。
//
// 実行ごとに新しいrun_idのトレースを生成し、成功・失敗を問わず
// 返却前に一度だけ永続化します。予期しない障害はトレースに
// status=error として捕捉され、呼び出し側へは伝播しません。
// 推奨はステージ失敗より前に生成されていた場合のみトレースに残ります。
func (p *PipelineUsecase) RunOnce(ctx context.Context, pair string) (trace *entity.Trace) {
	trace = &entity.Trace{
		RunID:     p.newRunID(),
		Pair:      pair,
		StartedAt: p.now().UTC(),
	}

	defer func() {
		if r := recover(); r != nil {
			trace.Status = entity.StatusError
			trace.Error = fmt.Sprintf("%v", r)
			trace.FinishedAt = p.now().UTC()
			slog.Error("pipeline run failed", "run_id", trace.RunID, "pair", pair, "error", trace.Error)
		}
		// 成功でも失敗でもトレースは必ず一度だけ永続化する。
		// 永続化自体の失敗は実行を失敗扱いにしない。
		if err := p.traces.Save(ctx, trace); err != nil {
			slog.Error("failed to persist trace", "run_id", trace.RunID, "error", err)
		}
	}()

	slog.Info("starting pipeline", "run_id", trace.RunID, "pair", pair)
	trace.AddStep(entity.TraceStep{Step: "strategy_start", TS: p.now().UTC()})

	candles := p.market.FetchCandles(ctx, pair, p.lookbackDays)
	news := p.news.FetchNews(ctx, currencyCode(pair))

	rec := p.decider.Decide(pair, candles, news)

	// トレースは推奨のコピーを所有する
	recCopy := rec
	trace.Recommendation = &recCopy

	trace.AddStep(entity.TraceStep{
		Step:           "strategy_end",
		TS:             p.now().UTC(),
		Stance:         rec.Stance,
		Confidence:     rec.Confidence,
		RationaleCount: len(rec.Rationale),
		NewsCount:      len(rec.News),
	})

	trace.AddStep(entity.TraceStep{Step: "notify_start", TS: p.now().UTC()})
	status, recipient := p.notifier.Notify(ctx, rec)
	trace.AddStep(entity.TraceStep{
		Step:       "notify_end",
		TS:         p.now().UTC(),
		MailStatus: status,
		Recipient:  recipient,
	})

	trace.Status = entity.StatusSuccess
	trace.FinishedAt = p.now().UTC()
	slog.Info("pipeline completed", "run_id", trace.RunID, "pair", pair, "stance", rec.Stance, "confidence", rec.Confidence)
	return trace
}

// RunForPairs は複数ペアを順に実行します。あるペアの失敗は
// 後続のペアの実行を妨げません。
func (p *PipelineUsecase) RunForPairs(ctx context.Context, pairs []string) []*entity.Trace {
	traces := make([]*entity.Trace, 0, len(pairs))
	for _, pair := range pairs {
		traces = append(traces, p.RunOnce(ctx, pair))
	}
	return traces
}

// currencyCode はペアのベース通貨コード（例: EURUSD→EUR）を返します。
func currencyCode(pair string) string {
	if len(pair) < 3 {
		return pair
	}
	return pair[:3]
}
