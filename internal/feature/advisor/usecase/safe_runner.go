package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"fx_backend/internal/feature/advisor/domain/entity"
	newsentity "fx_backend/internal/feature/news/domain/entity"
)

const (
	// DefaultRetries は1リクエストあたりの最大試行回数です。
	DefaultRetries = 3
	// DefaultRetryDelay は試行間の待機時間です。
	DefaultRetryDelay = time.Second
)

// PipelineRunner は1回のパイプライン実行を抽象化します。
type PipelineRunner interface {
	RunOnce(ctx context.Context, pair string) *entity.Trace
}

// SafeRunner はパイプライン実行を有界リトライと決定的フォールバックで
// 包みます。外部呼び出し側が使う唯一の入口で、常に利用可能な
// Recommendationを返すことを保証します（エラーを返しません）。
type SafeRunner struct {
	pipeline PipelineRunner
	retries  int
	delay    time.Duration

	// newBackOff は試行間の待機ポリシーを生成します。
	// テストでは待機なしのポリシーを注入します。
	newBackOff func() backoff.BackOff
	now        func() time.Time
}

// NewSafeRunner はSafeRunnerの新しいインスタンスを生成します。
// retries が0以下、delay が負の場合は既定値を使用します。
func NewSafeRunner(pipeline PipelineRunner, retries int, delay time.Duration) *SafeRunner {
	if retries <= 0 {
		retries = DefaultRetries
	}
	if delay < 0 {
		delay = DefaultRetryDelay
	}
	s := &SafeRunner{
		pipeline: pipeline,
		retries:  retries,
		delay:    delay,
		now:      time.Now,
	}
	s.newBackOff = func() backoff.BackOff {
		// 固定間隔・回数上限つき。待機はこのリクエストのゴルーチンだけを
		// ブロックし、他のリクエストには影響しない。
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(s.delay), uint64(s.retries-1))
	}
	return s
}

// SafeRun は最大 retries 回までパイプラインを実行します。
//
// トレースが success かつ構造的に妥当な推奨を持っていれば即座に
// それを返します。妥当性検査の失敗はその試行の失敗であり、呼び出し側の
// 失敗ではありません。全試行が尽きた場合は決定的なフォールバック
// 推奨（AVOID, 信頼度0.0）を返します。このメソッドは決して
// エラーを返しません。
func (s *SafeRunner) SafeRun(ctx context.Context, pair string) entity.Recommendation {
	var rec entity.Recommendation
	attempt := 0

	operation := func() error {
		attempt++
		trace := s.pipeline.RunOnce(ctx, pair)

		if trace == nil || trace.Status != entity.StatusSuccess {
			reason := "no trace"
			if trace != nil {
				reason = trace.Error
			}
			slog.Warn("pipeline attempt failed", "pair", pair, "attempt", attempt, "reason", reason)
			return fmt.Errorf("attempt %d: pipeline did not succeed", attempt)
		}
		if trace.Recommendation == nil {
			slog.Warn("successful trace carries no recommendation", "pair", pair, "attempt", attempt)
			return errors.New("trace missing recommendation")
		}
		if err := trace.Recommendation.Validate(); err != nil {
			slog.Warn("recommendation failed validation", "pair", pair, "attempt", attempt, "error", err)
			return fmt.Errorf("invalid recommendation: %w", err)
		}

		rec = *trace.Recommendation
		return nil
	}

	if err := backoff.Retry(operation, s.newBackOff()); err != nil {
		slog.Warn("all attempts exhausted, issuing fallback recommendation", "pair", pair, "attempts", attempt)
		return s.fallback(pair)
	}
	return rec
}

// fallback は全試行が失敗したときに返す安全な既定推奨です。
func (s *SafeRunner) fallback(pair string) entity.Recommendation {
	return entity.Recommendation{
		Pair:         pair,
		Stance:       entity.StanceAvoid,
		Confidence:   0.0,
		HorizonHours: entity.HorizonHours,
		Rationale: []string{
			fmt.Sprintf("Fallback recommendation issued at %s", s.now().UTC().Format(time.RFC3339)),
		},
		News: []newsentity.NewsItem{},
	}
}
