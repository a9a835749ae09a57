// Package engine は価格トレンドとニュースセンチメントを組み合わせた
// ルールベースの売買判定を実装します。
package engine

import (
	"fmt"
	"math"

	"fx_backend/internal/feature/advisor/domain/entity"
	marketentity "fx_backend/internal/feature/market/domain/entity"
	newsentity "fx_backend/internal/feature/news/domain/entity"
)

const (
	// flatThreshold はAVOID扱いにする終値変化の絶対値です。
	flatThreshold = 0.0005
	// trendConfidence は方向が出ているときの基本信頼度です。
	trendConfidence = 0.70
	// flatConfidence は方向が出ていないときの基本信頼度です。
	flatConfidence = 0.45
	// sentimentThreshold はセンチメントを「強い」とみなす絶対値です。
	sentimentThreshold = 0.2
	// alignBonus は価格とセンチメントが一致したときの加点です。
	alignBonus = 0.10
	// conflictPenalty は矛盾したときの減点です。加点と非対称なのは仕様です。
	conflictPenalty = 0.15
	// maxScoredNews はセンチメントを計算する記事の上限です。
	maxScoredNews = 10
	// disclaimer は常に末尾に付く免責行です。
	disclaimer = "This is not financial advice."
)

// Scorer は1本の見出しの極性を[-1.0, +1.0]で返します。
// 空文字や解析不能なテキストは0.0を返すこと。
type Scorer interface {
	Score(text string) float64
}

// Engine はDecideを提供する判定エンジンです。同じ入力と同じScorerに
// 対して常に同じ結果を返します（決定的）。
type Engine struct {
	scorer Scorer
}

// New は指定されたScorerでEngineを生成します。
func New(scorer Scorer) *Engine {
	return &Engine{scorer: scorer}
}

// Decide は直近2本のローソク足の価格差とニュースセンチメントから
// 推奨を組み立てます。個々の不正レコードではエラーを出さず、
// 使えるローソク足が2本未満の場合のみAVOIDの終端結果を返します。
func (e *Engine) Decide(pair string, candles []marketentity.Candle, news []newsentity.NewsItem) entity.Recommendation {
	// 構造的に壊れたローソク足を落とす
	valid := make([]marketentity.Candle, 0, len(candles))
	for _, c := range candles {
		if c.Valid() {
			valid = append(valid, c)
		}
	}

	if len(valid) < 2 {
		return entity.Recommendation{
			Pair:         pair,
			Stance:       entity.StanceAvoid,
			Confidence:   0.0,
			HorizonHours: entity.HorizonHours,
			Rationale:    []string{"Not enough candle data"},
			News:         []newsentity.NewsItem{},
		}
	}

	yesterday := valid[len(valid)-2]
	today := valid[len(valid)-1]
	dailyMove := today.Close - yesterday.Close
	rationale := []string{fmt.Sprintf("Daily move %.4f", dailyMove)}

	// 先頭10件を対象に、タイトル完全一致で重複排除しつつ極性を計算する
	scored := make([]newsentity.NewsItem, 0, maxScoredNews)
	var scores []float64
	seen := make(map[string]struct{})

	pool := news
	if len(pool) > maxScoredNews {
		pool = pool[:maxScoredNews]
	}
	for _, item := range pool {
		title := item.Title
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}

		s := e.scorer.Score(title)
		scores = append(scores, s)

		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		rationale = append(rationale, fmt.Sprintf("%s (%s) [Sentiment=%+.2f]", title, source, s))

		item.Sentiment = &s
		scored = append(scored, item)
	}

	avgSentiment := 0.0
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avgSentiment = sum / float64(len(scores))
	}
	rationale = append(rationale, fmt.Sprintf("Average news sentiment = %+.2f", avgSentiment))

	// 価格変化から基本スタンスを決める
	var stance entity.Stance
	var confidence float64
	if math.Abs(dailyMove) < flatThreshold {
		stance = entity.StanceAvoid
		confidence = flatConfidence
	} else if dailyMove > 0 {
		stance = entity.StanceBuy
		confidence = trendConfidence
	} else {
		stance = entity.StanceSell
		confidence = trendConfidence
	}

	// センチメントとの整合で信頼度を調整する（分岐は排他、この優先順）
	switch {
	case avgSentiment > sentimentThreshold && stance == entity.StanceBuy:
		confidence += alignBonus
		rationale = append(rationale, "Positive sentiment reinforces BUY stance.")
	case avgSentiment < -sentimentThreshold && stance == entity.StanceSell:
		confidence += alignBonus
		rationale = append(rationale, "Negative sentiment reinforces SELL stance.")
	case (avgSentiment > sentimentThreshold && stance == entity.StanceSell) ||
		(avgSentiment < -sentimentThreshold && stance == entity.StanceBuy):
		confidence -= conflictPenalty
		rationale = append(rationale, "Sentiment contradicts price action; confidence reduced.")
	default:
		rationale = append(rationale, "Neutral or mixed sentiment; no strong news influence.")
	}

	confidence = math.Max(0.0, math.Min(confidence, 1.0))
	rationale = append(rationale, disclaimer)

	return entity.Recommendation{
		Pair:         pair,
		Stance:       stance,
		Confidence:   math.Round(confidence*100) / 100,
		HorizonHours: entity.HorizonHours,
		Rationale:    rationale,
		News:         scored,
	}
}
