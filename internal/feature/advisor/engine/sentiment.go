package engine

import (
	"strings"

	"github.com/jonreiter/govader"
)

// VaderScorer はVADER語彙ベースの極性判定です。見出し程度の短い
// 英文テキストを想定しています。
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ Scorer = (*VaderScorer)(nil)

// NewVaderScorer は組み込み語彙で初期化したVaderScorerを生成します。
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score は compound スコア（[-1.0, +1.0]）を返します。
// 空文字は0.0です。
func (v *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}
	return v.analyzer.PolarityScores(text).Compound
}
