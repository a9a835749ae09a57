// Package entity defines the domain models for the advisor feature.
package entity

import (
	"fmt"
	"math"

	newsentity "fx_backend/internal/feature/news/domain/entity"
)

// Stance は売買の方向性を表すシグナルです。
type Stance string

const (
	StanceBuy   Stance = "BUY"
	StanceSell  Stance = "SELL"
	StanceAvoid Stance = "AVOID"
)

// HorizonHours は推奨の想定保有期間（固定24時間）です。
const HorizonHours = 24

// Recommendation is the final output of one pipeline run: a directional
// stance with a confidence score and a human-readable rationale trail.
// Immutable after construction; cached by pair with last-write-wins.
type Recommendation struct {
	Pair         string                `json:"pair"`
	Stance       Stance                `json:"stance"`
	Confidence   float64               `json:"confidence"`
	HorizonHours int                   `json:"horizon_hours"`
	Rationale    []string              `json:"rationale"`
	News         []newsentity.NewsItem `json:"news"`
}

// Validate は推奨が構造的に妥当かを検査します。
// 信頼性ラッパーが試行結果を採用する前に呼びます。
func (r Recommendation) Validate() error {
	if r.Pair == "" {
		return fmt.Errorf("recommendation missing pair")
	}
	switch r.Stance {
	case StanceBuy, StanceSell, StanceAvoid:
	default:
		return fmt.Errorf("unknown stance %q", r.Stance)
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", r.Confidence)
	}
	if r.HorizonHours <= 0 {
		return fmt.Errorf("horizon_hours must be positive, got %d", r.HorizonHours)
	}
	return nil
}
