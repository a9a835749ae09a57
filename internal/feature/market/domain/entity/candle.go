// Package entity defines the domain models for the market feature.
package entity

import (
	"math"
	"time"
)

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for a currency pair at a specific time interval. Sequences of candles are
// always ordered ascending by time: the last element is "today" and the
// second-to-last is "yesterday".
type Candle struct {
	Time   time.Time `json:"time"`   // Timestamp for the start of this candle period (UTC)
	Open   float64   `json:"open"`   // Opening price
	High   float64   `json:"high"`   // Highest price during this period
	Low    float64   `json:"low"`    // Lowest price during this period
	Close  float64   `json:"close"`  // Closing price
	Volume float64   `json:"volume"` // Traded volume, 0 when the provider reports none
}

// Valid reports whether the candle passes structural validation:
// all prices finite, volume non-negative, timestamp set.
func (c Candle) Valid() bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if math.IsNaN(c.Volume) || c.Volume < 0 {
		return false
	}
	return !c.Time.IsZero()
}
