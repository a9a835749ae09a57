package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"fx_backend/internal/feature/market/adapters/twelvedata/dto"
	"fx_backend/internal/feature/market/domain/entity"
	"fx_backend/internal/feature/market/usecase"
)

type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// GetTimeSeries は Twelve Data API から為替の時系列データを取得し、
// entity.Candle のスライスとして昇順（古い順）で返します。
//
// 数値や日時が壊れている行は行単位でスキップし、取得全体は失敗させません。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	q.Set("apikey", t.cfg.APIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		c, err := parseRow(v.Datetime, v.Open, v.High, v.Low, v.Close, v.Volume)
		if err != nil {
			// 壊れた行は捨てて続行する
			slog.Warn("skipping malformed candle row", "symbol", symbol, "datetime", v.Datetime, "error", err)
			continue
		}
		candles = append(candles, c)
	}

	// APIは新しい順で返すため昇順に並べ替える
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return candles, nil
}

// parseRow は文字列フィールドを1本のローソク足に変換します。
func parseRow(datetime, open, high, low, closeP, volume string) (entity.Candle, error) {
	tm, err := time.Parse("2006-01-02 15:04:05", datetime)
	if err != nil {
		tm, err = time.Parse("2006-01-02", datetime)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse time %q: %w", datetime, err)
		}
	}
	o, err := strconv.ParseFloat(open, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", open, err)
	}
	h, err := strconv.ParseFloat(high, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", high, err)
	}
	l, err := strconv.ParseFloat(low, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", low, err)
	}
	c, err := strconv.ParseFloat(closeP, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", closeP, err)
	}

	// 為替は出来高が無いことが多いので欠落は0扱い
	var vol float64
	if volume != "" {
		vol, err = strconv.ParseFloat(volume, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", volume, err)
		}
	}

	candle := entity.Candle{Time: tm.UTC(), Open: o, High: h, Low: l, Close: c, Volume: vol}
	if !candle.Valid() {
		return entity.Candle{}, fmt.Errorf("structurally invalid candle at %q", datetime)
	}
	return candle, nil
}
