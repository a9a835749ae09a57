package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx_backend/internal/feature/market/domain/entity"
)

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	GetTimeSeriesFunc func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	Calls             int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	m.Calls++
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, symbol, interval, outputsize)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

func TestMarketUsecase_FetchCandles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sample := []entity.Candle{
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1.0950},
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1.1000},
	}

	tests := []struct {
		name           string
		pair           string
		lookbackDays   int
		interval       string
		mockFunc       func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
		want           []entity.Candle
		wantRepoCalled bool
	}{
		{
			name:         "success: pair mapped to provider symbol",
			pair:         "EURUSD",
			lookbackDays: 3,
			interval:     "1day",
			mockFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, "EUR/USD", symbol)
				assert.Equal(t, "1day", interval)
				assert.GreaterOrEqual(t, outputsize, 2)
				return sample, nil
			},
			want:           sample,
			wantRepoCalled: true,
		},
		{
			name:         "provider failure absorbed into empty result",
			pair:         "GBPUSD",
			lookbackDays: 3,
			interval:     "1day",
			mockFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, errors.New("network down")
			},
			want:           nil,
			wantRepoCalled: true,
		},
		{
			name:           "bad pair format never hits the provider",
			pair:           "EUR",
			lookbackDays:   3,
			interval:       "1day",
			want:           nil,
			wantRepoCalled: false,
		},
		{
			name:         "hourly interval requests a larger window",
			pair:         "USDJPY",
			lookbackDays: 3,
			interval:     "1h",
			mockFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, "1h", interval)
				// 3日 x 24本 + 余裕
				assert.GreaterOrEqual(t, outputsize, 72)
				return sample, nil
			},
			want:           sample,
			wantRepoCalled: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockMarketRepository{GetTimeSeriesFunc: tt.mockFunc}
			mu := NewMarketUsecase(repo, nil, tt.interval)

			got := mu.FetchCandles(ctx, tt.pair, tt.lookbackDays)

			assert.Equal(t, tt.want, got)
			if tt.wantRepoCalled {
				assert.Equal(t, 1, repo.Calls)
			} else {
				assert.Zero(t, repo.Calls)
			}
		})
	}
}

func TestNewMarketUsecase_DefaultInterval(t *testing.T) {
	t.Parallel()

	repo := &mockMarketRepository{
		GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
			assert.Equal(t, DefaultInterval, interval)
			return nil, nil
		},
	}
	mu := NewMarketUsecase(repo, nil, "")

	got := mu.FetchCandles(context.Background(), "EURUSD", 3)
	require.Empty(t, got)
	assert.Equal(t, 1, repo.Calls)
}

func TestOutputSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		interval string
		days     int
		wantMin  int
	}{
		{"1day", 3, 3},
		{"1day", 1, 2}, // 最低2本は要求する
		{"1h", 2, 48},
		{"4h", 2, 12},
	}
	for _, tt := range tests {
		tt := tt
		got := outputSize(tt.interval, tt.days)
		assert.GreaterOrEqual(t, got, tt.wantMin, "interval=%s days=%d", tt.interval, tt.days)
	}
}
