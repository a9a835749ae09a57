package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	advisorentity "fx_backend/internal/feature/advisor/domain/entity"
	"fx_backend/internal/feature/mail/domain/entity"
	newsentity "fx_backend/internal/feature/news/domain/entity"
)

// mockTransport はTransportインターフェースのモック実装です。
type mockTransport struct {
	SendFunc func(subject, body, recipient string) error
	Calls    int
}

func (m *mockTransport) Send(subject, body, recipient string) error {
	m.Calls++
	if m.SendFunc != nil {
		return m.SendFunc(subject, body, recipient)
	}
	return nil
}

func digestRecommendation() advisorentity.Recommendation {
	ts := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	return advisorentity.Recommendation{
		Pair:         "EURUSD",
		Stance:       advisorentity.StanceBuy,
		Confidence:   0.80,
		HorizonHours: advisorentity.HorizonHours,
		Rationale:    []string{"Daily move 0.0050", "This is not financial advice."},
		News: []newsentity.NewsItem{
			{Title: "ECB signals rate hike soon", URL: "https://example.com/ecb", Timestamp: ts, Source: "example.com"},
		},
	}
}

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	subject, body := BuildDigest(digestRecommendation())

	assert.Equal(t, "Daily Forex Strategy — EURUSD — BUY", subject)
	assert.Contains(t, body, "Pair: EURUSD\n")
	assert.Contains(t, body, "Stance: BUY\n")
	assert.Contains(t, body, "Confidence: 0.80\n")
	assert.Contains(t, body, "Rationale:\n- Daily move 0.0050\n- This is not financial advice.\n")
	assert.Contains(t, body, "News Highlights:\n")
	assert.Contains(t, body, "• ECB signals rate hike soon — example.com (https://example.com/ecb)\n")
}

// TestBuildDigest_NewsFallbacks は欠損フィールドの既定表示を検証します。
func TestBuildDigest_NewsFallbacks(t *testing.T) {
	t.Parallel()

	rec := digestRecommendation()
	rec.News = []newsentity.NewsItem{{}}

	_, body := BuildDigest(rec)

	assert.Contains(t, body, "• No title — Unknown\n")
	assert.NotContains(t, body, "()")
}

func TestBuildDigest_AtMostFiveNewsHighlights(t *testing.T) {
	t.Parallel()

	rec := digestRecommendation()
	rec.News = nil
	for i := 0; i < 8; i++ {
		rec.News = append(rec.News, newsentity.NewsItem{Title: "headline", Source: "wire"})
	}

	_, body := BuildDigest(rec)

	assert.Equal(t, 5, strings.Count(body, "• headline"))
}

func TestBuildDigest_NoNewsSection(t *testing.T) {
	t.Parallel()

	rec := digestRecommendation()
	rec.News = nil

	_, body := BuildDigest(rec)

	assert.NotContains(t, body, "News Highlights")
}

func TestMailUsecase_Deliver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		transport      *mockTransport
		recipient      string
		dryRun         bool
		expectedStatus entity.MailStatus
		expectedCalls  int
	}{
		{
			name:           "success: delivered via transport",
			transport:      &mockTransport{},
			recipient:      "trader@example.com",
			expectedStatus: entity.StatusSent,
			expectedCalls:  1,
		},
		{
			name:           "dryrun: flag set skips transport",
			transport:      &mockTransport{},
			recipient:      "trader@example.com",
			dryRun:         true,
			expectedStatus: entity.StatusDryRun,
		},
		{
			name:           "dryrun: missing recipient",
			transport:      &mockTransport{},
			expectedStatus: entity.StatusDryRun,
		},
		{
			name:      "error: transport failure is absorbed",
			transport: &mockTransport{SendFunc: func(subject, body, recipient string) error { return errors.New("connection refused") }},
			recipient: "trader@example.com",
			// エラーは結果ステータスになるだけで呼び出し元には伝播しない
			expectedStatus: entity.StatusError,
			expectedCalls:  1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := NewMailUsecase(tt.transport, tt.recipient, tt.dryRun)

			result := u.Deliver(context.Background(), digestRecommendation())

			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.recipient, result.Recipient)
			assert.Equal(t, "Daily Forex Strategy — EURUSD — BUY", result.Subject)
			assert.Equal(t, tt.expectedCalls, tt.transport.Calls)
		})
	}
}

func TestMailUsecase_Deliver_NilTransportIsDryRun(t *testing.T) {
	t.Parallel()

	u := NewMailUsecase(nil, "trader@example.com", false)

	result := u.Deliver(context.Background(), digestRecommendation())

	assert.Equal(t, entity.StatusDryRun, result.Status)
}

func TestMailUsecase_Notify(t *testing.T) {
	t.Parallel()

	transport := &mockTransport{
		SendFunc: func(subject, body, recipient string) error {
			require.Equal(t, "trader@example.com", recipient)
			return nil
		},
	}
	u := NewMailUsecase(transport, "trader@example.com", false)

	status, recipient := u.Notify(context.Background(), digestRecommendation())

	assert.Equal(t, "sent", status)
	assert.Equal(t, "trader@example.com", recipient)
}
