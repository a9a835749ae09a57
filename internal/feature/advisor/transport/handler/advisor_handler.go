// Package handler はadvisorフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fx_backend/internal/feature/advisor/domain"
	"fx_backend/internal/feature/advisor/domain/entity"
	"fx_backend/internal/feature/advisor/transport/http/dto"
	"fx_backend/internal/feature/pairs"
)

// RecommendationRunner は推奨生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RecommendationRunner interface {
	SafeRun(ctx context.Context, pair string) entity.Recommendation
}

// RecommendationStore は生成済み推奨の読み書きインターフェースを定義します。
type RecommendationStore interface {
	Put(ctx context.Context, rec entity.Recommendation)
	Get(ctx context.Context, pair string) (entity.Recommendation, bool)
	All(ctx context.Context) []entity.Recommendation
}

// TraceReader は永続化済みトレースの参照インターフェースを定義します。
type TraceReader interface {
	FindByRunID(ctx context.Context, runID string) (*entity.Trace, error)
	FindByPair(ctx context.Context, pair string, limit int) ([]*entity.Trace, error)
}

// AdvisorHandler は推奨生成と参照のHTTPリクエストを処理します。
type AdvisorHandler struct {
	runner    RecommendationRunner
	validator *pairs.Validator
	store     RecommendationStore
	traces    TraceReader
}

// NewAdvisorHandler はAdvisorHandlerの新しいインスタンスを生成します。
func NewAdvisorHandler(runner RecommendationRunner, validator *pairs.Validator, store RecommendationStore, traces TraceReader) *AdvisorHandler {
	return &AdvisorHandler{runner: runner, validator: validator, store: store, traces: traces}
}

// Run は通貨ペアを受け取り、パイプラインを実行して推奨をJSONで返します。
// 無効なペアだけが4xxになり、内部の失敗はフォールバック推奨として200で返ります。
//
// エンドポイント例:
// GET /run?pair=EURUSD
func (h *AdvisorHandler) Run(c *gin.Context) {
	raw := c.Query("pair")
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "pair query parameter is required"})
		return
	}

	pair, err := h.validator.Validate(raw)
	if err != nil {
		var ipe *pairs.InvalidPairError
		if errors.As(err, &ipe) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ipe.Error(), Allowed: ipe.Allowed})
			return
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	rec := h.runner.SafeRun(c.Request.Context(), pair)
	h.store.Put(c.Request.Context(), rec)

	c.JSON(http.StatusOK, toResponse(rec))
}

// History はキャッシュ済みの推奨を返します。pair指定時はそのペアの最新1件、
// 未指定時は全ペア分を返します。未生成のペアはエラーではなくメッセージです。
//
// エンドポイント例:
// GET /history?pair=EURUSD
func (h *AdvisorHandler) History(c *gin.Context) {
	raw := c.Query("pair")
	if raw == "" {
		h.List(c)
		return
	}

	pair, err := h.validator.Validate(raw)
	if err != nil {
		var ipe *pairs.InvalidPairError
		if errors.As(err, &ipe) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ipe.Error(), Allowed: ipe.Allowed})
			return
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	rec, ok := h.store.Get(c.Request.Context(), pair)
	if !ok {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("No data for %s", pair)})
		return
	}

	c.JSON(http.StatusOK, toResponse(rec))
}

// List はキャッシュ済みの全推奨をペア名順でJSONで返します。
//
// エンドポイント例:
// GET /recommendations
func (h *AdvisorHandler) List(c *gin.Context) {
	recs := h.store.All(c.Request.Context())

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}

	c.JSON(http.StatusOK, out)
}

// Traces は永続化済みの実行トレースを返します。run_id指定時は1件、
// pair指定時はそのペアの履歴を新しい順で返します。
//
// エンドポイント例:
// GET /traces?run_id=<uuid>
// GET /traces?pair=EURUSD&limit=20
func (h *AdvisorHandler) Traces(c *gin.Context) {
	if runID := c.Query("run_id"); runID != "" {
		trace, err := h.traces.FindByRunID(c.Request.Context(), runID)
		if err != nil {
			if errors.Is(err, domain.ErrTraceNotFound) {
				c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: fmt.Sprintf("no trace for run_id %s", runID)})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to load trace"})
			return
		}
		c.JSON(http.StatusOK, trace)
		return
	}

	raw := c.Query("pair")
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "run_id or pair query parameter is required"})
		return
	}

	pair, err := h.validator.Validate(raw)
	if err != nil {
		var ipe *pairs.InvalidPairError
		if errors.As(err, &ipe) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ipe.Error(), Allowed: ipe.Allowed})
			return
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	traces, err := h.traces.FindByPair(c.Request.Context(), pair, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to load traces"})
		return
	}

	c.JSON(http.StatusOK, traces)
}

func toResponse(rec entity.Recommendation) dto.RecommendationResponse {
	news := make([]dto.NewsItemResponse, 0, len(rec.News))
	for _, n := range rec.News {
		news = append(news, dto.NewsItemResponse{
			Title:     n.Title,
			URL:       n.URL,
			Timestamp: n.Timestamp.UTC().Format(time.RFC3339),
			Source:    n.Source,
			Sentiment: n.Sentiment,
		})
	}
	return dto.RecommendationResponse{
		Pair:         rec.Pair,
		Stance:       string(rec.Stance),
		Confidence:   rec.Confidence,
		HorizonHours: rec.HorizonHours,
		Rationale:    rec.Rationale,
		News:         news,
	}
}
