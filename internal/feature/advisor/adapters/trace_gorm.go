package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fx_backend/internal/feature/advisor/domain"
	"fx_backend/internal/feature/advisor/domain/entity"
	"fx_backend/internal/feature/advisor/usecase"
)

type traceGorm struct {
	db *gorm.DB
}

var _ usecase.TraceRepository = (*traceGorm)(nil)

func NewTraceRepository(db *gorm.DB) *traceGorm {
	return &traceGorm{db: db}
}

// TraceModel は1回のパイプライン実行の監査レコードです。
// ステップ列や推奨はスキーマ変更なしで進化できるよう Payload にJSONで保持します。
type TraceModel struct {
	RunID      string    `gorm:"primaryKey;size:64"`
	Pair       string    `gorm:"size:16;not null;index:trace_pair_started,priority:1"`
	Status     string    `gorm:"size:16;not null"`
	StartedAt  time.Time `gorm:"not null;index:trace_pair_started,priority:2"`
	FinishedAt time.Time `gorm:"not null"`
	// HasRecommendation はJSONを開かずに失敗実行を絞り込むための列です。
	HasRecommendation bool   `gorm:"not null"`
	Payload           []byte `gorm:"type:blob;not null"`
}

func (TraceModel) TableName() string {
	return "traces"
}

func toTraceModel(t *entity.Trace) (TraceModel, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return TraceModel{}, fmt.Errorf("marshal trace %s: %w", t.RunID, err)
	}
	return TraceModel{
		RunID:             t.RunID,
		Pair:              t.Pair,
		Status:            string(t.Status),
		StartedAt:         t.StartedAt,
		FinishedAt:        t.FinishedAt,
		HasRecommendation: t.Recommendation != nil,
		Payload:           payload,
	}, nil
}

func fromTraceModel(m TraceModel) (*entity.Trace, error) {
	var t entity.Trace
	if err := json.Unmarshal(m.Payload, &t); err != nil {
		return nil, fmt.Errorf("unmarshal trace %s: %w", m.RunID, err)
	}
	return &t, nil
}

// Save はトレースを追記専用で永続化します。実行レコードは監査証跡なので
// 同じ RunID の上書きはエラーになります。
func (r *traceGorm) Save(ctx context.Context, trace *entity.Trace) error {
	m, err := toTraceModel(trace)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRun, trace.RunID)
		}
		return err
	}
	return nil
}

func (r *traceGorm) FindByRunID(ctx context.Context, runID string) (*entity.Trace, error) {
	var m TraceModel
	if err := r.db.WithContext(ctx).First(&m, "run_id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTraceNotFound, runID)
		}
		return nil, err
	}
	return fromTraceModel(m)
}

// FindByPair は指定ペアの実行履歴を新しい順に返します。limit が0以下なら全件。
func (r *traceGorm) FindByPair(ctx context.Context, pair string, limit int) ([]*entity.Trace, error) {
	var rows []TraceModel
	q := r.db.WithContext(ctx).
		Where("pair = ?", pair).
		Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Trace, 0, len(rows))
	for _, m := range rows {
		t, err := fromTraceModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
