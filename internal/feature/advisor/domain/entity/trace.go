package entity

import "time"

// TraceStatus はパイプライン実行全体の結果です。
type TraceStatus string

const (
	StatusSuccess TraceStatus = "success"
	StatusError   TraceStatus = "error"
)

// TraceStep はパイプライン1段階の記録です。ステップ固有のフィールドは
// 該当する場合のみ設定されます。
type TraceStep struct {
	Step           string    `json:"step"`
	TS             time.Time `json:"ts"`
	Stance         Stance    `json:"stance,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"`
	RationaleCount int       `json:"rationale_count,omitempty"`
	NewsCount      int       `json:"news_count,omitempty"`
	MailStatus     string    `json:"mail_status,omitempty"`
	Recipient      string    `json:"recipient,omitempty"`
}

// Trace は1回のパイプライン実行の監査記録です。実行開始時に生成し、
// 各段階の完了ごとに追記し、成功・失敗を問わず最後に一度だけ
// run_id をキーとして永続化します。永続化後は変更しません。
//
// 永続化されたTraceは埋め込まれたRecommendationのコピーを所有します。
type Trace struct {
	RunID          string          `json:"run_id"`
	Pair           string          `json:"pair"`
	StartedAt      time.Time       `json:"started_at"`
	Steps          []TraceStep     `json:"steps"`
	FinishedAt     time.Time       `json:"finished_at"`
	Status         TraceStatus     `json:"status"`
	Error          string          `json:"error,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// AddStep はステップ記録を末尾に追加します。
func (t *Trace) AddStep(s TraceStep) {
	t.Steps = append(t.Steps, s)
}
