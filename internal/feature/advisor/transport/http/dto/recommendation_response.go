package dto

// NewsItemResponse は推奨に添付するニュース1件のレスポンスDTOです。
type NewsItemResponse struct {
	Title     string   `json:"title"`               // 見出し
	URL       string   `json:"url,omitempty"`       // 記事URL
	Timestamp string   `json:"timestamp"`           // 公開時刻（RFC3339, UTC）
	Source    string   `json:"source,omitempty"`    // 配信元
	Sentiment *float64 `json:"sentiment,omitempty"` // センチメントスコア
}

// RecommendationResponse は推奨のレスポンスDTOです。
type RecommendationResponse struct {
	Pair         string             `json:"pair"`          // 通貨ペア
	Stance       string             `json:"stance"`        // BUY / SELL / AVOID
	Confidence   float64            `json:"confidence"`    // 確信度 [0,1]
	HorizonHours int                `json:"horizon_hours"` // 推奨の有効時間
	Rationale    []string           `json:"rationale"`     // 判断根拠
	News         []NewsItemResponse `json:"news"`          // 参照したニュース
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error   string   `json:"error"`
	Allowed []string `json:"allowed,omitempty"` // 無効ペア時に許可リストを返す
}

// MessageResponse は情報メッセージのレスポンスDTOです。
type MessageResponse struct {
	Message string `json:"message"`
}
