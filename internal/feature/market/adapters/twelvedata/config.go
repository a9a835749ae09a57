// Package twelvedata はTwelve Data為替市場APIのクライアントを提供します。
package twelvedata

// Config はTwelve Data APIクライアントの設定を保持します。
type Config struct {
	APIKey  string // 認証用APIキー
	BaseURL string // APIのベースURL（例: "https://api.twelvedata.com"）
}
