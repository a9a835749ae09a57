package router

import (
	"github.com/gin-gonic/gin"

	advisorhandler "fx_backend/internal/feature/advisor/transport/handler"
	platformhandler "fx_backend/internal/platform/http/handler"
)

func NewRouter(advisor *advisorhandler.AdvisorHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/health", platformhandler.Health)
	r.HEAD("/health", platformhandler.Health)
	r.GET("/healthz", platformhandler.Health)

	// パイプラインを実行して推奨を返す
	r.GET("/run", advisor.Run)
	// キャッシュ済み推奨の参照
	r.GET("/history", advisor.History)
	r.GET("/recommendations", advisor.List)
	// 実行トレースの監査用参照
	r.GET("/traces", advisor.Traces)

	return r
}
