package router

import (
	"github.com/gin-gonic/gin"

	authhandler "predict_backend/internal/feature/auth/transport/handler"
	predictionhandler "predict_backend/internal/feature/prediction/transport/handler"
	"predict_backend/internal/platform/http/handler"
)

// NewRouter は全ルートを登録したgin.Engineを生成します。
// 保護対象ルートはすべてauthMWの背後に配置され、ミドルウェアを経由せずに
// ハンドラーへ到達する経路はありません。
func NewRouter(auth *authhandler.AuthHandler, user *authhandler.UserHandler,
	prediction *predictionhandler.PredictionHandler, authMW gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 認証API
	r.POST("/api/auth/signup", auth.Signup)
	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/logout", auth.Logout)

	// 認証必須のページルート
	pages := r.Group("/")
	pages.Use(authMW)
	{
		pages.GET("/dashboard", user.Page)
		pages.GET("/house-predictor", user.Page)
		pages.GET("/diabetes-predictor", user.Page)
		pages.GET("/history", user.Page)
		pages.GET("/settings", user.Page)
	}

	// 認証必須のAPIルート
	apiGroup := r.Group("/api")
	apiGroup.Use(authMW)
	{
		apiGroup.POST("/predict/house", prediction.PredictHouse)
		apiGroup.POST("/predict/diabetes", prediction.PredictDiabetes)
		apiGroup.GET("/user/predictions", prediction.History)
		apiGroup.GET("/user/stats", prediction.Stats)
		apiGroup.PUT("/user/update", user.Update)
		apiGroup.DELETE("/user/delete", user.Delete)
	}

	return r
}
