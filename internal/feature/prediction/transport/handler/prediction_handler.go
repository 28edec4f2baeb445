// Package handler はpredictionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"predict_backend/internal/api"
	"predict_backend/internal/feature/prediction/domain/entity"
	"predict_backend/internal/feature/prediction/usecase"
	jwtmw "predict_backend/internal/platform/jwt"
)

// PredictionUsecase は予測パイプラインと履歴参照のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type PredictionUsecase interface {
	PredictHouse(ctx context.Context, userID uint, payload map[string]any) (*usecase.HouseResult, error)
	PredictDiabetes(ctx context.Context, userID uint, payload map[string]any) (*usecase.DiabetesResult, error)
	History(ctx context.Context, userID uint, limit, skip int) ([]*entity.Prediction, int64, error)
	UserStats(ctx context.Context, userID uint) (*usecase.Stats, error)
}

// PredictionHandler は予測・履歴・統計のHTTPリクエストを処理します。
// 全ルートは認可ミドルウェアの背後に配置されます。
type PredictionHandler struct {
	uc PredictionUsecase
}

// NewPredictionHandler はPredictionHandlerの新しいインスタンスを生成します。
func NewPredictionHandler(uc PredictionUsecase) *PredictionHandler {
	return &PredictionHandler{uc: uc}
}

// PredictHouse は住宅価格予測APIエンドポイントを処理します。
//
// エンドポイント: POST /api/predict/house
func (h *PredictionHandler) PredictHouse(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Missing required fields"})
		return
	}

	result, err := h.uc.PredictHouse(c.Request.Context(), user.ID, payload)
	if err != nil {
		h.writePredictionError(c, err, "house")
		return
	}

	c.JSON(http.StatusOK, api.HousePredictionResponse{
		Success:        true,
		Prediction:     result.Value,
		FormattedPrice: result.FormattedPrice,
		PredictionID:   result.PredictionID,
	})
}

// PredictDiabetes は糖尿病リスク分類APIエンドポイントを処理します。
//
// エンドポイント: POST /api/predict/diabetes
func (h *PredictionHandler) PredictDiabetes(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Model not available"})
		return
	}

	result, err := h.uc.PredictDiabetes(c.Request.Context(), user.ID, payload)
	if err != nil {
		h.writePredictionError(c, err, "diabetes")
		return
	}

	c.JSON(http.StatusOK, api.DiabetesPredictionResponse{
		Success:    true,
		Prediction: result.Class,
		Result:     result.ResultText,
		Confidence: result.Confidence,
		Probabilities: api.ProbabilityBreakdown{
			NoDiabetes:  result.Probabilities.NoDiabetes,
			Prediabetes: result.Probabilities.Prediabetes,
			Diabetes:    result.Probabilities.Diabetes,
		},
		PredictionID: result.PredictionID,
	})
}

// History は予測履歴APIエンドポイントを処理します。
//
// エンドポイント: GET /api/user/predictions?limit=&skip=
func (h *PredictionHandler) History(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	records, total, err := h.uc.History(c.Request.Context(), user.ID, limit, skip)
	if err != nil {
		slog.Error("prediction history failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
		return
	}

	out := make([]api.PredictionRecord, 0, len(records))
	for _, p := range records {
		out = append(out, toPredictionRecord(p))
	}
	c.JSON(http.StatusOK, api.PredictionsResponse{
		Success:     true,
		Predictions: out,
		TotalCount:  total,
	})
}

// Stats はユーザー統計APIエンドポイントを処理します。
//
// エンドポイント: GET /api/user/stats
func (h *PredictionHandler) Stats(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	stats, err := h.uc.UserStats(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("user stats failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
		return
	}

	c.JSON(http.StatusOK, api.StatsResponse{
		Success: true,
		Stats: api.UserStats{
			TotalPredictions: stats.TotalPredictions,
			MonthPredictions: stats.MonthPredictions,
		},
	})
}

// writePredictionError はパイプラインのエラー種別をHTTPステータスへ対応付けます。
// バリデーション・モデル未ロードは400、それ以外は内部を漏らさず500にします。
func (h *PredictionHandler) writePredictionError(c *gin.Context, err error, model string) {
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: vErr.Message})
		return
	}
	if errors.Is(err, usecase.ErrModelUnavailable) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Success: false, Message: "Model not available"})
		return
	}
	slog.Error("prediction failed", "error", err, "model", model, "remote_addr", c.ClientIP())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: "An unexpected error occurred"})
}

// toPredictionRecord は予測エンティティを外部向け表現へ変換します。
func toPredictionRecord(p *entity.Prediction) api.PredictionRecord {
	return api.PredictionRecord{
		ID:             p.ID,
		UserID:         p.UserID,
		PredictionType: p.PredictionType,
		InputData:      rawOrEmpty(p.InputData),
		PredictedValue: p.PredictedValue,
		Metadata:       rawOrEmpty(p.Metadata),
		CreatedAt:      p.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// rawOrEmpty は未設定のJSONカラムを空オブジェクトとして返します。
func rawOrEmpty(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(b)
}
