package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"predict_backend/internal/feature/prediction/domain/entity"
)

// PredictionRepository は予測レコードの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PredictionRepository interface {
	// Create は新しい予測レコードをストレージに永続化します。
	Create(ctx context.Context, p *entity.Prediction) error

	// ListByUser は指定ユーザーの予測履歴を新しい順に取得します。
	// limitが0以下の場合は全件、skipが正の場合は先頭を読み飛ばします。
	ListByUser(ctx context.Context, userID uint, limit, skip int) ([]*entity.Prediction, error)

	// CountByUser は指定ユーザーの予測レコード総数を返します。
	CountByUser(ctx context.Context, userID uint) (int64, error)

	// CountByUserSince は指定時刻以降に作成された予測レコード数を返します。
	CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error)

	// DeleteByUser は指定ユーザーの全予測レコードを削除し、削除件数を返します。
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

// Regressor は回帰モデルのサービング先を抽象化します。
// 特徴量ベクトルはスキーマのカラム順で渡します。
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// Classifier は分類モデルのサービング先を抽象化します。
type Classifier interface {
	// Predict は予測クラスのインデックスを返します。
	Predict(features []float64) (int, error)
	// PredictProba は全クラスに対する確率分布を返します。
	PredictProba(features []float64) ([]float64, error)
}

// Scaler は特徴量の正規化を行うサービング先を抽象化します。
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

// resultLabels はクラスインデックスを表示用ラベルへ対応付けます。
var resultLabels = map[int]string{
	0: "No Diabetes",
	1: "Prediabetes",
	2: "Diabetes",
}

// HouseResult は住宅価格予測の結果です。
type HouseResult struct {
	Value          float64
	FormattedPrice string
	PredictionID   string
}

// DiabetesProbabilities は各クラスの確率（百分率）です。
type DiabetesProbabilities struct {
	NoDiabetes  float64
	Prediabetes float64
	Diabetes    float64
}

// DiabetesResult は糖尿病リスク分類の結果です。
type DiabetesResult struct {
	Class         int
	ResultText    string
	Confidence    float64
	Probabilities DiabetesProbabilities
	PredictionID  string
}

// Stats はユーザーの予測統計です。
type Stats struct {
	TotalPredictions int64
	MonthPredictions int64
}

// predictionUsecase は予測パイプラインと履歴参照のビジネスロジックを実装します。
// カラム名→インデックスの対応表は構築時に一度だけ作り、リクエストごとに再構築しません。
type predictionUsecase struct {
	repo PredictionRepository

	regressor    Regressor
	houseColumns []string
	houseIndex   map[string]int

	classifier      Classifier
	scaler          Scaler
	diabetesColumns []string
}

// NewPredictionUsecase はpredictionUsecaseの新しいインスタンスを生成します。
// モデルが未ロードの場合はnilを渡せます。該当エンドポイントは利用不可になります。
func NewPredictionUsecase(repo PredictionRepository, regressor Regressor, houseColumns []string,
	classifier Classifier, scaler Scaler, diabetesColumns []string) *predictionUsecase {
	houseIndex := make(map[string]int, len(houseColumns))
	for i, col := range houseColumns {
		houseIndex[col] = i
	}
	return &predictionUsecase{
		repo:            repo,
		regressor:       regressor,
		houseColumns:    houseColumns,
		houseIndex:      houseIndex,
		classifier:      classifier,
		scaler:          scaler,
		diabetesColumns: diabetesColumns,
	}
}

// PredictHouse は住宅価格予測を実行し、結果を永続化して返します。
// Locationはone-hotカラム（Location_<値>）に展開されます。未知のLocation値は
// エラーにせず、全Locationカラムを0のままにします。
func (u *predictionUsecase) PredictHouse(ctx context.Context, userID uint, payload map[string]any) (*HouseResult, error) {
	for _, field := range []string{"SquareFootage", "Bedrooms", "Location"} {
		if _, ok := payload[field]; !ok {
			return nil, &ValidationError{Message: "Missing required fields"}
		}
	}

	sqft, err := toFloat(payload["SquareFootage"])
	if err != nil {
		return nil, &ValidationError{Message: "Invalid value for field: SquareFootage"}
	}
	bedroomsF, err := toFloat(payload["Bedrooms"])
	if err != nil {
		return nil, &ValidationError{Message: "Invalid value for field: Bedrooms"}
	}
	bedrooms := int(bedroomsF)
	location := fmt.Sprint(payload["Location"])

	if u.regressor == nil {
		return nil, errors.New("house price model is not loaded")
	}

	// スキーマの全カラムを0で初期化した固定長ベクトルを構築
	vector := make([]float64, len(u.houseColumns))
	if i, ok := u.houseIndex["SquareFootage"]; ok {
		vector[i] = sqft
	}
	if i, ok := u.houseIndex["Bedrooms"]; ok {
		vector[i] = float64(bedrooms)
	}
	if i, ok := u.houseIndex["Location_"+location]; ok {
		vector[i] = 1
	} else {
		// 未知のLocationはエラーにせず黙って無視する（全カラム0のまま）
		slog.Debug("unknown location value", "location", location)
	}

	value, err := u.regressor.Predict(vector)
	if err != nil {
		return nil, fmt.Errorf("house prediction failed: %w", err)
	}

	inputData, err := json.Marshal(map[string]any{
		"SquareFootage": payload["SquareFootage"],
		"Bedrooms":      payload["Bedrooms"],
		"Location":      payload["Location"],
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode input data: %w", err)
	}

	record := &entity.Prediction{
		UserID:         userID,
		PredictionType: entity.TypeHouse,
		InputData:      inputData,
		PredictedValue: value,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	return &HouseResult{
		Value:          value,
		FormattedPrice: "LKR " + formatAmount(value),
		PredictionID:   record.ID,
	}, nil
}

// PredictDiabetes は糖尿病リスク分類を実行し、結果を永続化して返します。
// 必須カラムはスキーマのカラム順で検証され、最初に欠けていたカラム名がエラーに含まれます。
func (u *predictionUsecase) PredictDiabetes(ctx context.Context, userID uint, payload map[string]any) (*DiabetesResult, error) {
	if u.classifier == nil || u.scaler == nil || len(u.diabetesColumns) == 0 {
		return nil, ErrModelUnavailable
	}

	vector := make([]float64, len(u.diabetesColumns))
	for i, col := range u.diabetesColumns {
		v, ok := payload[col]
		if !ok {
			return nil, newMissingFieldError(col)
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid value for field: %s", col)}
		}
		vector[i] = f
	}

	scaled, err := u.scaler.Transform(vector)
	if err != nil {
		return nil, fmt.Errorf("feature scaling failed: %w", err)
	}

	class, err := u.classifier.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("diabetes prediction failed: %w", err)
	}
	probs, err := u.classifier.PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("diabetes prediction failed: %w", err)
	}

	resultText, ok := resultLabels[class]
	if !ok {
		resultText = "Unknown"
	}
	confidence := probPct(probs, class)
	probabilities := DiabetesProbabilities{
		NoDiabetes:  probPct(probs, 0),
		Prediabetes: probPct(probs, 1),
		Diabetes:    probPct(probs, 2),
	}

	inputData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input data: %w", err)
	}
	metadata, err := json.Marshal(map[string]any{
		"result_text": resultText,
		"confidence":  confidence,
		"probabilities": map[string]float64{
			"no_diabetes": probabilities.NoDiabetes,
			"prediabetes": probabilities.Prediabetes,
			"diabetes":    probabilities.Diabetes,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	record := &entity.Prediction{
		UserID:         userID,
		PredictionType: entity.TypeDiabetes,
		InputData:      inputData,
		PredictedValue: float64(class),
		Metadata:       metadata,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	return &DiabetesResult{
		Class:         class,
		ResultText:    resultText,
		Confidence:    confidence,
		Probabilities: probabilities,
		PredictionID:  record.ID,
	}, nil
}

// History は予測履歴（新しい順）と総件数を返します。
func (u *predictionUsecase) History(ctx context.Context, userID uint, limit, skip int) ([]*entity.Prediction, int64, error) {
	if skip < 0 {
		skip = 0
	}
	records, err := u.repo.ListByUser(ctx, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list predictions: %w", err)
	}
	total, err := u.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return records, total, nil
}

// UserStats は総予測数と今月（UTC）の予測数を返します。
func (u *predictionUsecase) UserStats(ctx context.Context, userID uint) (*Stats, error) {
	total, err := u.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}

	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	month, err := u.repo.CountByUserSince(ctx, userID, startOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}

	return &Stats{TotalPredictions: total, MonthPredictions: month}, nil
}

// probPct は指定インデックスの確率を百分率で返します。範囲外は0です。
func probPct(probs []float64, i int) float64 {
	if i < 0 || i >= len(probs) {
		return 0
	}
	return probs[i] * 100
}

// toFloat はJSONペイロードのスカラー値をfloat64へ変換します。
// 数値のほか、数値文字列も受け付けます。
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

// formatAmount は金額を小数2桁・3桁区切りで整形します。
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
