package di

import (
	"log"
	"log/slog"

	"predict_backend/internal/platform/config"
	"predict_backend/internal/platform/model"
)

// Models bundles the serving collaborators loaded at startup. They are
// read-only after loading. A nil collaborator means that model's endpoint is
// unavailable.
type Models struct {
	HouseRegressor *model.LinearRegressor
	HouseColumns   []string

	DiabetesClassifier *model.SoftmaxClassifier
	DiabetesScaler     *model.StandardScaler
	DiabetesColumns    []string
}

// LoadModels reads all model artifacts from the configured paths.
// The house column schema is mandatory; individual models degrade to nil
// with a warning, matching how the endpoints report availability.
func LoadModels(cfg *config.Config) *Models {
	m := &Models{}

	cols, err := model.LoadColumns(cfg.ModelColumnsPath)
	if err != nil {
		log.Fatalf("failed to load house model columns: %v", err)
	}
	m.HouseColumns = cols

	if reg, err := model.LoadRegressor(cfg.ModelPath); err != nil {
		slog.Warn("house price model unavailable", "error", err)
	} else {
		m.HouseRegressor = reg
		slog.Info("house price model loaded", "columns", len(m.HouseColumns))
	}

	diabetesCols, err := model.LoadColumns(cfg.DiabetesColumnsPath)
	if err != nil {
		slog.Warn("diabetes model columns unavailable", "error", err)
	} else {
		m.DiabetesColumns = diabetesCols
	}

	clf, clfErr := model.LoadClassifier(cfg.DiabetesModelPath)
	scaler, scalerErr := model.LoadScaler(cfg.DiabetesScalerPath)
	if clfErr != nil || scalerErr != nil {
		// 片方でも欠けると診断エンドポイントは利用不可になる
		slog.Warn("diabetes model unavailable", "classifier_error", clfErr, "scaler_error", scalerErr)
	} else {
		m.DiabetesClassifier = clf
		m.DiabetesScaler = scaler
		slog.Info("diabetes model loaded", "columns", len(m.DiabetesColumns))
	}

	return m
}
