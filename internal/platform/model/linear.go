// Package model provides the serving collaborators for pre-trained models
// loaded from disk. The numeric internals are deliberately small: inference
// is a dot product over a fixed-order feature vector.
package model

import (
	"fmt"
	"math"
)

// LinearRegressor predicts a continuous value from a feature vector.
type LinearRegressor struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Predict returns the regression output for features in schema column order.
func (m *LinearRegressor) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}
	out := m.Intercept
	for i, f := range features {
		out += m.Coefficients[i] * f
	}
	return out, nil
}

// SoftmaxClassifier predicts a class index and a probability distribution
// over classes from a feature vector.
type SoftmaxClassifier struct {
	// Weights holds one coefficient row per class.
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// Predict returns the index of the most probable class.
func (m *SoftmaxClassifier) Predict(features []float64) (int, error) {
	probs, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, nil
}

// PredictProba returns the full probability distribution over classes.
func (m *SoftmaxClassifier) PredictProba(features []float64) ([]float64, error) {
	if len(m.Weights) == 0 || len(m.Weights) != len(m.Intercepts) {
		return nil, fmt.Errorf("classifier has %d weight rows but %d intercepts", len(m.Weights), len(m.Intercepts))
	}

	logits := make([]float64, len(m.Weights))
	for c, row := range m.Weights {
		if len(row) != len(features) {
			return nil, fmt.Errorf("class %d expects %d features, got %d", c, len(row), len(features))
		}
		z := m.Intercepts[c]
		for i, f := range features {
			z += row[i] * f
		}
		logits[c] = z
	}

	// Softmax with max subtraction for numerical stability.
	maxLogit := logits[0]
	for _, z := range logits[1:] {
		if z > maxLogit {
			maxLogit = z
		}
	}
	var sum float64
	probs := make([]float64, len(logits))
	for i, z := range logits {
		probs[i] = math.Exp(z - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs, nil
}

// StandardScaler normalizes a feature vector column-wise.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns (x - mean) / scale for every column.
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler fitted on %d columns, got %d features", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, f := range features {
		out[i] = (f - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
