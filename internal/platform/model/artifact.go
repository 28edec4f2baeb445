package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// readJSON decodes one artifact file into out.
func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}
	return nil
}

// LoadColumns reads an ordered column list artifact (a JSON string array).
func LoadColumns(path string) ([]string, error) {
	var cols []string
	if err := readJSON(path, &cols); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("column artifact %s is empty", path)
	}
	return cols, nil
}

// LoadRegressor reads a linear regression artifact from disk.
func LoadRegressor(path string) (*LinearRegressor, error) {
	var m LinearRegressor
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("regressor artifact %s has no coefficients", path)
	}
	return &m, nil
}

// LoadClassifier reads a softmax classifier artifact from disk.
func LoadClassifier(path string) (*SoftmaxClassifier, error) {
	var m SoftmaxClassifier
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	if len(m.Weights) == 0 || len(m.Weights) != len(m.Intercepts) {
		return nil, fmt.Errorf("classifier artifact %s has inconsistent shapes", path)
	}
	width := len(m.Weights[0])
	for c, row := range m.Weights {
		if len(row) != width {
			return nil, fmt.Errorf("classifier artifact %s: class %d row width mismatch", path, c)
		}
	}
	return &m, nil
}

// LoadScaler reads a standard scaler artifact from disk.
func LoadScaler(path string) (*StandardScaler, error) {
	var s StandardScaler
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler artifact %s has inconsistent shapes", path)
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return nil, fmt.Errorf("scaler artifact %s: zero scale at column %d", path, i)
		}
	}
	return &s, nil
}
