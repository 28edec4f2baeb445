// Package api defines the shared request/response shapes for the HTTP surface.
// Every API response carries a success flag; failures add a message string.
package api

import "encoding/json"

// ErrorResponse is the common failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse is a plain success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body of PUT /api/user/update.
type UpdateUserRequest struct {
	Name *string `json:"name"`
}

// UserResponse is the externally visible user representation.
// It never includes the password hash.
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserUpdateResponse is returned after a profile update.
type UserUpdateResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// PageResponse is returned by the protected page routes.
type PageResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// HousePredictionResponse is returned by POST /api/predict/house.
type HousePredictionResponse struct {
	Success        bool    `json:"success"`
	Prediction     float64 `json:"prediction"`
	FormattedPrice string  `json:"formatted_price"`
	PredictionID   string  `json:"prediction_id"`
}

// ProbabilityBreakdown holds per-class probabilities as percentages.
type ProbabilityBreakdown struct {
	NoDiabetes  float64 `json:"no_diabetes"`
	Prediabetes float64 `json:"prediabetes"`
	Diabetes    float64 `json:"diabetes"`
}

// DiabetesPredictionResponse is returned by POST /api/predict/diabetes.
type DiabetesPredictionResponse struct {
	Success       bool                 `json:"success"`
	Prediction    int                  `json:"prediction"`
	Result        string               `json:"result"`
	Confidence    float64              `json:"confidence"`
	Probabilities ProbabilityBreakdown `json:"probabilities"`
	PredictionID  string               `json:"prediction_id"`
}

// PredictionRecord is one history entry in GET /api/user/predictions.
type PredictionRecord struct {
	ID             string          `json:"id"`
	UserID         uint            `json:"user_id"`
	PredictionType string          `json:"prediction_type"`
	InputData      json.RawMessage `json:"input_data"`
	PredictedValue float64         `json:"predicted_value"`
	Metadata       json.RawMessage `json:"metadata"`
	CreatedAt      string          `json:"created_at"`
}

// PredictionsResponse is returned by GET /api/user/predictions.
type PredictionsResponse struct {
	Success     bool               `json:"success"`
	Predictions []PredictionRecord `json:"predictions"`
	TotalCount  int64              `json:"total_count"`
}

// UserStats aggregates prediction counts for a user.
type UserStats struct {
	TotalPredictions int64 `json:"total_predictions"`
	MonthPredictions int64 `json:"month_predictions"`
}

// StatsResponse is returned by GET /api/user/stats.
type StatsResponse struct {
	Success bool      `json:"success"`
	Stats   UserStats `json:"stats"`
}
