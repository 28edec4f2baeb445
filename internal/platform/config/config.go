// Package config loads application configuration from environment variables.
// A .env file is honored when present so local development does not need to
// export every variable by hand.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = time.Hour

// Config holds all runtime settings for the server.
type Config struct {
	JWTSecret string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisHost     string // empty disables caching
	RedisPort     string
	RedisPassword string

	ModelPath           string // house price regressor artifact
	ModelColumnsPath    string // house feature schema
	DiabetesModelPath   string // diabetes classifier artifact
	DiabetesScalerPath  string // diabetes feature scaler artifact
	DiabetesColumnsPath string // diabetes feature schema
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. It fails when a required variable is missing.
func Load() (*Config, error) {
	// .envが無い環境（本番・CI）ではエラーを無視する
	_ = godotenv.Load()

	cfg := &Config{
		JWTSecret: os.Getenv("JWT_SECRET"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "predict"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ModelPath:           os.Getenv("MODEL_PATH"),
		ModelColumnsPath:    os.Getenv("MODEL_COLUMNS_PATH"),
		DiabetesModelPath:   os.Getenv("DIABETES_MODEL_PATH"),
		DiabetesScalerPath:  os.Getenv("DIABETES_SCALER_PATH"),
		DiabetesColumnsPath: os.Getenv("DIABETES_COLUMNS_PATH"),
	}

	required := []struct {
		name  string
		value string
	}{
		{"JWT_SECRET", cfg.JWTSecret},
		{"MODEL_PATH", cfg.ModelPath},
		{"MODEL_COLUMNS_PATH", cfg.ModelColumnsPath},
		{"DIABETES_MODEL_PATH", cfg.DiabetesModelPath},
		{"DIABETES_SCALER_PATH", cfg.DiabetesScalerPath},
		{"DIABETES_COLUMNS_PATH", cfg.DiabetesColumnsPath},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", r.name)
		}
	}

	return cfg, nil
}

// getEnv returns the value of key, or def when unset.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
