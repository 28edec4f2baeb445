package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"predict_backend/internal/app/di"
	"predict_backend/internal/app/router"
	authadapters "predict_backend/internal/feature/auth/adapters"
	authhandler "predict_backend/internal/feature/auth/transport/handler"
	authusecase "predict_backend/internal/feature/auth/usecase"
	predictionhandler "predict_backend/internal/feature/prediction/transport/handler"
	predictionusecase "predict_backend/internal/feature/prediction/usecase"
	"predict_backend/internal/platform/config"
	infradb "predict_backend/internal/platform/db"
	jwtmw "predict_backend/internal/platform/jwt"
	infraredis "predict_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// db
	db := infradb.OpenDB(infradb.Config{
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	})

	// Redis（任意。未設定・接続不可ならキャッシュなしで動作）
	var rdb *redisv9.Client
	if cfg.RedisHost != "" {
		if tmp, err := infraredis.NewRedisClient(cfg.RedisHost+":"+cfg.RedisPort, cfg.RedisPassword); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// モデルアーティファクト（起動時に一度だけロード、以後読み取り専用）
	models := di.LoadModels(cfg)

	// Repository
	userRepo := authadapters.NewUserPostgres(db)
	predictionRepo := di.NewPredictionRepository(rdb, db)

	// トークンサービス
	tokens := jwtmw.NewTokenService(cfg.JWTSecret, config.TokenTTL)

	// Usecase
	// インターフェースにはロード済みのモデルのみを代入する（typed nilを避ける）
	var regressor predictionusecase.Regressor
	if models.HouseRegressor != nil {
		regressor = models.HouseRegressor
	}
	var classifier predictionusecase.Classifier
	if models.DiabetesClassifier != nil {
		classifier = models.DiabetesClassifier
	}
	var scaler predictionusecase.Scaler
	if models.DiabetesScaler != nil {
		scaler = models.DiabetesScaler
	}

	predictionUC := predictionusecase.NewPredictionUsecase(
		predictionRepo, regressor, models.HouseColumns, classifier, scaler, models.DiabetesColumns)
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, predictionRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	userH := authhandler.NewUserHandler(authUC)
	predictionH := predictionhandler.NewPredictionHandler(predictionUC)

	// 認可ミドルウェアとルータ生成
	authMW := jwtmw.AuthRequired(tokens, userRepo)
	r := router.NewRouter(authH, userH, predictionH, authMW)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
