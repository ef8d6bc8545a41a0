package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"

	"github.com/studyhub/studyhub-backend/internal/api"
	events_service "github.com/studyhub/studyhub-backend/internal/business/events"
	"github.com/studyhub/studyhub-backend/internal/config"
	"github.com/studyhub/studyhub-backend/internal/database"
	"github.com/studyhub/studyhub-backend/internal/database/events"
	"github.com/studyhub/studyhub-backend/internal/database/user"
	"github.com/studyhub/studyhub-backend/internal/notifications"
	"github.com/studyhub/studyhub-backend/internal/pkg/fcm"
	"github.com/studyhub/studyhub-backend/internal/pkg/gcal"
	"github.com/studyhub/studyhub-backend/internal/pkg/jwt"
	"github.com/studyhub/studyhub-backend/internal/pkg/oauth"
	"github.com/studyhub/studyhub-backend/internal/redis"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	jwts := jwt.NewManger()
	tokenParser := oauth.NewParser()

	redisPool := redis.NewRedisPool(logger)
	refreshTokens := redis.NewRefreshTokenRepository(redisPool, logger)
	googleTokens := redis.NewGoogleTokenRepository(redisPool, logger)

	db, err := database.NewPGX(ctx)
	if err != nil {
		log.Fatalf("unable to initialize db: %v", err)
	}
	usersRepository := user.NewRepository()
	eventsRepository := events.NewRepository()

	calendarClient, err := gcal.NewClient()
	if err != nil {
		log.Fatalf("unable to initialize calendar client: %v", err)
	}

	eventsService := events_service.NewService(db, logger, eventsRepository, database.NewListener(db), calendarClient, googleTokens)

	fcmService, err := fcm.NewService(ctx)
	if err != nil {
		log.Fatalf("unable to initialize fcm service: %v", err)
	}

	sender := notifications.NewSender(db, logger, usersRepository, eventsService, fcmService)
	go sender.Start(ctx)

	api, err := api.NewApi(
		logger,
		rand.Reader,
		jwts,
		tokenParser,
		refreshTokens,
		db,
		usersRepository,
		eventsService,
	)
	if err != nil {
		log.Fatalf("unable to initialize api: %v", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
