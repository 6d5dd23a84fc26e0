package main // Entry point package

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/database"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/logger"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/router"
	"github.com/iliyamo/user-auth-service/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg := config.Load()
	log := logger.Must(cfg.LogLevel, cfg.IsProd())
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(cfg); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	rdb := config.NewRedisClient() // nil disables rate limiting

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	authSvc := service.NewAuthService(users, tokens, cfg, log)
	userSvc := service.NewUserService(users, authSvc, cfg, log)

	// Audit-log consumer runs for the lifetime of the process and
	// survives broker outages on its own.
	go queue.StartAuthConsumer(log)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg,
		handler.NewAuthHandler(cfg, userSvc, authSvc, log),
		handler.NewUserHandler(cfg, userSvc, log),
		rdb)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
