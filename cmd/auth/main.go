package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/ledgerline/auth-service/internal/adapters/db/postgres"
	myHTTP "github.com/ledgerline/auth-service/internal/adapters/transport/http"
	appjwt "github.com/ledgerline/auth-service/internal/app/auth/jwt"
	"github.com/ledgerline/auth-service/internal/app/auth/password"
	appsvc "github.com/ledgerline/auth-service/internal/app/auth/service"
	"github.com/ledgerline/auth-service/internal/infra/config"
	lg "github.com/ledgerline/auth-service/internal/infra/log"
	"github.com/ledgerline/auth-service/internal/infra/migrate"
	"github.com/ledgerline/auth-service/internal/infra/server"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	validate := validator.New()
	hasher := password.NewHasher(cfg.BcryptCost)
	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	jwtUtil, err := appjwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}
	svc := appsvc.New(userRepo, jwtUtil, hasher, validate)

	router := myHTTP.NewRouter(svc, jwtUtil, cfg, zapLog)

	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
