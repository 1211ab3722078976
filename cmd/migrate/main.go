package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/repository"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/config"
	"github.com/noah-isme/academic-admin-api/pkg/database"
	"github.com/noah-isme/academic-admin-api/pkg/logger"
)

func main() {
	skipSeed := flag.Bool("skip-seed", false, "apply migrations without seeding the admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, cfg.Database, logr); err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}

	if *skipSeed || cfg.Admin.Email == "" {
		logr.Info("admin seed skipped")
		return
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	auth := service.NewAuthService(repository.NewUserRepository(db), nil, logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret})
	if _, err := auth.SeedAdmin(ctx, service.SeedAdminRequest{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		FullName: cfg.Admin.FullName,
	}); err != nil {
		logr.Fatal("seed admin", zap.Error(err))
	}
}
