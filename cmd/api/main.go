package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-admin-api/internal/handler"
	"github.com/noah-isme/academic-admin-api/internal/repository"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/cache"
	"github.com/noah-isme/academic-admin-api/pkg/config"
	"github.com/noah-isme/academic-admin-api/pkg/database"
	"github.com/noah-isme/academic-admin-api/pkg/logger"
)

// @title Academic Administration API
// @version 1.0.0
// @description Faculties, departments, degrees and students of an academic institution
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
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

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, cfg.Database, logr); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache)
	if err != nil {
		logr.Warn("redis unavailable, serving reads from postgres", zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, cfg.Cache.Prefix, logr, cfg.Cache.Enabled && redisClient != nil)

	managerRepo := repository.NewManagerRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	degreeRepo := repository.NewDegreeRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	managerSvc := service.NewManagerService(managerRepo, cacheSvc, metrics, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, managerRepo, cacheSvc, metrics, validate, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, facultyRepo, managerRepo, cacheSvc, metrics, validate, logr)
	degreeSvc := service.NewDegreeService(degreeRepo, departmentRepo, cacheSvc, metrics, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, facultyRepo, departmentRepo, cacheSvc, metrics, validate, logr)
	exportSvc := service.NewExportService(facultyRepo, departmentRepo, degreeRepo, studentRepo, logr)

	handlers := routeHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		managers:    handler.NewManagerHandler(managerSvc),
		faculties:   handler.NewFacultyHandler(facultySvc, departmentSvc),
		departments: handler.NewDepartmentHandler(departmentSvc, degreeSvc),
		degrees:     handler.NewDegreeHandler(degreeSvc),
		students:    handler.NewStudentHandler(studentSvc),
		exports:     handler.NewExportHandler(exportSvc),
		system:      handler.NewMetricsHandler(metrics, map[string]handler.Pinger{"database": db, "cache": cacheRepo}, logr),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, logr, metrics, authSvc, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
