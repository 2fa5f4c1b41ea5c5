package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/api/handler"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/api/router"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/closure"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/service"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/database"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/jwt"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/logger"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, log); err != nil {
		return err
	}

	// Redis is optional: the import lock and rate limiter degrade without it.
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, degrading to in-process locking", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	loc, err := time.LoadLocation(cfg.Closure.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	resolver := closure.NewResolver(loc, log,
		closure.NewHolidaySource(loc),
		closure.NewVacationSource(&cfg.Closure, loc),
	)

	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	svc, err := service.NewService(cfg, repo, resolver, rdb, log)
	if err != nil {
		return err
	}

	h := handler.NewHandler(cfg, svc, log)
	engine := router.New(cfg, h, jwtMgr, rdb, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
