package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"recipe-catalog/internal/api"
	"recipe-catalog/internal/api/handlers/health"
	"recipe-catalog/internal/app"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/infrastructure/database"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		common.LogError("服務異常結束", zap.Error(err))
		common.Sync()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 載入設定（.env 可選）
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("llm_api_key", cfg.LLM.APIKey),
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			common.LogWarn("關閉資源失敗", zap.Error(err))
		}
	}()

	deps := api.Dependencies{
		Catalog:   a.Catalog,
		IngestErr: a.IngestErr,
		Ready:     func(ctx context.Context) error { return database.Ping(ctx, a.DB) },
		Model: &health.ModelStatus{
			Provider:   cfg.LLM.Provider,
			Name:       cfg.LLM.Model,
			Configured: a.Ingestor != nil,
		},
	}
	// 避免 nil *Ingestor 變成非 nil 介面
	if a.Ingestor != nil {
		deps.Ingester = a.Ingestor
	}

	router, dedup := api.SetupRouter(cfg, deps)
	defer dedup.Close()

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		common.LogInfo("啟動應用",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		common.LogInfo("Shutting down server...")

		// 設置關閉超時
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	common.LogInfo("Server exited")
	return nil
}
