package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brew-recipe-generator/internal/api"
	brewingService "brew-recipe-generator/internal/core/brewing"
	"brew-recipe-generator/internal/core/refcache"
	"brew-recipe-generator/internal/infrastructure/config"
	"brew-recipe-generator/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定；必要密鑰缺失時直接拒絕啟動
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 初始化參考資料快取
	cache := newReferenceCache(cfg)

	// 設置路由
	router, err := api.SetupRouter(cfg, cache)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// newReferenceCache 依設定選擇快取後端
// Redis 連不上時退回行程內快取，快取停用時回傳 nil（協調器視為直接回源）
func newReferenceCache(cfg *config.Config) brewingService.ReferenceCache {
	if !cfg.Cache.Enabled {
		return nil
	}

	if cfg.Cache.Backend == "redis" {
		rc, err := refcache.NewRedisCache(cfg)
		if err == nil {
			common.LogInfo("使用 Redis 參考資料快取",
				zap.String("addr", cfg.Cache.RedisAddr),
			)
			return rc
		}
		common.LogWarn("Redis 快取初始化失敗，改用行程內快取", zap.Error(err))
	}

	if m := refcache.NewManager(cfg); m != nil {
		return m
	}
	return nil
}
