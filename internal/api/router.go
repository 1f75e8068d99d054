package api

import (
	"context"
	"net/http"
	"time"

	brewingHandler "brew-recipe-generator/internal/api/handlers/brewing"
	"brew-recipe-generator/internal/api/handlers/health"
	"brew-recipe-generator/internal/api/middleware"
	"brew-recipe-generator/internal/core/ai/openrouter"
	brewingService "brew-recipe-generator/internal/core/brewing"
	"brew-recipe-generator/internal/infrastructure/config"
	"brew-recipe-generator/internal/infrastructure/supabase"
	"brew-recipe-generator/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 整體請求超時，模型閘道另有自己較短的超時
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (64KB)，這個服務只收小型 JSON
	maxBodySize = 64 << 10
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cache brewingService.ReferenceCache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置：寬鬆允許來源與標頭，預檢請求由此回應
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("model_timeout", cfg.OpenRouter.Timeout),
	)

	// 初始化外部閘道
	supaClient := supabase.NewClient(cfg)
	store := supabase.NewStore(supaClient)
	model := openrouter.NewClient(cfg)

	// 初始化生成協調器
	generationSvc := brewingService.NewService(store, model, cache)

	// 全局中間件：設置整體超時與配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := brewingHandler.NewHandler(generationSvc)

		brewGroup := api.Group("/brewing")
		// 身份驗證守衛：整個群組唯一的進入檢查，預設拒絕
		brewGroup.Use(middleware.RequireAuth(supaClient))
		// 去重放在驗證之後，指紋才能包含呼叫者 ID
		brewGroup.Use(middleware.Deduplication(cfg))
		{
			// 建立沖煮請求
			brewGroup.POST("/requests", handler.HandleCreateRequest)

			// 列出自己的沖煮請求
			brewGroup.GET("/requests", handler.HandleListRequests)

			// 列出沖煮方式
			brewGroup.GET("/methods", handler.HandleListMethods)

			// 為沖煮請求生成草稿食譜
			brewGroup.POST("/generate", handler.HandleGenerate)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
