package api

import (
	"context"
	"net/http"
	"time"

	"recipe-catalog/internal/api/handlers/health"
	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Ingester  recipeHandler.Ingester
	IngestErr error
	Catalog   recipeHandler.Catalog
	Ready     health.Checker
	Model     *health.ModelStatus
}

// SetupRouter 設置路由，回傳的 Deduplicator 需在關閉服務時停止
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, *middleware.Deduplicator) {
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
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.RequestContext())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// CORS 設置
	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !allowsAll(origins),
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Model, deps.Ready)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	h := recipeHandler.NewHandler(deps.Ingester, deps.IngestErr, deps.Catalog, cfg.App.Debug)

	// API 路由組
	// 請求超時由模型逾時推得，寫入逾時在載入設定時已拉長到此值之上
	timeout := cfg.RequestTimeout()
	api := router.Group("/api/v1", withTimeout(timeout))
	{
		recipes := api.Group("/recipes")
		{
			recipes.GET("", h.List)
			recipes.POST("", dedup.Middleware(), h.Create)
			recipes.GET("/:id", h.Get)
			recipes.PUT("/:id", h.Update)
			recipes.DELETE("/:id", h.Delete)
			recipes.POST("/:id/save", h.Save)
			recipes.POST("/:id/rate", h.Rate)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ingestion_enabled", deps.Ingester != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, dedup
}

// withTimeout 設置請求超時
func withTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
				zap.Duration("timeout", d),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrGatewayTimeout.Response(false))
		}
	}
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
