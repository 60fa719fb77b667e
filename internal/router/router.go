package router

import (
	"time"

	"fertilabel/internal/config"
	"fertilabel/internal/handler"
	"fertilabel/internal/infra"
	"fertilabel/internal/middleware"
	"fertilabel/internal/repository"
	"fertilabel/internal/service"
	"fertilabel/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, settings service.Settings, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", 1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	feed := infra.NewLiveFeed(rdb)
	extractor := infra.NewPDFTextExtractor()
	renderer := infra.NewDocumentRenderer(settings.DefaultClient)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(operatorRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	queueSvc := service.NewQueueService(queueRepo, productRepo, extractor, feed, settings)
	historySvc := service.NewHistoryService(historyRepo, feed, settings)
	labelSvc := service.NewLabelService(productRepo, historySvc, queueSvc, renderer, settings)
	termSvc := service.NewTermService(historySvc, queueSvc, renderer, dispatcher, settings)
	dashboardSvc := service.NewDashboardService(queueRepo, historyRepo, settings)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	queueH := handler.NewQueueHandler(queueSvc, cfg.MaxUploadMB)
	productsH := handler.NewProductsHandler(productSvc)
	labelsH := handler.NewLabelsHandler(labelSvc)
	historyH := handler.NewHistoryHandler(historySvc)
	termsH := handler.NewTermsHandler(termSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes: operador and administrador unless stated
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	staff := middleware.RequireRole(service.RoleOperator, service.RoleAdmin)
	adminOnly := middleware.RequireRole(service.RoleAdmin)
	{
		queue := v1.Group("/queue", staff)
		{
			queue.POST("/import", queueH.Import)
			queue.GET("", queueH.List)
			queue.GET("/stream", queueH.Stream)
			queue.PATCH("/:id/status", queueH.UpdateStatus)
			queue.PATCH("/:id/flags", queueH.UpdateFlags)
			queue.POST("/:id/label", queueH.StartLabel)
			queue.DELETE("/:id", queueH.Remove)
			queue.DELETE("", queueH.Clear)
			queue.PUT("/order", queueH.Reorder)
			queue.POST("/compact", queueH.Compact)
		}

		v1.GET("/products", staff, productsH.List)
		v1.GET("/products/:id", staff, productsH.Get)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
		}

		labels := v1.Group("/labels", staff)
		{
			labels.GET("/suggest", labelsH.Suggest)
			labels.POST("/print", labelsH.Print)
		}

		history := v1.Group("/history", staff)
		{
			history.GET("", historyH.List)
			history.GET("/stream", historyH.Stream)
			history.GET("/:id/labels", labelsH.Reprint)
			history.GET("/:id/term", termsH.Render)
			history.DELETE("/:id", adminOnly, historyH.Delete)
		}

		v1.POST("/terms", staff, termsH.Save)
		v1.GET("/dashboard", staff, dashboardH.Summary)
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
