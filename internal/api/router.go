package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dinner-planner/internal/api/handlers"
	"dinner-planner/internal/api/handlers/health"
	"dinner-planner/internal/api/middleware"
	"dinner-planner/internal/core/parser"
	"dinner-planner/internal/core/parser/cache"
	"dinner-planner/internal/core/planner"
	"dinner-planner/internal/core/units"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

const (
	timeoutDuration = 120 * time.Second
	// Request body size limit (10MB)
	maxBodySize = 10 << 20
)

// Services bundles the long-lived dependencies the router wires into
// handlers. Close releases them in reverse construction order.
type Services struct {
	Cache     cache.Store
	Parser    *parser.Service
	Processor *planner.RecipeProcessor
	Shopping  *planner.ShoppingService
}

// Close shuts down the worker pool and cache.
func (s *Services) Close() {
	if s.Processor != nil {
		s.Processor.Close()
	}
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			common.LogWarn("Failed to close cache", zap.Error(err))
		}
	}
}

// SetupRouter builds the service graph and registers every route.
func SetupRouter(cfg *config.Config, db *store.DB) (*gin.Engine, *Services, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		router.Use(middleware.Deduplication(cfg))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("parser_enabled", cfg.OpenAI.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.Duration("timeout", timeoutDuration),
	)

	cacheStore, err := cache.New(cfg)
	if err != nil {
		common.LogError("Failed to initialize cache", zap.Error(err))
		return nil, nil, err
	}

	table := units.DefaultTable()
	parserSvc := parser.NewService(cfg, parser.NewClient(cfg), cacheStore, table)

	storeRepo := store.NewStoreRepository(db)
	dishRepo := store.NewDishRepository(db)
	ingredientRepo := store.NewIngredientRepository(db)
	shoppingRepo := store.NewShoppingRepository(db)
	guestRepo := store.NewGuestRepository(db)
	chatRepo := store.NewChatRepository(db)

	shoppingSvc := planner.NewShoppingService(cfg, table, ingredientRepo, shoppingRepo)
	processor := planner.NewRecipeProcessor(cfg, parserSvc, ingredientRepo, dishRepo)

	services := &Services{
		Cache:     cacheStore,
		Parser:    parserSvc,
		Processor: processor,
		Shopping:  shoppingSvc,
	}

	// Per-request timeout so a stuck LLM call cannot hold a connection open.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
		}
	})

	healthHandler := health.NewHandler(cfg, db, cacheStore, processor)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	storeHandler := handlers.NewStoreHandler(storeRepo)
	dishHandler := handlers.NewDishHandler(dishRepo)
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo, parserSvc)
	shoppingHandler := handlers.NewShoppingHandler(shoppingSvc, shoppingRepo)
	recipeHandler := handlers.NewRecipeHandler(processor)
	guestHandler := handlers.NewGuestHandler(guestRepo)
	chatHandler := handlers.NewChatHandler(chatRepo)

	api := router.Group("/api/v1")
	{
		stores := api.Group("/stores")
		{
			stores.POST("", storeHandler.Create)
			stores.GET("", storeHandler.List)
			stores.GET("/:id", storeHandler.Get)
			stores.PUT("/:id", storeHandler.Update)
			stores.DELETE("/:id", storeHandler.Delete)
		}

		dishes := api.Group("/dishes")
		{
			dishes.POST("", dishHandler.Create)
			dishes.GET("", dishHandler.List)
			dishes.GET("/:id", dishHandler.Get)
			dishes.PUT("/:id", dishHandler.Update)
			dishes.DELETE("/:id", dishHandler.Delete)
			dishes.POST("/:id/recipe", recipeHandler.Process)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.POST("", ingredientHandler.Create)
			ingredients.GET("", ingredientHandler.List)
			ingredients.GET("/:id", ingredientHandler.Get)
			ingredients.PUT("/:id", ingredientHandler.Update)
			ingredients.PATCH("/:id/purchased", ingredientHandler.SetPurchased)
			ingredients.DELETE("/:id", ingredientHandler.Delete)
			ingredients.POST("/parse", ingredientHandler.Parse)
			ingredients.POST("/instances", ingredientHandler.AddInstance)
			ingredients.DELETE("/instances/:id", ingredientHandler.DeleteInstance)
		}

		shoppingGroup := api.Group("/shopping")
		{
			shoppingGroup.POST("/generate", shoppingHandler.Generate)
			shoppingGroup.POST("/consolidate", shoppingHandler.Consolidate)
			shoppingGroup.POST("/items", shoppingHandler.Create)
			shoppingGroup.GET("/items", shoppingHandler.List)
			shoppingGroup.GET("/items/:id", shoppingHandler.Get)
			shoppingGroup.PUT("/items/:id", shoppingHandler.Update)
			shoppingGroup.PATCH("/items/:id/toggle", shoppingHandler.ToggleChecked)
			shoppingGroup.DELETE("/items/:id", shoppingHandler.Delete)
			shoppingGroup.DELETE("/items", shoppingHandler.Clear)
		}

		guests := api.Group("/guests")
		{
			guests.POST("", guestHandler.Create)
			guests.GET("", guestHandler.List)
			guests.GET("/:id", guestHandler.Get)
			guests.POST("/:id/rsvp", guestHandler.RSVP)
			guests.POST("/:id/plus-ones", guestHandler.AddPlusOne)
			guests.DELETE("/:id", guestHandler.Delete)
		}

		recipes := api.Group("/recipes")
		{
			recipes.POST("/process", recipeHandler.ProcessBatch)
		}

		chat := api.Group("/chat")
		{
			chat.POST("/messages", chatHandler.Post)
			chat.GET("/messages", chatHandler.List)
			chat.DELETE("/messages/:id", chatHandler.Delete)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_initialized", cacheStore != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, services, nil
}
