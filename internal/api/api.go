package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nhabuon/ToolTinhLai/internal/api/handlers"
	"github.com/nhabuon/ToolTinhLai/internal/api/middleware"
	"github.com/nhabuon/ToolTinhLai/internal/pricing"
	"github.com/nhabuon/ToolTinhLai/internal/service"
)

type Services struct {
	Products    *service.ProductService
	Ledger      *service.LedgerService
	Competitors *service.CompetitorService
	Advisor     *service.AdvisorService
	Pricing     pricing.Defaults
	// Drive serves /api/drive/*; nil when Drive is not configured.
	Drive http.Handler
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	pricingHandler := handlers.NewPricingHandler(services.Pricing)
	apiGroup.POST("/pricing/quote", pricingHandler.Quote)

	if services.Products != nil {
		productHandler := handlers.NewProductHandler(services.Products)
		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", productHandler.List)
			productGroup.POST("", productHandler.Create)
			productGroup.GET("/:id", productHandler.Get)
			productGroup.PUT("/:id", productHandler.Update)
			productGroup.POST("/:id/stock", productHandler.AdjustStock)
		}
		apiGroup.GET("/inventory/alerts", productHandler.Alerts)

		if services.Competitors != nil {
			competitorHandler := handlers.NewCompetitorHandler(services.Competitors)
			productGroup.GET("/:id/competitors", competitorHandler.List)
			productGroup.POST("/:id/competitors", competitorHandler.Add)
		}
	}

	if services.Ledger != nil {
		ledgerHandler := handlers.NewLedgerHandler(services.Ledger)
		ledgerGroup := apiGroup.Group("/ledger")
		{
			ledgerGroup.GET("/weeks", ledgerHandler.ListWeeks)
			ledgerGroup.PUT("/weeks/:week", ledgerHandler.SaveWeek)
			ledgerGroup.POST("/extract", ledgerHandler.Extract)
		}
	}

	if services.Advisor != nil {
		advisorHandler := handlers.NewAdvisorHandler(services.Advisor)
		apiGroup.POST("/advisor/chat", advisorHandler.Chat)
	}

	if services.Drive != nil {
		router.Any("/api/drive/*path", gin.WrapH(services.Drive))
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
