// internal/router/router.go
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/license-server/internal/config"
	"github.com/javajoker/license-server/internal/handlers"
	"github.com/javajoker/license-server/internal/i18n"
	"github.com/javajoker/license-server/internal/metrics"
	"github.com/javajoker/license-server/internal/middleware"
	"github.com/javajoker/license-server/internal/services"
	"github.com/javajoker/license-server/internal/utils"
)

const Version = "1.0.0"

// Store is the license store plus the liveness probe used by /health.
type Store interface {
	services.LicenseStore
	Ping(ctx context.Context) error
}

func Initialize(store Store, cfg *config.Config, limiter *middleware.RateLimiter) *gin.Engine {
	// Initialize services
	licenseService := services.NewLicenseService(store)

	// Initialize handlers
	licenseHandler := handlers.NewLicenseHandler(licenseService)

	if limiter == nil {
		limiter = middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.Error(err)
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNHEALTHY", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   Version,
			"languages": i18n.GetSupportedLanguages(),
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// License routes
	licenses := r.Group("/license")
	licenses.Use(limiter.Middleware())
	licenses.Use(middleware.OperationDeadline(cfg.Database.OperationDeadline()))
	{
		licenses.GET("/get/:key", licenseHandler.GetLicense)
		licenses.GET("/status/:key", licenseHandler.GetLicenseStatus)
		licenses.GET("/all/:wallet", licenseHandler.GetLicensesByOwner)
		licenses.POST("/create", licenseHandler.CreateLicense)
		licenses.POST("/activate", licenseHandler.ActivateLicense)
		licenses.POST("/renew", licenseHandler.RenewLicense)
		licenses.POST("/delete", licenseHandler.DeleteLicense)
	}

	return r
}
