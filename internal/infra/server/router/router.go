// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/concilia/backend/internal/integration/entrypoint/controller"
	"github.com/concilia/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine               *gin.Engine
	healthController     *controller.HealthController
	comparisonController *controller.ComparisonController
	chartController      *controller.ChartController
	uploadRateLimiter    *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	comparisonController *controller.ComparisonController,
	chartController *controller.ChartController,
	uploadRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:     healthController,
		comparisonController: comparisonController,
		chartController:      chartController,
		uploadRateLimiter:    uploadRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Comparison routes (rate limiter guards the upload endpoint)
		if r.comparisonController != nil {
			comparisons := v1.Group("/comparisons")
			{
				if r.uploadRateLimiter != nil {
					comparisons.POST("", r.uploadRateLimiter.Middleware(), r.comparisonController.Run)
				} else {
					comparisons.POST("", r.comparisonController.Run)
				}
				comparisons.GET("", r.comparisonController.List)
				comparisons.GET("/:id", r.comparisonController.Get)
			}
		}

		// Chart of accounts routes
		if r.chartController != nil {
			chart := v1.Group("/chart")
			{
				if r.uploadRateLimiter != nil {
					chart.POST("", r.uploadRateLimiter.Middleware(), r.chartController.Upload)
				} else {
					chart.POST("", r.chartController.Upload)
				}
				chart.GET("", r.chartController.List)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
