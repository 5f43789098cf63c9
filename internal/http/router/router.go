// Package router assembles the Gin engine from the application's modules.
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apphttp "realty_site_backend/internal/http"
	"realty_site_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// New builds the HTTP engine: global middleware, health endpoints and every
// registered module's routes under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		app.Logger.Error("panic recovered", "panic", fmt.Sprint(recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "An unexpected error occurred. Please try again."})
	}))
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())

	floodLimiter := httpkit.NewIPRateLimiter(10, 20, app.Logger)
	engine.Use(floodLimiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.GET("/api/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := app.Health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := engine.Group("/api/v1")

	routerCtx := &apphttp.RouterContext{
		Engine:       engine,
		V1:           v1,
		Config:       app.Config,
		FloodLimiter: floodLimiter,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("registered module routes", "module", module.Name())
	}

	return engine
}
