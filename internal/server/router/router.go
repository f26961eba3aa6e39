package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router wires up.
type Handlers struct {
	Batches   *handlers.BatchHandler
	Birds     *handlers.BirdHandler
	Health    *handlers.HealthRecordHandler
	Alerts    *handlers.AlertHandler
	Dashboard *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/v1")
	{
		api.GET("/lotes", h.Batches.List)
		api.POST("/lotes", h.Batches.Create)
		api.GET("/lotes/:id", h.Batches.Get)
		api.PUT("/lotes/:id", h.Batches.Update)
		api.DELETE("/lotes/:id", h.Batches.Delete)
		api.GET("/lotes/:id/pollos", h.Batches.Birds)

		api.GET("/pollos", h.Birds.List)
		api.POST("/pollos", h.Birds.Create)
		api.GET("/pollos/:id", h.Birds.Get)
		api.PUT("/pollos/:id", h.Birds.Update)
		api.DELETE("/pollos/:id", h.Birds.Delete)

		api.GET("/salud", h.Health.List)
		api.GET("/salud/ultimo", h.Health.Latest)
		api.POST("/salud", h.Health.Create)
		api.GET("/salud/:id", h.Health.Get)
		api.PUT("/salud/:id", h.Health.Update)
		api.DELETE("/salud/:id", h.Health.Delete)

		api.GET("/alertas", h.Alerts.List)
		api.POST("/alertas", h.Alerts.Create)
		api.GET("/alertas/:id", h.Alerts.Get)
		api.PUT("/alertas/:id", h.Alerts.Update)
		api.POST("/alertas/:id/resolver", h.Alerts.Resolve)
		api.DELETE("/alertas/:id", h.Alerts.Delete)

		api.GET("/dashboard", h.Dashboard.Metrics)
		api.GET("/predicciones", h.Dashboard.Predictions)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
