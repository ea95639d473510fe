// Package router wires the record access routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/recordguard/internal/recordguard/handler"
	"github.com/kart-io/recordguard/pkg/middleware"
	"github.com/kart-io/recordguard/pkg/observability/metrics"
	"github.com/kart-io/recordguard/pkg/security/session"
)

// Handlers groups the handlers the router needs.
type Handlers struct {
	Record *handler.RecordHandler
	CSRF   *handler.CSRFHandler
	Audit  *handler.AuditHandler
}

// Register registers all routes on the engine.
func Register(engine *gin.Engine, sessionMgr *session.Manager, h Handlers) {
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.Logger(),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, metrics.Export())
	})

	v1 := engine.Group("/v1")
	v1.Use(middleware.Auth(sessionMgr))
	{
		v1.GET("/csrf/token", h.CSRF.Issue)
		v1.GET("/audit/entries", h.Audit.List)

		record := v1.Group("/patients/:id/record")
		{
			record.GET("", h.Record.View)
			record.POST("/preview", h.Record.Preview)
			record.POST("/export", h.Record.Export)
			record.GET("/download", h.Record.Download)
		}
	}
}
