package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enserhq/enserv/internal/domain/billing"
	"github.com/enserhq/enserv/internal/domain/task"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(taskSvc *task.Service, billingSvc *billing.Service, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	NewTaskHandler(taskSvc, logger).EnrichRoutes(r)
	NewBillingHandler(billingSvc, logger).EnrichRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
