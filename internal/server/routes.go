package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-review/internal/extract"
	"resume-review/internal/services/health"
)

// registerRoutes mounts /extract at the root, matching the hosted endpoint,
// and /prod/extract for clients configured with the API Gateway stage path.
func registerRoutes(r *gin.Engine, healthSvc *health.Service, h *extract.Handler) {
	h.RegisterRoutes(r)
	h.RegisterRoutes(r.Group("/prod"))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthSvc.Status())
	})
}
