// Package server builds the engine for the standalone extraction service.
package server

import (
	"github.com/gin-gonic/gin"

	"resume-review/internal/extract"
	"resume-review/internal/services/health"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/server/middleware"
)

// NewEngine builds the extraction service engine with routes registered.
func NewEngine(cfg config.Config, healthSvc *health.Service) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	registerRoutes(engine, healthSvc, extract.NewHandler(int(cfg.UploadMaxBytes)))
	return engine
}
