package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-review/internal/extraction"
	"resume-review/internal/intake"
	"resume-review/internal/review"
	"resume-review/internal/services/health"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/server"
	"resume-review/internal/shared/server/middleware"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Rules         intake.Rules
	SessionRepo   *review.MemoryRepo
	ReviewService *review.Service
	ReviewHandler *review.Handler
	Pages         *review.Pages
	Health        *health.Service
	RateLimiter   *middleware.RateLimiter
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	rules := intake.DefaultRules()
	if cfg.UploadMaxBytes > 0 {
		rules.MaxBytes = cfg.UploadMaxBytes
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	mode, err := extraction.ParseMode(cfg.ExtractorMode)
	if err != nil {
		return nil, err
	}
	remote := extraction.NewRemote(cfg.ExtractBaseURL, &http.Client{})
	var extractor extraction.Extractor
	switch mode {
	case extraction.ModeRemote:
		extractor = remote
	default:
		extractor = extraction.NewMock(cfg.MockExtractDelay)
	}

	repo := review.NewMemoryRepo(rules, nil)
	svc := review.NewService(repo, extractor, remote)
	pages, err := review.NewPages(svc, rules)
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	app := &App{
		Config:        cfg,
		Rules:         rules,
		SessionRepo:   repo,
		ReviewService: svc,
		ReviewHandler: review.NewHandler(svc, rules),
		Pages:         pages,
		Health:        health.NewService("api", string(mode), repo),
		RateLimiter:   middleware.NewRateLimiter(nil),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		Health:        app.Health,
		ReviewHandler: app.ReviewHandler,
		Pages:         app.Pages,
		RateLimiter:   app.RateLimiter,
	})

	return app, nil
}

// Sweep evicts idle sessions and drops their rate-limit buckets.
func (a *App) Sweep() {
	a.ReviewService.Sweep(a.Config.SessionTTL)
	a.RateLimiter.Prune(a.Config.SessionTTL)
}
