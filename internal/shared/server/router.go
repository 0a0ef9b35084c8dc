package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-review/internal/review"
	"resume-review/internal/services/health"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/metrics"
	"resume-review/internal/shared/server/middleware"
	"resume-review/internal/shared/server/respond"
	"resume-review/internal/shared/telemetry"
)

// RouterDeps lists the handlers mounted on the API engine.
type RouterDeps struct {
	Config        config.Config
	Health        *health.Service
	ReviewHandler *review.Handler
	Pages         *review.Pages
	RateLimiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env != "dev" && cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// Without configured proxies ClientIP is the socket peer, so forwarded
	// headers cannot move a caller into a fresh rate-limit bucket.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		telemetry.Warn("config.trusted_proxies_invalid", map[string]any{"error": err.Error()})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Session(middleware.SessionOptions{
			Secure: cfg.SessionCookieSecure,
			MaxAge: int(cfg.SessionTTL / time.Second),
		}),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(uploadRateLimit(cfg.UploadRatePerMinute, deps.RateLimiter)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.RegisterRoutes(api)
	}
	if deps.Pages != nil {
		deps.Pages.RegisterRoutes(r)
	}

	return r
}

// uploadRateLimit throttles the routes that run extraction. perMinute <= 0
// disables limiting. Upload buckets are keyed by client IP because the
// session id is whatever the caller sends, and a caller without one gets a
// fresh id on every request.
func uploadRateLimit(perMinute int, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if perMinute > 0 {
		burst := perMinute / 6
		if burst < 3 {
			burst = 3
		}
		rules["UPLOAD"] = middleware.RateLimitRule{Rate: float64(perMinute) / 60.0, Burst: burst}
	}
	return middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: "DEFAULT",
		Limiter:      limiter,
		KeyFor: func(c *gin.Context, group string) string {
			if group == "UPLOAD" {
				return "ip:" + c.ClientIP()
			}
			return ""
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return "DEFAULT"
			}
			switch c.FullPath() {
			case "/api/v1/session/upload", "/api/v1/extract/text", "/upload", "/text":
				return "UPLOAD"
			}
			return "DEFAULT"
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
