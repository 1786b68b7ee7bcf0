package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-parking-lot/internal/core/config"
	mdw "go-parking-lot/internal/transport/http/middleware"
	resp "go-parking-lot/internal/transport/http/response"
)

type Options struct {
	Service string
	Limits  config.Limits
	// Health reports the readiness of dependencies, usually a database ping.
	Health func(ctx context.Context) error
}

// NewEngine builds a service engine with the shared middleware chain,
// /health, /metrics and the given modules.
func NewEngine(l *zap.Logger, o Options, mods ...Module) *gin.Engine {
	lim := withDefaults(o.Limits)
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		mdw.RequestID(),
		ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
			resp.Abort(c, http.StatusInternalServerError, "")
		}),
		cors.New(corsConfig()),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.RPS/4), max(1, lim.Burst/4), 10*time.Minute),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.RequestTimeout)*time.Second),
		mdw.Metrics(o.Service),
		mdw.AccessLog(l),
	)

	r.GET("/health", healthHandler(o))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "Route not found") })
	r.NoMethod(func(c *gin.Context) { resp.Abort(c, http.StatusMethodNotAllowed, "") })

	mountAll(&r.RouterGroup, mods)
	return r
}

// Zero limits fall back to the config defaults.
func withDefaults(l config.Limits) config.Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.Concurrency <= 0 {
		l.Concurrency = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10
	}
	return l
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", mdw.KeyRequestID)
	c.ExposeHeaders = []string{mdw.KeyRequestID}
	c.MaxAge = 12 * time.Hour
	return c
}

func healthHandler(o Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "up", "service": o.Service}
		if o.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := o.Health(ctx); err != nil {
				body["status"] = "down"
				body["error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
