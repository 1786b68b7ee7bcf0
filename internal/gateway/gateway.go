// Package gateway is the single entry point in front of the parking services.
// It forwards by path prefix and leaves token checks to the services.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-parking-lot/internal/core/config"
	resp "go-parking-lot/internal/transport/http/response"
)

// Route sends every request under Prefix to Target.
type Route struct {
	Prefix string
	Target string
}

// Routes maps the public prefixes onto the configured service URLs.
func Routes(s config.Services) []Route {
	return []Route{
		{Prefix: "/api/user", Target: s.User},
		{Prefix: "/api/slots", Target: s.Slot},
		{Prefix: "/api/reservations", Target: s.Reservation},
		{Prefix: "/api/vehicle-log", Target: s.VehicleLog},
		{Prefix: "/api/billing", Target: s.Billing},
	}
}

type upstream struct {
	Route
	url   *url.URL
	proxy *httputil.ReverseProxy
}

type Gateway struct {
	upstreams []upstream
	health    *http.Client
	log       *zap.Logger
}

func New(routes []Route, l *zap.Logger) (*Gateway, error) {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
	g := &Gateway{health: &http.Client{Transport: tr, Timeout: 2 * time.Second}, log: l}
	for _, r := range routes {
		u, err := url.Parse(r.Target)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("gateway: bad target %q for %s", r.Target, r.Prefix)
		}
		g.upstreams = append(g.upstreams, upstream{
			Route: r,
			url:   u,
			proxy: &httputil.ReverseProxy{
				Rewrite: func(pr *httputil.ProxyRequest) {
					pr.SetURL(u)
					pr.SetXForwarded()
				},
				Transport:    tr,
				ErrorHandler: g.proxyError(r.Prefix),
			},
		})
	}
	return g, nil
}

// Priority mounts the gateway after anything else sharing the engine.
func (g *Gateway) Priority() int { return 200 }

func (g *Gateway) Mount(r *gin.RouterGroup) {
	for _, u := range g.upstreams {
		h := gin.WrapH(u.proxy)
		r.Any(u.Prefix, h)
		r.Any(u.Prefix+"/*rest", h)
	}
}

func (g *Gateway) proxyError(prefix string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		code := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			code = http.StatusGatewayTimeout
		}
		g.log.Warn("upstream failed",
			zap.String("prefix", prefix), zap.String("path", r.URL.Path), zap.Int("status", code), zap.Error(err))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp.ErrorBody{Message: "Upstream service unavailable", Error: http.StatusText(code)})
	}
}

// Health asks every upstream's /health and fails on the first one that is not up.
func (g *Gateway) Health(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, u := range g.upstreams {
		u := u
		eg.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url.JoinPath("/health").String(), nil)
			if err != nil {
				return err
			}
			res, err := g.health.Do(req)
			if err != nil {
				return fmt.Errorf("%s: %w", u.Prefix, err)
			}
			defer res.Body.Close()
			if res.StatusCode != http.StatusOK {
				return fmt.Errorf("%s: health %d", u.Prefix, res.StatusCode)
			}
			return nil
		})
	}
	return eg.Wait()
}
