package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-parking-lot/internal/core/config"
	"go-parking-lot/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

func echo(name string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": name,
			"path":    r.URL.RequestURI(),
			"rid":     r.Header.Get("X-Request-ID"),
			"auth":    r.Header.Get("Authorization"),
		})
	}))
}

func engine(t *testing.T, routes []Route) (*gin.Engine, *Gateway) {
	t.Helper()
	g, err := New(routes, zap.NewNop())
	require.NoError(t, err)
	return router.NewEngine(zap.NewNop(), router.Options{Service: "gateway", Health: g.Health}, g), g
}

func get(r http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesByPrefix(t *testing.T) {
	slots, users := echo("slot"), echo("user")
	defer slots.Close()
	defer users.Close()
	r, _ := engine(t, []Route{{Prefix: "/api/slots", Target: slots.URL}, {Prefix: "/api/user", Target: users.URL}})

	w := get(r, "/api/slots/available/type/2W?x=1", map[string]string{"Authorization": "Bearer abc", "X-Request-ID": "rid-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "slot", got["service"])
	assert.Equal(t, "/api/slots/available/type/2W?x=1", got["path"])
	assert.Equal(t, "Bearer abc", got["auth"])
	assert.Equal(t, "rid-1", got["rid"])

	w = get(r, "/api/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "user", got["service"])
	assert.NotEmpty(t, got["rid"])
}

func TestUnknownPrefix(t *testing.T) {
	slots := echo("slot")
	defer slots.Close()
	r, _ := engine(t, []Route{{Prefix: "/api/slots", Target: slots.URL}})

	assert.Equal(t, http.StatusNotFound, get(r, "/api/parking", nil).Code)
}

func TestUpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()
	r, g := engine(t, []Route{{Prefix: "/api/billing", Target: url}})

	w := get(r, "/api/billing/1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Upstream service unavailable")
	assert.Error(t, g.Health(context.Background()))
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/health", nil).Code)
}

func TestHealthAllUp(t *testing.T) {
	slots := echo("slot")
	defer slots.Close()
	_, g := engine(t, []Route{{Prefix: "/api/slots", Target: slots.URL}})
	assert.NoError(t, g.Health(context.Background()))
}

func TestNewRejectsBadTarget(t *testing.T) {
	_, err := New([]Route{{Prefix: "/api/slots", Target: "localhost"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestRoutesFromConfig(t *testing.T) {
	rs := Routes(config.Services{User: "http://u", Slot: "http://s", Reservation: "http://r", VehicleLog: "http://v", Billing: "http://b"})
	require.Len(t, rs, 5)
	assert.Equal(t, Route{Prefix: "/api/vehicle-log", Target: "http://v"}, rs[3])
}
