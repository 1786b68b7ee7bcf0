package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initWith(t *testing.T, yaml string) *App {
	t.Helper()
	p := filepath.Join(t.TempDir(), "svc.yaml")
	require.NoError(t, os.WriteFile(p, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", p)
	return Init("slot-service")
}

func TestInitNamesTheService(t *testing.T) {
	a := initWith(t, "jwt:\n  secret: x\n")
	assert.Equal(t, "slot-service", a.Cfg.App.Name)
	assert.Equal(t, []byte("x"), a.JWT.Secret)
	assert.Nil(t, a.Cache())
	assert.NoError(t, a.DBHealth(context.Background()))
}

func TestClientOptions(t *testing.T) {
	a := initWith(t, "jwt:\n  secret: x\nservices:\n  timeoutsec: 2\n  retries: 1\n")
	o := a.Client("http://slot:8082")
	assert.Equal(t, "http://slot:8082", o.BaseURL)
	assert.Equal(t, 1, o.Retries)
	assert.Equal(t, "slot-service", o.Caller)
	assert.Same(t, a.JWT, o.JWT)
	assert.False(t, o.ServiceTokenOnly)
}

func TestEngineServesHealth(t *testing.T) {
	a := initWith(t, "jwt:\n  secret: x\n")
	r := a.Engine(a.DBHealth)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "slot-service")
}
