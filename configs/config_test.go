package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DESK_SERVICE_PORT", "STORE_DRIVER", "CORS_ORIGINS", "MAX_UPLOAD_MB", "NATS_URL", "JWT_SECRET_KEY"} {
		t.Setenv(k, "")
	}
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DESK_SERVICE_PORT", "4000")

	cfg := Load()
	assert.Equal(t, "4000", cfg.DeskPort)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "3002", cfg.SocketPort)
	assert.Equal(t, "guestcard.events", cfg.NatsSubject)
	assert.Equal(t, 20, cfg.MaxUploadMB)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("DESK_TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("DESK_TEST_INT", 1))

	t.Setenv("DESK_TEST_INT", "forty")
	assert.Equal(t, 1, getEnvInt("DESK_TEST_INT", 1))

	t.Setenv("DESK_TEST_INT", "")
	assert.Equal(t, 7, getEnvInt("DESK_TEST_INT", 7))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("DESK_TEST_LIST", " http://a.test, ,http://b.test ")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList("DESK_TEST_LIST", nil))

	t.Setenv("DESK_TEST_LIST", "  ")
	assert.Equal(t, []string{"x"}, getEnvList("DESK_TEST_LIST", []string{"x"}))
}

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("test")
	require.Len(t, id, 36)
	assert.Equal(t, id, GetInstanceId())
}

func TestCustomLoggerMiddleware(t *testing.T) {
	h := middleware.RequestID(CustomLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
