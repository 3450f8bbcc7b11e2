package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("keeps a safe client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("replaces an unsafe id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})
}

func TestLoggerAndMetrics(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := metrics.New()

	r := gin.New()
	r.Use(RequestID(), Logger(logger.NewFromZap(zap.New(core))), Metrics(m), Recovery(logger.NewNop()))
	r.GET("/ok/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { dto.WriteError(c, errors.New("pool exhausted")) })
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })
	r.NoRoute(NotFound())

	for _, path := range []string{"/ok/1", "/ok/2", "/boom", "/panic", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	infos := logs.FilterMessage("Requisição concluída").All()
	require.Len(t, infos, 2)
	assert.Equal(t, "/ok/1", infos[0].ContextMap()["path"])

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].ContextMap()["error"], "pool exhausted")

	assert.Equal(t, 1, logs.FilterMessage("Requisição rejeitada").Len())

	body := scrape(t, m)
	assert.Contains(t, body, `reborn_http_requests_total{method="GET",route="/ok/:id",status="204"} 2`)
	assert.Contains(t, body, `reborn_http_requests_total{method="GET",route="/boom",status="500"} 1`)
	assert.Contains(t, body, `reborn_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{Origins: []string{"https://admin.reborn.tn"}, AllowNoOrigin: true}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://admin.reborn.tn")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://admin.reborn.tn", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
