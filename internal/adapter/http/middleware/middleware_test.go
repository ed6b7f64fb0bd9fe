package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg/logger"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(handlers...)
	router.GET("/api/todos/:id", func(c *gin.Context) {
		c.String(http.StatusOK, GetCurrent(c).RequestID())
	})

	return router
}

func TestCurrentMiddleware_GeneratesRequestID(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(CurrentMiddleware())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/todos/1", nil))

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get(RequestIDHeader)).NotTo(BeEmpty())
	Expect(w.Body.String()).To(Equal(w.Header().Get(RequestIDHeader)))
}

func TestCurrentMiddleware_KeepsClientRequestID(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(CurrentMiddleware(), LoggingMiddleware(logger.NewNopLogger()))

	req := httptest.NewRequest(http.MethodGet, "/api/todos/1?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	Expect(w.Header().Get(RequestIDHeader)).To(Equal("req-123"))
	Expect(w.Body.String()).To(Equal("req-123"))
}

func TestMetricsMiddleware_LabelsByRouteAndStatus(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)
	router := newRouter(MetricsMiddleware(metrics))

	for _, path := range []string{"/api/todos/1", "/api/todos/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(registry, "http_requests_total")

	Expect(err).To(BeNil())
	Expect(count).To(Equal(2))
}
