package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAuth(t *testing.T) {
	var seen int64
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"", "abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(UserIDHeader, header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), seen)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "given", seen)
}

func TestAccessLog_WritesRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logger.NewWithWriter(&buf, "info")))
	r.HandleFunc("/bookings/{bookingId}", okHandler).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/bookings/17", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, "GET /bookings/{bookingId}")
	assert.Contains(t, line, "status=204")
	assert.Contains(t, line, "request_id=req-123")
}

type observed struct {
	method, route, status string
}

type fakeHTTPMetrics struct {
	mu   sync.Mutex
	seen []observed
}

func (f *fakeHTTPMetrics) ObserveHTTP(method, route, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, observed{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/{bookingId}", okHandler).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/17", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, observed{"GET", "/bookings/{bookingId}", "204"}, m.seen[0])
}

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRateLimiter_RedisDown(t *testing.T) {
	rdb := unreachableRedis()
	defer rdb.Close()

	t.Run("fail open", func(t *testing.T) {
		rl := NewRateLimiter(rdb, 1, time.Minute, "test", true, logger.Nop())
		rec := httptest.NewRecorder()
		rl.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("fail closed", func(t *testing.T) {
		rl := NewRateLimiter(rdb, 1, time.Minute, "test", false, logger.Nop())
		rec := httptest.NewRecorder()
		rl.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(nil, 0, 0, " ", true, logger.Nop())
	assert.Equal(t, defaultRateLimit, rl.limit)
	assert.Equal(t, defaultRateWindow, rl.window)
	assert.Equal(t, "rl", rl.prefix)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	assert.Equal(t, "ip:10.0.0.5", clientKey(req))

	req = req.WithContext(WithUserID(req.Context(), 7))
	assert.Equal(t, "user:7", clientKey(req))
}
