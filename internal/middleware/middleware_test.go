package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestCORS(t *testing.T) {
	w := httptest.NewRecorder()
	CORS(ok).ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/tools/pipe/calc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	CORS(ok).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/pipe/calc", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestLoggingPassesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	Logging(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	h := NewIPRateLimiter(0, 2).LimitMiddleware(ok)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusTeapot, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTeapot, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusTeapot, call("10.0.0.2:1000"))
}

func TestRateLimiterDropsIdleAddresses(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	l.getLimiter("10.0.0.1")
	l.getLimiter("10.0.0.2")
	assert.Len(t, l.ips, 2)

	clock = clock.Add(IdleTTL / 2)
	l.getLimiter("10.0.0.2")

	clock = clock.Add(IdleTTL/2 + time.Second)
	l.getLimiter("10.0.0.3")
	assert.Len(t, l.ips, 2)
	assert.NotContains(t, l.ips, "10.0.0.1")
	assert.Contains(t, l.ips, "10.0.0.2")
}

func TestTraceNamesSpanAfterRoute(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	r := mux.NewRouter()
	r.Use(Trace(tp))
	r.Handle("/api/tools/{panel}/calc", ok).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/pipe/calc", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/tools/{panel}/calc", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.status_code", http.StatusTeapot))
}

func TestWrappersKeepWebsocketUpgrade(t *testing.T) {
	var up websocket.Upgrader
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		mt, msg, err := conn.ReadMessage()
		if err == nil {
			_ = conn.WriteMessage(mt, msg)
		}
	})
	srv := httptest.NewServer(Logging(CORS(echo)))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+srv.URL[len("http"):], nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hi", string(msg))
}
