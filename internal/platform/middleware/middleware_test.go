// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artverify/internal/platform/ctxutil"
	"github.com/taibuivan/artverify/internal/platform/middleware"
)

// httptest requests come from 192.0.2.1.
var testProxies = []netip.Prefix{netip.MustParsePrefix("192.0.2.0/24")}

type corsConfig struct {
	development bool
	suffix      string
}

func (c corsConfig) IsDevelopment() bool  { return c.development }
func (c corsConfig) OriginSuffix() string { return c.suffix }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequestID_GeneratesAndPropagates checks header echo and context injection.
*/
func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	// Client supplied IDs are kept
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)

	// Oversized IDs are replaced
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Len(t, seen, 36)
}

/*
TestStructuredLogger writes one access line carrying the request ID and status.
*/
func TestStructuredLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	var injected bool
	handler := middleware.RequestID()(middleware.StructuredLogger(logger)(http.HandlerFunc(
		func(writer http.ResponseWriter, request *http.Request) {
			injected = ctxutil.GetLogger(request.Context()) != slog.Default()
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte("missing"))
		},
	)))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/artists/9", nil)
	request.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.True(t, injected)

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "http_request_finished", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.EqualValues(t, 404, line["status"])
	assert.EqualValues(t, 7, line["bytes"])
}

/*
TestPanicRecovery converts panics into a 500 JSON response.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestCORS covers development, production allow-list and pre-flight handling.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corsConfig
		origin  string
		allowed bool
	}{
		{"development_any_origin", corsConfig{development: true}, "http://localhost:5173", true},
		{"production_suffix_match", corsConfig{suffix: "artverify.app"}, "https://ui.artverify.app", true},
		{"production_suffix_mismatch", corsConfig{suffix: "artverify.app"}, "https://evil.example", false},
		{"production_no_suffix", corsConfig{}, "https://ui.artverify.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set("Origin", "http://localhost")
	recorder := httptest.NewRecorder()
	middleware.CORS(corsConfig{development: true})(okHandler).ServeHTTP(recorder, preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestRateLimit rejects requests once the burst is spent.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.ClientIP(testProxies)(middleware.RateLimit(ctx, 0.001, 2)(okHandler))

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", "10.0.0.7")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients have their own bucket
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Real-IP", "10.0.0.8")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Rejections advertise when to retry
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Real-IP", "10.0.0.7")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "1000", recorder.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Rate limit exceeded","code":"TOO_MANY_REQUESTS"}`, recorder.Body.String())
}

/*
TestRealIP honours forwarding headers only from trusted proxy peers.
*/
func TestRealIP(t *testing.T) {
	tests := []struct {
		name      string
		peer      string
		realIP    string
		forwarded string
		proxies   []netip.Prefix
		want      string
	}{
		{name: "peer only", peer: "192.0.2.1:1234", proxies: testProxies, want: "192.0.2.1"},
		{name: "forwarded from proxy", peer: "192.0.2.1:1234", forwarded: "203.0.113.9, 10.0.0.1", proxies: testProxies, want: "203.0.113.9"},
		{name: "real ip wins", peer: "192.0.2.1:1234", realIP: "198.51.100.4", forwarded: "203.0.113.9", proxies: testProxies, want: "198.51.100.4"},
		{name: "untrusted peer", peer: "198.51.100.77:4000", realIP: "10.9.9.9", forwarded: "10.8.8.8", proxies: testProxies, want: "198.51.100.77"},
		{name: "no proxies configured", peer: "192.0.2.1:1234", realIP: "10.9.9.9", want: "192.0.2.1"},
		{name: "mapped ipv4 peer", peer: "[::ffff:192.0.2.5]:80", realIP: "198.51.100.4", proxies: testProxies, want: "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.peer
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			assert.Equal(t, tt.want, middleware.RealIP(request, tt.proxies))
		})
	}
}

/*
TestRateLimit_SpoofedHeaders keeps a direct client in one bucket however it
rotates X-Forwarded-For.
*/
func TestRateLimit_SpoofedHeaders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.ClientIP(nil)(middleware.RateLimit(ctx, 0.001, 2)(okHandler))

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Forwarded-For", spoofed)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
