// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/artverify/internal/platform/apperr"
	"github.com/taibuivan/artverify/internal/platform/constants"
	"github.com/taibuivan/artverify/internal/platform/ctxutil"
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// # Rate Limiting

// RateLimit limits requests per client IP with a token bucket of rps and burst.
//
// Each call owns its own client table. Idle clients are swept every
// [constants.RateLimitCleanupInterval] until ctx is cancelled.
func RateLimit(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*rateLimitClient)
	)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > constants.RateLimitClientTTL {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Seconds until one token is refilled, for Retry-After.
	retryAfter := strconv.Itoa(int(math.Ceil(1 / rps)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := clientIP(request)

			mu.Lock()
			client, found := clients[ip]
			if !found {
				client = &rateLimitClient{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
				clients[ip] = client
			}
			client.lastSeen = time.Now()
			allowed := client.limiter.Allow()
			mu.Unlock()

			if !allowed {
				writer.Header().Set("Retry-After", retryAfter)
				writeError(writer, apperr.RateLimited())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

/*
ClientIP resolves the client address once per request and stores it in the
context for the logger and the rate limiter.

X-Real-IP and then the first X-Forwarded-For hop are honoured only when the
socket peer falls inside one of the trusted proxy prefixes. With no prefixes
configured the peer address is always used.
*/
func ClientIP(trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := RealIP(request, trustedProxies)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClientIP(request.Context(), ip)))
		})
	}
}

// RealIP returns the client address for request given the trusted proxies.
func RealIP(request *http.Request, trustedProxies []netip.Prefix) string {
	peer := peerIP(request)
	if !trusted(peer, trustedProxies) {
		return peer
	}

	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return peer
}

// clientIP prefers the address resolved by ClientIP.
func clientIP(request *http.Request) string {
	if ip := ctxutil.GetClientIP(request.Context()); ip != "" {
		return ip
	}
	return peerIP(request)
}

func peerIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

func trusted(peer string, prefixes []netip.Prefix) bool {
	if len(prefixes) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
