// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack, in mounting order:

  - RequestID: correlation ID for log tracing.
  - ClientIP: client address, from proxy headers only behind trusted proxies.
  - StructuredLogger: per-request slog logger and the access log line.
  - RateLimit: per-IP token bucket.
  - PanicRecovery: turns panics into 500 responses.
  - CORS: origin policy for the badge UI.
*/
package middleware
