package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/handlers"
)

// MaxHeaderValueLength caps user agent and referrer before they reach audit events.
const MaxHeaderValueLength = 512

// RequestMeta stores the client IP, user agent and referrer of each request in
// its context, where handlers.RequestMetaFromContext reads them back.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: truncate(ctx.Header("User-Agent")),
			Referrer:  truncate(ctx.Header("Referer")),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}

// clientIP prefers the first valid address of X-Forwarded-For, then X-Real-IP,
// then the connection's remote address.
func clientIP(ctx huma.Context) string {
	if first, _, _ := strings.Cut(ctx.Header("X-Forwarded-For"), ","); validIP(first) {
		return strings.TrimSpace(first)
	}

	if realIP := ctx.Header("X-Real-IP"); validIP(realIP) {
		return strings.TrimSpace(realIP)
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}

	return addr
}

func validIP(s string) bool {
	return net.ParseIP(strings.TrimSpace(s)) != nil
}

func truncate(s string) string {
	if len(s) > MaxHeaderValueLength {
		return s[:MaxHeaderValueLength]
	}

	return s
}
