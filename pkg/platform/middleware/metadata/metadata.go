package metadata

import (
	"net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"

	"mintgate/pkg/requestcontext"
)

// ClientMetadata extracts client IP address and a summarized User-Agent from
// the request and adds them to the context for logs and audit events.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIPFromRequest(r)
		ua := SummarizeUserAgent(r.Header.Get("User-Agent"))
		ctx := requestcontext.WithClientMetadata(r.Context(), ip, ua)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SummarizeUserAgent reduces a raw User-Agent to "name/version (os)", or
// "bot:name" for crawlers. Unparseable agents are returned trimmed.
func SummarizeUserAgent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if ua.Bot() {
		return "bot:" + name
	}
	if name == "" {
		return raw
	}
	out := name
	if version != "" {
		out += "/" + version
	}
	if os := ua.OS(); os != "" {
		out += " (" + os + ")"
	}
	return out
}

// ProxyHeaders rewrites RemoteAddr from True-Client-IP, X-Real-IP or
// X-Forwarded-For when trusted is set. Enable it only behind a proxy that
// overwrites those headers; otherwise clients choose their own address.
func ProxyHeaders(trusted bool) func(http.Handler) http.Handler {
	if trusted {
		return chimw.RealIP
	}
	return func(next http.Handler) http.Handler { return next }
}

// ClientIPFromRequest returns the host part of RemoteAddr. Forwarding headers
// are never read here; see ProxyHeaders.
func ClientIPFromRequest(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
