// pkg/middleware/webhook.go
package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"aamadmin/pkg/cidr"
	"aamadmin/pkg/problems"
)

// WebhookAuth admits Brevo webhook calls. The token query parameter must
// equal the shared secret; when an allowlist is configured the caller's IP
// must additionally fall inside one of the ranges. An empty allowlist means
// no IP restriction.
//
// The caller IP is the first X-Forwarded-For entry when present, otherwise
// the transport peer. The header is trusted as-is: this service must sit
// behind a reverse proxy that overwrites client-supplied forwarding headers,
// or callers can spoof their address.
func WebhookAuth(secret string, allowed []cidr.Range, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Warnw("webhook: invalid or missing token")
				problems.Forbidden(w, "invalid or missing webhook token")
				return
			}
			if len(allowed) > 0 {
				ip := ClientIP(r)
				if !cidr.ContainsAny(allowed, ip) {
					log.Warnw("webhook: rejected source ip", "ip", ip)
					problems.Forbidden(w, "request from non-whitelisted IP address")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP resolves the perceived caller address: first forwarded-for hop
// if present, else the peer address without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
