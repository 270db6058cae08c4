package api

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient identifies requests with no usable address.
const UnknownClient = "unknown"

// ClientID identifies the caller for rate limiting: the first
// X-Forwarded-For entry, then X-Real-IP, then the remote address host.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return UnknownClient
}
