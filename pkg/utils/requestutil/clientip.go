// Package requestutil provides helpers for extracting client context from
// inbound HTTP requests. The extracted values are used as audit metadata
// only, never for authorization decisions.
package requestutil

import (
	"net"
	"net/http"
	"strings"
)

// ClientContext carries the client-facing request metadata recorded with
// every audit entry.
type ClientContext struct {
	IP        string
	UserAgent string
}

// FromRequest extracts the client IP and user agent from the request.
func FromRequest(r *http.Request) ClientContext {
	return ClientContext{
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// ClientIP returns the client IP address from the request.
// Forwarded headers are preferred over the raw connection address, but a
// forwarded value is only accepted when it parses as a public routable
// address; anything else falls back to the next candidate.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs (client, proxy1, ...);
		// the first entry is the original client.
		parts := strings.Split(xff, ",")
		ip := strings.TrimSpace(parts[0])
		if IsPublicIP(ip) {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if isValidIP(xri) {
			return xri
		}
	}

	return remoteIP(r)
}

// remoteIP extracts the IP address from http.Request.RemoteAddr.
// RemoteAddr is in the form "IP:port", so we need to split it.
func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// isValidIP validates that the given string is a valid IP address.
// This prevents injection of arbitrary header data into audit records.
func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsPublicIP reports whether ip parses as a public routable address.
func IsPublicIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast() || parsed.IsMulticast() {
		return false
	}
	return true
}
