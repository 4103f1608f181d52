package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP saca la IP del caller: primer hop de X-Forwarded-For si
// existe, si no el RemoteAddr pelado. Es señal de abuso, no identidad.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.SplitN(fwd, ",", 2)
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
