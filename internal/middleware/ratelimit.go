package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cardulary/internal/ports/ratelimit"
)

// RateLimit corta con 429 cuando el caller agota la quota de la
// ventana. La key es identifier:ip; el estado vive en el limiter
// inyectado, nunca en el proceso.
func RateLimit(limiter ratelimit.Limiter, identifier string, q ratelimit.Quota) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := identifier + ":" + ClientIP(r)
			res, err := limiter.Check(r.Context(), key, q)
			if err != nil {
				// Limiter caído no tira el servicio abajo: fail-open.
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", res.ResetAt.UTC().Format(time.RFC3339))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds()) + 1
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":      "Too many requests. Please try again later.",
					"retryAfter": retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Quotas fijas por superficie.
var (
	QuotaSubmit = ratelimit.Quota{MaxRequests: 10, Window: time.Hour}
	QuotaAPI    = ratelimit.Quota{MaxRequests: 100, Window: 15 * time.Minute}
)
