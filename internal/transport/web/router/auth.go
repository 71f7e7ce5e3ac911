package router

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

// NewAdminTokenMiddleware creates a middleware that admits only requests
// carrying the shared admin token as a bearer credential. Comparison is
// constant-time over token hashes.
func NewAdminTokenMiddleware(adminToken string) func(http.Handler) http.Handler {
	expected := sha256.Sum256([]byte(adminToken))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			presented := sha256.Sum256([]byte(authHeader[len("Bearer "):]))
			if subtle.ConstantTimeCompare(expected[:], presented[:]) != 1 {
				logger := domain.LoggerFromContext(r.Context())
				logger.WarnContext(r.Context(), "rejected request with invalid admin token",
					"path", r.URL.Path)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
