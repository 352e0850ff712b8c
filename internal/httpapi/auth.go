package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminMiddleware gates the elevated operations (direct-add, call, transfer,
// stats) behind a static bearer token. Real authentication and session
// management live in the external service; this is only the local
// elevated-permission check.
func AdminMiddleware(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		if token == "" {
			writeError(w, http.StatusForbidden, "access_denied", "admin access is not configured")
			return
		}
		presented := bearerToken(r.Header.Get("Authorization"))
		if presented == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing admin token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			writeError(w, http.StatusForbidden, "access_denied", "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isPublicEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics", "/api/queue/join", "/api/queue/join-group",
		"/api/queue/public", "/api/queue/settings", "/api/ticket":
		return true
	default:
		return r.Method == http.MethodOptions
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
