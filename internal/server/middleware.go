package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/auth"
)

// actorMiddleware resolves a bearer token into an actor identity and
// attaches it to the request context. Requests without a valid token
// proceed with no actor; the gate decides per operation whether that
// is acceptable.
func actorMiddleware(resolver *auth.TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if actor, ok := resolver.ResolveActor(token); ok {
				r = r.WithContext(auth.WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts a bearer token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// requestLogger logs each request with method, path, status and duration
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
			)
		})
	}
}

// statusWriter captures the response status code for logging
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
