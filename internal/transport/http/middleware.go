package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/auth"
)

// Identity lifts the caller asserted by the upstream gateway out of request
// headers. The engine trusts these headers; authenticating them is the
// gateway's job.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := r.Header.Get("X-User-Id")
		if subject == "" {
			next.ServeHTTP(w, r)
			return
		}

		var roles []auth.Role
		for _, part := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				roles = append(roles, auth.Role(part))
			}
		}

		ctx := auth.WithIdentity(r.Context(), auth.Identity{Subject: subject, Roles: roles})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs basic request details and latency.
func RequestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
