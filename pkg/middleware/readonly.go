package middleware

import (
	"net/http"

	apperrors "khietan/pkg/errors"
	"khietan/pkg/logger"
)

const ReadOnlyMessage = "Method not allowed. Homepage API is read-only."

// ReadOnly rejects every method except GET and OPTIONS, on any path, with 405.
func ReadOnly(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("Rejected write on read-only API",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set("Allow", "GET, OPTIONS")
			if err := apperrors.WriteError(w, apperrors.MethodNotAllowed(ReadOnlyMessage)); err != nil {
				log.Error("failed to write error response", "handler", "ReadOnly", "operation", "WriteError", "error", err)
			}
		})
	}
}
