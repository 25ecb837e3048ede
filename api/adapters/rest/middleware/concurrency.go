package middleware

import (
	"log/slog"
	"net/http"
)

// Concurrency rejects requests with 503 once limit handlers are in flight.
// limit <= 0 disables the check.
func Concurrency(log *slog.Logger, next http.HandlerFunc, limit int) http.HandlerFunc {
	if limit <= 0 {
		return next
	}

	sema := make(chan struct{}, limit)

	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case sema <- struct{}{}:
			defer func() { <-sema }()
			next(w, r)
		default:
			log.Warn("request rejected, server is busy", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
			http.Error(w, "too many concurrent requests", http.StatusServiceUnavailable)
		}
	}
}
