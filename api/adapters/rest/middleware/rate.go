package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// Rate delays requests to at most rps per second. A request whose context
// ends before its turn gets 429, or 408 when the client went away.
func Rate(log *slog.Logger, next http.HandlerFunc, rps int) http.HandlerFunc {
	if rps <= 0 {
		return next
	}

	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	return func(w http.ResponseWriter, r *http.Request) {
		if err := limiter.Wait(r.Context()); err != nil {
			log.Debug("request not admitted", "path", r.URL.Path, "error", err)
			if r.Context().Err() != nil {
				http.Error(w, "request cancelled", http.StatusRequestTimeout)
				return
			}
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
