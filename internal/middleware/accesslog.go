package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"moviecatalog/internal/logging"
)

// AccessLog writes one structured line per request. Server errors are
// logged at error level, client errors at warn.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		logger := logging.Ctx(r.Context())
		var event *zerolog.Event
		switch {
		case rec.status >= 500:
			event = logger.Error()
		case rec.status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("Request handled")
	})
}
