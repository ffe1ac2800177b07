package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lomba17/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// unmatchedRoute labels requests no route claimed, so stray paths share one
// collector bucket.
const unmatchedRoute = "unmatched"

// statusRecorder remembers the first status code written.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// RouteMatcher reports the pattern that would serve r. *http.ServeMux
// satisfies it.
type RouteMatcher interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// Timing measures every non-static request and records it in collector under
// its route pattern ("GET /admin/peserta"), or "unmatched" when routes has no
// match. Requests at or above slowMs log at WARN, the rest at DEBUG.
// slowMs <= 0 means DefaultSlowRequestMs; a nil collector only logs.
func Timing(collector *perf.Collector, slowMs int, routes RouteMatcher) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			_, pattern := routes.Handler(r)
			route := routeLabel(r.Method, pattern)
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				attrs := []any{"route", route, "path", r.URL.Path, "status", rec.code(), "duration_ms", ms}
				if ms >= threshold {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("request", attrs...)
				}
				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: rec.code(),
						DurationMs: ms,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func routeLabel(method, pattern string) string {
	if pattern == "" {
		return unmatchedRoute
	}
	if strings.Contains(pattern, " ") {
		return pattern
	}
	return method + " " + pattern
}
