package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lomba17/internal/adapters/http/perf"
)

// routedMux mirrors the real layout: Timing wraps a mux with method patterns.
func routedMux(collector *perf.Collector, slowMs int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("POST /daftar", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	mux.HandleFunc("GET /turnamen", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	mux.HandleFunc("GET /static/", func(w http.ResponseWriter, r *http.Request) {})
	return Timing(collector, slowMs, mux)(mux)
}

// paths returns the recorded request labels with their counts.
func paths(c *perf.Collector) map[string]int {
	out := map[string]int{}
	for _, ps := range c.Snapshot(time.Time{}, 50).SlowestPaths {
		out[ps.Path] = ps.Count
	}
	return out
}

func TestTiming_RecordsRoutePattern(t *testing.T) {
	collector := perf.NewCollector(100)
	h := routedMux(collector, 0)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/state?x=1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/daftar", nil))

	got := paths(collector)
	if got["GET /api/state"] != 1 || got["POST /daftar"] != 1 {
		t.Errorf("recorded paths = %v", got)
	}
}

func TestTiming_UnmatchedPathsShareABucket(t *testing.T) {
	collector := perf.NewCollector(100)
	h := routedMux(collector, 0)

	for _, p := range []string{"/wp-login.php", "/.env", "/xmlrpc.php"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", p, nil))
	}

	got := paths(collector)
	if len(got) != 1 || got[unmatchedRoute] != 3 {
		t.Errorf("recorded paths = %v, want only %q x3", got, unmatchedRoute)
	}
}

func TestStatusRecorder(t *testing.T) {
	implicit := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	implicit.Write([]byte("ok"))
	if implicit.code() != http.StatusOK {
		t.Errorf("implicit status = %d, want 200", implicit.code())
	}

	explicit := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	explicit.WriteHeader(http.StatusUnprocessableEntity)
	explicit.WriteHeader(http.StatusOK)
	if explicit.code() != http.StatusUnprocessableEntity {
		t.Errorf("explicit status = %d, want first code 422", explicit.code())
	}

	untouched := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if untouched.code() != http.StatusOK {
		t.Errorf("untouched status = %d, want 200", untouched.code())
	}
}

func TestTiming_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	h := routedMux(collector, 0)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/static/app.js", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestTiming_NilCollector(t *testing.T) {
	h := routedMux(nil, 0)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/state", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestTiming_DurationMeasured(t *testing.T) {
	collector := perf.NewCollector(100)
	h := routedMux(collector, 1)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/turnamen", nil))

	for _, ps := range collector.Snapshot(time.Time{}, 10).SlowestPaths {
		if ps.Path == "GET /turnamen" && ps.MaxMs < 5 {
			t.Errorf("MaxMs = %.2f, want >= 5", ps.MaxMs)
		}
	}
}

func TestTiming_HandlerPanicStillRecords(t *testing.T) {
	collector := perf.NewCollector(100)
	h := Timing(collector, 0, http.NewServeMux())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/admin", nil))
}

func TestRouteLabel(t *testing.T) {
	cases := []struct {
		method, pattern, want string
	}{
		{"GET", "", unmatchedRoute},
		{"GET", "GET /peserta", "GET /peserta"},
		{"GET", "/{$}", "GET /{$}"},
		{"HEAD", "GET /peserta", "GET /peserta"},
	}
	for _, tc := range cases {
		if got := routeLabel(tc.method, tc.pattern); got != tc.want {
			t.Errorf("routeLabel(%s, %q) = %q, want %q", tc.method, tc.pattern, got, tc.want)
		}
	}
}
