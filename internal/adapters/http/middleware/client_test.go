package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lomba17/internal/domain/admin"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

func clientHandler(seen *string) http.Handler {
	return Client(testHashKey, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = admin.ClientFromContext(r.Context())
	}))
}

func clientCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == ClientCookieName {
			return c
		}
	}
	t.Fatal("client cookie not set")
	return nil
}

// TestClient_IssuesAndReusesID sets a cookie once and reads it back.
func TestClient_IssuesAndReusesID(t *testing.T) {
	var seen string
	h := clientHandler(&seen)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	first := seen
	if first == "" {
		t.Fatal("first request should get a client id")
	}
	cookie := clientCookie(t, rr)
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("cookie = %+v", cookie)
	}

	req := httptest.NewRequest("GET", "/peserta", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != first {
		t.Errorf("id = %q, want %q", seen, first)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("a valid cookie must not be reissued")
	}
}

// TestClient_DistinctBrowsers gives two cookie-less requests different ids.
func TestClient_DistinctBrowsers(t *testing.T) {
	var a, b string
	clientHandler(&a).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	clientHandler(&b).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if a == "" || a == b {
		t.Errorf("ids = %q, %q, want two distinct ids", a, b)
	}
}

// TestClient_RejectsForgedCookie replaces an unsigned id.
func TestClient_RejectsForgedCookie(t *testing.T) {
	var seen string
	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "someone-elses-id"})
	rr := httptest.NewRecorder()
	clientHandler(&seen).ServeHTTP(rr, req)
	if seen == "" || seen == "someone-elses-id" {
		t.Errorf("id = %q, want a fresh id", seen)
	}
	clientCookie(t, rr)
}

// TestClient_SkipsStatic leaves assets without an id or cookie.
func TestClient_SkipsStatic(t *testing.T) {
	seen := "unset"
	rr := httptest.NewRecorder()
	clientHandler(&seen).ServeHTTP(rr, httptest.NewRequest("GET", "/static/style.css", nil))
	if seen != "" {
		t.Errorf("id = %q, want empty", seen)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("static requests must not set cookies")
	}
}
