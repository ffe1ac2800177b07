package peserta

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lomba17/internal/adapters/http/perf"
	"lomba17/internal/domain/participant"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *perf.Collector) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	collector := perf.NewCollector(100)
	return NewClient(srv.URL+"/", 2*time.Second, collector), collector
}

// TestHealth_OK accepts any 2xx.
func TestHealth_OK(t *testing.T) {
	c, collector := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("backend call not recorded")
	}
}

// TestHealth_Non2xx maps to ErrUnreachable.
func TestHealth_Non2xx(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := c.Health(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

// TestHealth_ConnectionRefused maps to ErrUnreachable.
func TestHealth_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	c := NewClient(addr, time.Second, nil)
	if err := c.Health(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

// TestList decodes the success envelope.
func TestList(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/peserta" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		io.WriteString(w, `{"success":true,"data":[{"_id":"p1","nama":"Budi","usia":12,"jenisLomba":"Balap Karung","status":"Terdaftar","skor":9.5}]}`)
	})
	got, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" || got[0].Skor != 9.5 || got[0].Status != participant.StatusRegistered {
		t.Errorf("got %+v", got)
	}
}

// TestList_EmptyData returns a non-nil slice.
func TestList_EmptyData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":null}`)
	})
	got, err := c.List(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("got %#v, %v", got, err)
	}
}

// TestCreate sends the payload without an id and returns the backend record.
func TestCreate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("got %s with %q", r.Method, r.Header.Get("Content-Type"))
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["_id"]; ok {
			t.Error("payload must not carry _id")
		}
		if body["nama"] != "Sari" || body["noTelepon"] != "Tidak ada" || body["usia"] != float64(30) {
			t.Errorf("payload = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"success":true,"data":{"_id":"new1","nama":"Sari","usia":30,"jenisLomba":"Bakiak"}}`)
	})
	got, err := c.Create(context.Background(), participant.Participant{ID: "client-side", Nama: "Sari", NoTelepon: "Tidak ada", Usia: 30, JenisLomba: "Bakiak"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "new1" {
		t.Errorf("ID = %q, want new1", got.ID)
	}
}

// TestCreate_DuplicateName decodes the conflict payload.
func TestCreate_DuplicateName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"success":false,"message":"Peserta sudah terdaftar","duplicateField":"nama","duplicateValue":"Budi","duplicateLomba":"Bakiak"}`)
	})
	_, err := c.Create(context.Background(), participant.Participant{Nama: "Budi"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 409 || apiErr.DuplicateLomba != "Bakiak" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if msg := apiErr.Describe("Bakiak"); !strings.Contains(msg, `Nama "Budi" sudah terdaftar untuk lomba "Bakiak"`) {
		t.Errorf("Describe = %q", msg)
	}
}

// TestUpdateStatus sends only the status field.
func TestUpdateStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/peserta/abc" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != `{"status":"Juara 1"}` {
			t.Errorf("body = %s", b)
		}
		io.WriteString(w, `{"success":true}`)
	})
	if err := c.UpdateStatus(context.Background(), "abc", participant.StatusFirst); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := c.UpdateStatus(context.Background(), "abc", "Juara 4"); !errors.Is(err, participant.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

// TestUpdate keeps the submitted record when the backend returns no data.
func TestUpdate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	})
	got, err := c.Update(context.Background(), "p9", participant.Participant{Nama: "Rina", Skor: 88})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ID != "p9" || got.Nama != "Rina" || got.Skor != 88 {
		t.Errorf("got %+v", got)
	}
}

// TestDelete hits DELETE /api/peserta/:id and surfaces 404s.
func TestDelete(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path == "/api/peserta/gone" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Peserta tidak ditemukan"}`)
			return
		}
		io.WriteString(w, `{"success":true}`)
	})
	if err := c.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var apiErr *APIError
	if err := c.Delete(context.Background(), "gone"); !errors.As(err, &apiErr) || apiErr.Message != "Peserta tidak ditemukan" {
		t.Errorf("expected APIError with message, got %v", err)
	}
	if err := c.Delete(context.Background(), ""); !errors.Is(err, participant.ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

// TestAction posts the action and returns the updated record.
func TestAction(t *testing.T) {
	c, collector := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/peserta/p1/action" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["action"] != "DQ" {
			t.Errorf("action = %q", body["action"])
		}
		io.WriteString(w, `{"success":true,"data":{"_id":"p1","status":"Diskualifikasi"}}`)
	})
	got, err := c.Action(context.Background(), "p1", participant.ActionDisqualify)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	if !got.IsDisqualified() {
		t.Errorf("status = %q", got.Status)
	}
	if _, err := c.Action(context.Background(), "p1", "Menang"); !errors.Is(err, participant.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestBackend) != 1 || snap.SlowestBackend[0].Path != "POST /api/peserta/:id/action" {
		t.Errorf("backend stats = %+v", snap.SlowestBackend)
	}
}

// TestAPIError_Describe walks the message rules in priority order.
func TestAPIError_Describe(t *testing.T) {
	tests := []struct {
		name string
		err  APIError
		want string
	}{
		{"errors list", APIError{StatusCode: 400, Errors: []string{"usia wajib", "nama wajib"}, Message: "x"}, "Validasi gagal: usia wajib, nama wajib"},
		{"missing fields", APIError{StatusCode: 400, MissingFields: map[string]string{"usia": "Usia", "nama": "Nama"}}, "Field yang kurang: Nama, Usia"},
		{"duplicate email", APIError{StatusCode: 409, DuplicateField: "email", DuplicateValue: "a@b.c"}, `Email "a@b.c" sudah terdaftar sebelumnya.`},
		{"message", APIError{StatusCode: 422, Message: "Usia tidak sesuai"}, "Usia tidak sesuai"},
		{"bare 400", APIError{StatusCode: 400}, "Data tidak valid untuk lomba Bakiak"},
		{"bare 409", APIError{StatusCode: 409}, "Data sudah ada untuk lomba Bakiak"},
		{"bare 502", APIError{StatusCode: 502}, "Server error untuk lomba Bakiak. Silakan coba lagi nanti."},
		{"other", APIError{StatusCode: 418}, "Error 418: I'm a teapot untuk lomba Bakiak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Describe("Bakiak"); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestDecodeAPIError_NullMissingField drops null labels and survives bad bodies.
func TestDecodeAPIError_NullMissingField(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/peserta" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"missingFields":{"nama":null,"usia":"Usia"}}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `<html>oops</html>`)
	})
	_, err := c.Create(context.Background(), participant.Participant{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || len(apiErr.MissingFields) != 1 || apiErr.MissingFields["usia"] != "Usia" {
		t.Fatalf("got %v", err)
	}
	_, err = c.Action(context.Background(), "p1", participant.ActionFirst)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 || apiErr.Message != "" {
		t.Errorf("got %v", err)
	}
}
