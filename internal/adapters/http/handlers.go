package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"lomba17/internal/adapters/http/middleware"
	"lomba17/internal/domain/participant"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// formInt parses a form field; empty or malformed values yield ok=false.
func formInt(r *http.Request, field string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	return n, err == nil
}

// withQuery appends a single query parameter when value is non-empty.
func withQuery(path, key, value string) string {
	if value == "" {
		return path
	}
	return path + "?" + url.Values{key: {value}}.Encode()
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data map[string]any) {
	isAdmin := middleware.IsAdmin(r.Context())
	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"isAdmin":        func() bool { return isAdmin },
		"renderMarkdown": renderMarkdown,
		"add":            func(a, b int) int { return a + b },
		"join":           strings.Join,
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.In(app.Location).Format("02/01/2006 15.04.05")
		},
		"formatMillis": func(ms int64) string {
			return time.UnixMilli(ms).In(app.Location).Format("02/01/2006 15.04")
		},
		"formatSeconds": participant.FormatSeconds,
		"statusClass":   statusClass,
		"selected": func(a, b string) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Backend"]; !ok && app.Monitor != nil {
		data["Backend"] = app.Monitor.Status()
	}
	data["Revision"] = currentRevision(r)

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// currentRevision is embedded in every page so the poller can detect changes.
func currentRevision(r *http.Request) int64 {
	rev, err := app.KV.Revision(r.Context())
	if err != nil {
		return 0
	}
	return rev
}

// statusClass maps a participant status to a CSS modifier.
func statusClass(status string) string {
	switch status {
	case participant.StatusFirst, participant.StatusSecond, participant.StatusThird:
		return "juara"
	case participant.StatusAdvanced:
		return "lolos"
	case participant.StatusDisqualified:
		return "dq"
	default:
		return "terdaftar"
	}
}

// handleHealthz handles GET /healthz for this process only.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
