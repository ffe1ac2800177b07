package web

import (
	"embed"
	"net/http"
	"time"

	"lomba17/internal/adapters/http/middleware"
	"lomba17/internal/adapters/http/perf"
	"lomba17/internal/adapters/storage/adminflag"
	"lomba17/internal/adapters/storage/catalog"
	"lomba17/internal/adapters/storage/kv"
	"lomba17/internal/adapters/storage/legacy"
	"lomba17/internal/application/events"
	"lomba17/internal/application/orchestrators"
	"lomba17/internal/domain/admin"
)

//go:embed templates/*.html static/*
var assets embed.FS

// ParticipantBackend is everything the pages need from the participant backend.
type ParticipantBackend interface {
	orchestrators.ParticipantBackend
	orchestrators.ParticipantAdminBackend
}

// Deps holds every dependency the handlers use.
type Deps struct {
	KV        kv.Store
	Catalog   *catalog.Store
	AdminFlag *adminflag.Store
	Legacy    *legacy.Store

	Backend ParticipantBackend
	Monitor *orchestrators.BackendMonitor

	Events   *events.Bus
	Activity *events.Recorder

	Email    orchestrators.NotificationSender
	NotifyTo []string

	AdminPassword admin.Password
	Location      *time.Location
	Perf          *perf.Collector
}

// Options tunes the middleware chain.
type Options struct {
	CSRFKey        []byte // 32 bytes; also signs the client cookie
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int // requests per minute per client; <= 0 means DefaultRateLimit
	SlowRequestMs  int
}

// DefaultRateLimit applies when Options.RateLimit is unset.
const DefaultRateLimit = 120

// Global dependencies (set by NewMux)
var app *Deps

// NewMux wires HTTP handlers for the app.
func NewMux(d *Deps, opts Options) http.Handler {
	app = d
	if app.Location == nil {
		app.Location = time.Local
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.FileServerFS(assets))
	registerRoutes(mux)

	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	limiter := middleware.NewRateLimiter(opts.RateLimit, time.Minute)

	// Apply middleware: Timing -> RateLimit -> Client -> Admin -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.Admin(app.AdminFlag),
		middleware.Client(opts.CSRFKey, opts.SecureCookies),
		middleware.RateLimit(limiter),
		middleware.Timing(app.Perf, opts.SlowRequestMs, mux),
	)
}

func registerRoutes(mux *http.ServeMux) {
	gate := middleware.RequireAdmin

	mux.HandleFunc("GET /healthz", handleHealthz)

	// Public pages
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /daftar", handleRegisterForm)
	mux.HandleFunc("POST /daftar", handleRegister)
	mux.HandleFunc("GET /peserta", handleParticipants)
	mux.HandleFunc("GET /turnamen", handleStandings)

	// Admin flag
	mux.HandleFunc("GET /admin/login", handleAdminLoginForm)
	mux.HandleFunc("POST /admin/login", handleAdminLogin)
	mux.HandleFunc("POST /admin/logout", handleAdminLogout)

	// Admin pages
	mux.Handle("GET /admin", gate(http.HandlerFunc(handleAdminDashboard)))
	mux.Handle("POST /admin/competitions", gate(http.HandlerFunc(handleSaveCompetition)))
	mux.Handle("POST /admin/competitions/delete", gate(http.HandlerFunc(handleDeleteCompetition)))
	mux.Handle("POST /admin/age-groups", gate(http.HandlerFunc(handleSaveAgeGroup)))
	mux.Handle("POST /admin/age-groups/delete", gate(http.HandlerFunc(handleDeleteAgeGroup)))
	mux.Handle("GET /admin/peserta", gate(http.HandlerFunc(handleAdminParticipants)))
	mux.Handle("POST /admin/peserta", gate(http.HandlerFunc(handleAdminAddParticipant)))
	mux.Handle("POST /admin/peserta/update", gate(http.HandlerFunc(handleAdminUpdateParticipant)))
	mux.Handle("POST /admin/peserta/delete", gate(http.HandlerFunc(handleAdminDeleteParticipant)))
	mux.Handle("POST /admin/peserta/action", gate(http.HandlerFunc(handleAdminParticipantAction)))
	mux.Handle("GET /admin/legacy", gate(http.HandlerFunc(handleLegacyList)))
	mux.Handle("POST /admin/legacy", gate(http.HandlerFunc(handleLegacySave)))
	mux.Handle("POST /admin/legacy/delete", gate(http.HandlerFunc(handleLegacyDelete)))
	mux.Handle("GET /admin/export.csv", gate(http.HandlerFunc(handleLegacyExport)))

	// JSON API
	mux.HandleFunc("GET /api/competitions", handleAPICompetitions)
	mux.HandleFunc("GET /api/age-groups", handleAPIAgeGroups)
	mux.HandleFunc("GET /api/state", handleAPIState)
	mux.HandleFunc("GET /api/backend-status", handleAPIBackendStatus)
	mux.HandleFunc("POST /api/backend-status/check", handleAPIBackendCheck)
	mux.HandleFunc("POST /api/admin/toggle", handleAPIAdminToggle)
}
