package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	emailPkg "lomba17/internal/adapters/email"
	web "lomba17/internal/adapters/http"
	"lomba17/internal/adapters/http/perf"
	"lomba17/internal/adapters/peserta"
	"lomba17/internal/adapters/storage"
	"lomba17/internal/adapters/storage/adminflag"
	"lomba17/internal/adapters/storage/catalog"
	"lomba17/internal/adapters/storage/kv"
	"lomba17/internal/adapters/storage/legacy"
	"lomba17/internal/application/events"
	"lomba17/internal/application/orchestrators"
	"lomba17/internal/config"
	"lomba17/internal/domain/admin"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load timezone: %v", err)
	}
	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		log.Fatalf("failed to prepare CSRF key: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)

	var store kv.Store
	switch cfg.Storage {
	case config.StorageSQLite:
		// WAL mode and busy timeout for concurrent readers during polling
		dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)

		if err := db.Ping(); err != nil {
			log.Fatalf("database unreachable: %v", err)
		}
		if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		store = kv.NewSQLiteStore(storage.NewTimedDB(db, collector, cfg.SlowQueryMs))
		slog.Info("storage_event", "event", "sqlite_ready", "path", cfg.DBPath, "schema", storage.LatestSchemaVersion())
	case config.StorageMemory:
		store = kv.NewMemoryStore()
		slog.Warn("storage_event", "event", "memory_store", "note", "state is lost on restart")
	default:
		store = kv.Unavailable{}
		slog.Warn("storage_event", "event", "storage_disabled", "note", "catalog falls back to defaults, admin mode cannot be enabled")
	}

	password, err := admin.NewPassword(cfg.AdminPassword, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	bus := events.NewBus()
	recorder := events.NewRecorder(50)
	bus.Subscribe(recorder.Record)

	client := peserta.NewClient(cfg.APIURL, cfg.HTTPTimeout, collector)
	monitor := orchestrators.NewBackendMonitor(client, cfg.HTTPTimeout)
	// startup probe; the worker takes over from the first tick
	monitor.Check(context.Background())
	stopCh := make(chan struct{})
	orchestrators.StartBackgroundWorker(monitor, cfg.HealthInterval, stopCh)
	defer close(stopCh)

	var sender orchestrators.NotificationSender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_event", "event", "sender_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_event", "event", "sender_configured", "provider", "noop", "note", "LOMBA17_RESEND_KEY is not set")
		}
	}

	deps := &web.Deps{
		KV:            store,
		Catalog:       catalog.NewStore(store),
		AdminFlag:     adminflag.NewStore(store),
		Legacy:        legacy.NewStore(store),
		Backend:       client,
		Monitor:       monitor,
		Events:        bus,
		Activity:      recorder,
		Email:         sender,
		NotifyTo:      emailPkg.ParseRecipients(cfg.NotifyEmail),
		AdminPassword: password,
		Location:      loc,
		Perf:          collector,
	}
	mux := web.NewMux(deps, web.Options{
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimit:      cfg.RateLimit,
		SlowRequestMs:  cfg.SlowRequestMs,
	})

	log.Printf("Lomba17 %s starting on %s (env=%s, storage=%s, api=%s)", version, cfg.Addr, cfg.Env, cfg.Storage, cfg.APIURL)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
