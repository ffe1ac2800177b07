package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"lomba17/internal/application/events"
	"lomba17/internal/domain/admin"
)

var (
	// ErrWrongAdminPassword is returned when the admin password does not match.
	ErrWrongAdminPassword = errors.New("wrong admin password")
	// ErrAdminNotPersisted is returned when the password matched but the flag
	// could not be stored.
	ErrAdminNotPersisted = errors.New("admin flag not persisted")
)

// AdminFlagStore defines the store interface needed by the admin orchestrators.
type AdminFlagStore interface {
	IsAdmin(ctx context.Context) bool
	SetAdminStatus(ctx context.Context, active bool)
}

// AdminDeps holds dependencies for the admin flag orchestrators.
type AdminDeps struct {
	Flag     AdminFlagStore
	Password admin.Password
	Events   events.Publisher
}

// ExecuteEnableAdmin switches admin mode on when password matches.
// PRE: deps.Password was built from the configured password
// POST: On match and a successful write the flag is on and
// AdminStatusChanged is published. A wrong password returns
// ErrWrongAdminPassword; a lost write returns ErrAdminNotPersisted. In both
// cases nothing is published.
func ExecuteEnableAdmin(ctx context.Context, password string, deps AdminDeps) error {
	if err := deps.Password.Check(password); err != nil {
		slog.Info("admin_event", "event", "enable_rejected", "reason", "wrong_password")
		return ErrWrongAdminPassword
	}
	deps.Flag.SetAdminStatus(ctx, true)
	if !deps.Flag.IsAdmin(ctx) {
		slog.Warn("admin_event", "event", "enable_rejected", "reason", "not_persisted")
		return ErrAdminNotPersisted
	}
	slog.Info("admin_event", "event", "admin_enabled")
	deps.Events.Publish(events.AdminStatusChanged{Active: true})
	return nil
}

// ExecuteDisableAdmin switches admin mode off. No password is needed.
// POST: Flag is off; AdminStatusChanged{Active:false} is published
func ExecuteDisableAdmin(ctx context.Context, deps AdminDeps) {
	deps.Flag.SetAdminStatus(ctx, false)
	slog.Info("admin_event", "event", "admin_disabled")
	deps.Events.Publish(events.AdminStatusChanged{Active: deps.Flag.IsAdmin(ctx)})
}

// ExecuteToggleAdmin flips admin mode. Turning it on requires password;
// turning it off ignores it.
// POST: Returns the flag value after the call
func ExecuteToggleAdmin(ctx context.Context, password string, deps AdminDeps) (bool, error) {
	if deps.Flag.IsAdmin(ctx) {
		ExecuteDisableAdmin(ctx, deps)
		return deps.Flag.IsAdmin(ctx), nil
	}
	if err := ExecuteEnableAdmin(ctx, password, deps); err != nil {
		return false, err
	}
	return deps.Flag.IsAdmin(ctx), nil
}
