package orchestrators

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"lomba17/internal/application/events"
	"lomba17/internal/domain/admin"
)

func newAdminDeps(t *testing.T, flag *mockFlagStore) (AdminDeps, *recordingPublisher) {
	t.Helper()
	pw, err := admin.NewPassword(admin.DefaultPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPassword: %v", err)
	}
	pub := &recordingPublisher{}
	return AdminDeps{Flag: flag, Password: pw, Events: pub}, pub
}

// TestExecuteEnableAdmin_CorrectPassword turns the flag on and broadcasts.
func TestExecuteEnableAdmin_CorrectPassword(t *testing.T) {
	flag := &mockFlagStore{}
	deps, pub := newAdminDeps(t, flag)

	if err := ExecuteEnableAdmin(context.Background(), "merdeka17", deps); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !flag.active {
		t.Error("expected flag on")
	}
	if len(pub.events) != 1 || pub.events[0] != (events.AdminStatusChanged{Active: true}) {
		t.Errorf("events = %v", pub.events)
	}
}

// TestExecuteEnableAdmin_WrongPassword leaves the flag unchanged.
func TestExecuteEnableAdmin_WrongPassword(t *testing.T) {
	flag := &mockFlagStore{}
	deps, pub := newAdminDeps(t, flag)

	err := ExecuteEnableAdmin(context.Background(), "merdeka45", deps)
	if !errors.Is(err, ErrWrongAdminPassword) {
		t.Fatalf("expected ErrWrongAdminPassword, got %v", err)
	}
	if flag.active {
		t.Error("flag must stay off")
	}
	if len(pub.events) != 0 {
		t.Errorf("no event expected, got %v", pub.events)
	}
}

// TestExecuteDisableAdmin needs no password.
func TestExecuteDisableAdmin(t *testing.T) {
	flag := &mockFlagStore{active: true}
	deps, pub := newAdminDeps(t, flag)

	ExecuteDisableAdmin(context.Background(), deps)
	if flag.active {
		t.Error("expected flag off")
	}
	if len(pub.events) != 1 || pub.events[0] != (events.AdminStatusChanged{Active: false}) {
		t.Errorf("events = %v", pub.events)
	}
}

// TestExecuteToggleAdmin covers both directions.
func TestExecuteToggleAdmin(t *testing.T) {
	ctx := context.Background()
	flag := &mockFlagStore{}
	deps, _ := newAdminDeps(t, flag)

	if _, err := ExecuteToggleAdmin(ctx, "salah", deps); !errors.Is(err, ErrWrongAdminPassword) {
		t.Errorf("expected ErrWrongAdminPassword, got %v", err)
	}
	on, err := ExecuteToggleAdmin(ctx, "merdeka17", deps)
	if err != nil || !on {
		t.Fatalf("toggle on: %v, %v", on, err)
	}
	off, err := ExecuteToggleAdmin(ctx, "", deps)
	if err != nil || off {
		t.Errorf("toggle off: %v, %v", off, err)
	}
}

// TestExecuteEnableAdmin_LostWrite returns ErrAdminNotPersisted and stays quiet.
func TestExecuteEnableAdmin_LostWrite(t *testing.T) {
	flag := &mockFlagStore{broken: true}
	deps, pub := newAdminDeps(t, flag)

	err := ExecuteEnableAdmin(context.Background(), "merdeka17", deps)
	if !errors.Is(err, ErrAdminNotPersisted) {
		t.Fatalf("expected ErrAdminNotPersisted, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("no event expected for a lost write, got %v", pub.events)
	}

	if _, err := ExecuteToggleAdmin(context.Background(), "merdeka17", deps); !errors.Is(err, ErrAdminNotPersisted) {
		t.Errorf("toggle: expected ErrAdminNotPersisted, got %v", err)
	}
}
