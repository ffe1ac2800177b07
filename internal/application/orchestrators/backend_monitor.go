package orchestrators

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BackendState is the last known reachability of the participant backend.
type BackendState string

const (
	BackendChecking     BackendState = "checking"
	BackendConnected    BackendState = "connected"
	BackendDisconnected BackendState = "disconnected"
)

// BackendStatus is a snapshot of the monitor.
type BackendStatus struct {
	State       BackendState `json:"state"`
	APIURL      string       `json:"apiUrl"`
	LastChecked time.Time    `json:"lastChecked"`
	LastError   string       `json:"lastError,omitempty"`
}

// HealthProber is the backend probe the monitor runs.
type HealthProber interface {
	Health(ctx context.Context) error
	BaseURL() string
}

// BackendMonitor records the outcome of backend health probes.
// Concurrent checks are not deduplicated; whichever finishes last wins.
type BackendMonitor struct {
	prober  HealthProber
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	status BackendStatus
}

// NewBackendMonitor creates a monitor in the checking state.
// timeout bounds a single probe.
func NewBackendMonitor(prober HealthProber, timeout time.Duration) *BackendMonitor {
	return &BackendMonitor{
		prober:  prober,
		timeout: timeout,
		now:     time.Now,
		status:  BackendStatus{State: BackendChecking, APIURL: prober.BaseURL()},
	}
}

// Status returns the latest snapshot.
func (m *BackendMonitor) Status() BackendStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check probes the backend now and stores the result.
// POST: State is connected or disconnected; LastChecked is the finish time
func (m *BackendMonitor) Check(ctx context.Context) BackendStatus {
	m.mu.Lock()
	m.status.State = BackendChecking
	m.mu.Unlock()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	err := m.prober.Health(ctx)

	next := BackendStatus{State: BackendConnected, APIURL: m.prober.BaseURL(), LastChecked: m.now()}
	if err != nil {
		next.State = BackendDisconnected
		next.LastError = err.Error()
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	if prev.LastChecked.IsZero() || prevSettled(prev) != next.State {
		slog.Info("backend_status", "state", next.State, "api_url", next.APIURL, "error", next.LastError)
	}
	return next
}

// prevSettled hides the transient checking state when comparing transitions.
func prevSettled(s BackendStatus) BackendState {
	if s.LastError != "" {
		return BackendDisconnected
	}
	return BackendConnected
}

// StartBackgroundWorker probes every interval until stopCh closes. The first
// probe waits a full interval; callers run Check themselves at startup.
func StartBackgroundWorker(monitor *BackendMonitor, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				monitor.Check(context.Background())
			case <-stopCh:
				slog.Info("backend_monitor_stopped")
				return
			}
		}
	}()
}
