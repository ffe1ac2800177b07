package orchestrators

import (
	"context"
	"errors"
	"sync"
	"time"

	"lomba17/internal/adapters/email"
	"lomba17/internal/application/events"
	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
	"lomba17/internal/domain/participant"
)

var registrationDay = time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)

func registrationClock() time.Time { return registrationDay }

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) { p.events = append(p.events, e) }

// mockFlagStore implements AdminFlagStore in memory.
type mockFlagStore struct {
	active bool
	broken bool // writes are lost
}

func (m *mockFlagStore) IsAdmin(context.Context) bool { return m.active }

func (m *mockFlagStore) SetAdminStatus(_ context.Context, active bool) {
	if m.broken {
		return
	}
	m.active = active
}

// mockCatalog implements CatalogStore and CompetitionReader.
type mockCatalog struct {
	competitions []competition.Competition
	groups       agegroup.Groups
	saveErr      error
	saves        int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{competitions: competition.Defaults(), groups: agegroup.Defaults()}
}

func (m *mockCatalog) Competitions(context.Context) []competition.Competition {
	return append([]competition.Competition(nil), m.competitions...)
}

func (m *mockCatalog) AgeGroups(context.Context) agegroup.Groups { return m.groups.Clone() }

func (m *mockCatalog) SaveCompetitions(_ context.Context, list []competition.Competition) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.competitions = list
	return nil
}

func (m *mockCatalog) SaveAgeGroups(_ context.Context, g agegroup.Groups) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.groups = g
	return nil
}

// mockBackend implements ParticipantBackend and ParticipantAdminBackend.
type mockBackend struct {
	mu        sync.Mutex
	existing  []participant.Participant
	listErr   error
	healthErr error
	// failFor maps a competition name to the error Create returns for it.
	failFor map[string]error
	created []participant.Participant
	calls   []string
	nextID  int
}

func (m *mockBackend) BaseURL() string { return "http://backend.test:5000" }

func (m *mockBackend) Health(context.Context) error {
	m.calls = append(m.calls, "health")
	return m.healthErr
}

func (m *mockBackend) List(context.Context) ([]participant.Participant, error) {
	m.calls = append(m.calls, "list")
	return m.existing, m.listErr
}

func (m *mockBackend) Create(_ context.Context, p participant.Participant) (participant.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create:"+p.JenisLomba)
	if err := m.failFor[p.JenisLomba]; err != nil {
		return participant.Participant{}, err
	}
	m.nextID++
	p.ID = "p" + string(rune('0'+m.nextID))
	p.Status = participant.StatusRegistered
	m.created = append(m.created, p)
	return p, nil
}

func (m *mockBackend) Update(_ context.Context, id string, p participant.Participant) (participant.Participant, error) {
	m.calls = append(m.calls, "update:"+id)
	p.ID = id
	return p, nil
}

func (m *mockBackend) UpdateStatus(_ context.Context, id, status string) error {
	m.calls = append(m.calls, "status:"+id+":"+status)
	return nil
}

func (m *mockBackend) Delete(_ context.Context, id string) error {
	m.calls = append(m.calls, "delete:"+id)
	if id == "missing" {
		return errors.New("not found")
	}
	return nil
}

func (m *mockBackend) Action(_ context.Context, id, action string) (participant.Participant, error) {
	m.calls = append(m.calls, "action:"+id+":"+action)
	status := action
	switch action {
	case participant.ActionAdvance:
		status = participant.StatusAdvanced
	case participant.ActionDisqualify:
		status = participant.StatusDisqualified
	}
	return participant.Participant{ID: id, Status: status}, nil
}

// mockSender records sent mail.
type mockSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "m1"}, m.err
}

func intPtr(v int) *int { return &v }
