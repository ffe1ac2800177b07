package projections

import (
	"context"
	"errors"
	"time"

	"lomba17/internal/domain/admin"
	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
	"lomba17/internal/domain/export"
	"lomba17/internal/domain/participant"
)

type mockCatalog struct {
	competitions []competition.Competition
	groups       agegroup.Groups
}

func defaultCatalog() *mockCatalog {
	return &mockCatalog{competitions: competition.Defaults(), groups: agegroup.Defaults()}
}

func (m *mockCatalog) Competitions(context.Context) []competition.Competition {
	return append([]competition.Competition(nil), m.competitions...)
}

func (m *mockCatalog) AgeGroups(context.Context) agegroup.Groups { return m.groups.Clone() }

type mockParticipants struct {
	list []participant.Participant
	err  error
}

func (m *mockParticipants) List(context.Context) ([]participant.Participant, error) {
	return m.list, m.err
}

type mockLegacy struct {
	list []export.LegacyParticipant
}

func (m *mockLegacy) Load(context.Context) []export.LegacyParticipant { return m.list }

type mockFlag struct {
	flag admin.Flag
}

func (m *mockFlag) Flag(context.Context) admin.Flag { return m.flag }

type mockRevision struct {
	rev int64
	err error
}

func (m *mockRevision) Revision(context.Context) (int64, error) { return m.rev, m.err }

var errBackendDown = errors.New("backend down")

var exportDay = time.Date(2025, 8, 17, 2, 30, 0, 0, time.UTC)
