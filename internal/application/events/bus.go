// Package events is the in-process publish/subscribe channel between
// orchestrators and whoever renders or records their effects.
package events

import (
	"sync"
	"time"
)

// Event is implemented by every published value.
type Event interface {
	Name() string
}

// AdminStatusChanged is published after the admin flag is written.
type AdminStatusChanged struct {
	Active bool
}

func (AdminStatusChanged) Name() string { return "admin_status_changed" }

// CatalogKind says which snapshot a CatalogUpdated refers to.
type CatalogKind string

const (
	CatalogCompetitions CatalogKind = "competitions"
	CatalogAgeGroups    CatalogKind = "ageGroups"
)

// CatalogUpdated is published after a catalog snapshot is replaced.
type CatalogUpdated struct {
	Kind CatalogKind
}

func (CatalogUpdated) Name() string { return "catalog_updated" }

// ParticipantAdded is published when at least one registration reached the backend.
// Names holds the participant names; Competitions the competition names that succeeded.
type ParticipantAdded struct {
	Names        []string
	Competitions []string
}

func (ParticipantAdded) Name() string { return "participant_added" }

// Publisher is the narrow interface orchestrators depend on.
type Publisher interface {
	Publish(e Event)
}

type subscription struct {
	id int
	fn func(Event)
}

// Bus delivers events synchronously, in subscription order.
// The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every event and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish calls every current subscriber with e before returning.
// Subscribers added or removed during delivery take effect on the next Publish.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}

// On subscribes fn to events of type T only.
func On[T Event](b *Bus, fn func(T)) (unsubscribe func()) {
	return b.Subscribe(func(e Event) {
		if typed, ok := e.(T); ok {
			fn(typed)
		}
	})
}

// Entry is one remembered event.
type Entry struct {
	Event Event
	At    time.Time
}

// Recorder keeps the most recent events for the admin activity panel.
type Recorder struct {
	mu      sync.Mutex
	size    int
	entries []Entry
	now     func() time.Time
}

// NewRecorder returns a Recorder holding at most size entries.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = 20
	}
	return &Recorder{size: size, now: time.Now}
}

// Record stores e. It has the signature Bus.Subscribe expects.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Event: e, At: r.now()})
	if len(r.entries) > r.size {
		r.entries = r.entries[len(r.entries)-r.size:]
	}
}

// Recent returns recorded events, newest first.
func (r *Recorder) Recent() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[len(r.entries)-1-i] = e
	}
	return out
}
