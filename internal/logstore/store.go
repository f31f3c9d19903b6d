// Package logstore owns the authoritative CPD log collection.
//
// A Store loads the collection from the key-value layer, serializes all
// mutations, persists the full list after every change, and fans each
// change out to subscribers as defensive copies. Derived views
// (statistics, search, filters) are computed fresh from the in-memory
// list on every call.
package logstore

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cpdlog/cpdlog/internal/domain"
	"github.com/cpdlog/cpdlog/internal/kvstore"
	"github.com/cpdlog/cpdlog/internal/observability"
)

// logsKey is the single key holding the whole collection as a JSON array.
const logsKey = "cpd_logs"

// Listener receives the full collection after every change. The slice
// is the listener's own copy.
type Listener func([]domain.CpdLog)

// Store is the single owner of the in-memory CPD log list.
//
// Every mutating operation runs its read-modify-persist-notify cycle
// under the store mutex, so the persisted list always matches the
// in-memory one. If persistence fails, the in-memory change is rolled
// back before the error propagates.
type Store struct {
	mu       sync.Mutex
	kv       *kvstore.Store
	log      *observability.Logger
	counters *observability.Counters

	targetHours float64
	logs        []domain.CpdLog

	subs    map[int]Listener
	nextSub int

	now   func() time.Time
	newID func() string
}

// New creates a Store over the given key-value layer. The collection is
// empty until Load is called. A nil logger or counter set is replaced
// with a silent one.
func New(kv *kvstore.Store, log *observability.Logger, counters *observability.Counters, targetHours float64) *Store {
	if log == nil {
		log = observability.NewLogger("logstore", io.Discard, "json", "error")
	}
	if counters == nil {
		counters = observability.NewCounters()
	}
	return &Store{
		kv:          kv,
		log:         log,
		counters:    counters,
		targetHours: targetHours,
		subs:        make(map[int]Listener),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Load reads the persisted collection. A missing key or unreadable value
// leaves the collection empty; read failures never propagate. Subscribers
// registered before Load see the empty list first and the loaded list
// once Load completes.
func (s *Store) Load(ctx context.Context) {
	var loaded []domain.CpdLog
	found := s.kv.Get(ctx, logsKey, &loaded)

	s.mu.Lock()
	if found {
		s.logs = loaded
	}
	total := len(s.logs)
	s.notifyLocked()
	s.mu.Unlock()

	s.log.Info("collection loaded", "total_logs", total, "persisted", found)
}

// Subscribe registers a listener and replays the current collection to
// it once, immediately. The returned function deregisters the listener.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	snapshot := copyLogs(s.logs)
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// NewLog carries the caller-supplied fields of a record to be created.
type NewLog struct {
	Text             string
	Category         domain.Category
	Hours            float64
	IsVoiceGenerated bool
	Tags             []string
	Reflection       string
}

// Add constructs a full record from partial, inserts it at the head of
// the list, persists, and notifies. The store assigns ID and CreatedAt
// and performs no validation of its own.
func (s *Store) Add(ctx context.Context, partial NewLog) (domain.CpdLog, error) {
	rec := domain.CpdLog{
		ID:               s.newID(),
		Text:             partial.Text,
		Category:         partial.Category,
		Hours:            partial.Hours,
		CreatedAt:        s.now().UnixMilli(),
		IsVoiceGenerated: partial.IsVoiceGenerated,
		Reflection:       partial.Reflection,
	}
	if partial.Tags != nil {
		rec.Tags = append([]string(nil), partial.Tags...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.logs
	s.logs = append([]domain.CpdLog{rec}, s.logs...)

	if err := s.persist(ctx); err != nil {
		s.logs = prev
		return domain.CpdLog{}, err
	}

	s.notifyLocked()
	s.log.StoreEvent("add", len(s.logs), "id", rec.ID)
	return rec.Clone(), nil
}

// Update merges upd into the record with the given id and stamps
// UpdatedAt. It returns nil (and no error) when no record matches.
func (s *Store) Update(ctx context.Context, id string, upd domain.LogUpdate) (*domain.CpdLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return nil, nil
	}

	prev := s.logs[i].Clone()
	rec := &s.logs[i]
	if upd.Text != nil {
		rec.Text = *upd.Text
	}
	if upd.Category != nil {
		rec.Category = *upd.Category
	}
	if upd.Hours != nil {
		rec.Hours = *upd.Hours
	}
	if upd.Tags != nil {
		rec.Tags = append([]string(nil), *upd.Tags...)
	}
	if upd.Reflection != nil {
		rec.Reflection = *upd.Reflection
	}
	ts := s.now().UnixMilli()
	rec.UpdatedAt = &ts

	if err := s.persist(ctx); err != nil {
		s.logs[i] = prev
		return nil, err
	}

	s.notifyLocked()
	s.log.StoreEvent("update", len(s.logs), "id", id)
	out := rec.Clone()
	return &out, nil
}

// Delete removes the record with the given id. It reports false when no
// record matches; in that case nothing is persisted and nobody is
// notified.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return false, nil
	}

	prev := s.logs
	next := make([]domain.CpdLog, 0, len(s.logs)-1)
	next = append(next, s.logs[:i]...)
	next = append(next, s.logs[i+1:]...)
	s.logs = next

	if err := s.persist(ctx); err != nil {
		s.logs = prev
		return false, err
	}

	s.notifyLocked()
	s.log.StoreEvent("delete", len(s.logs), "id", id)
	return true, nil
}

// ClearAll empties the collection, persists, and notifies.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.logs
	s.logs = nil

	if err := s.persist(ctx); err != nil {
		s.logs = prev
		return err
	}

	s.notifyLocked()
	s.log.StoreEvent("clear", 0)
	return nil
}

// Logs returns the current collection, newest first, as a deep copy.
func (s *Store) Logs() []domain.CpdLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLogs(s.logs)
}

// TargetHours returns the configured requirement for the period.
func (s *Store) TargetHours() float64 {
	return s.targetHours
}

// persist writes the whole list under logsKey. Must be called with mu
// held.
func (s *Store) persist(ctx context.Context) error {
	logs := s.logs
	if logs == nil {
		logs = []domain.CpdLog{}
	}
	if err := s.kv.Set(ctx, logsKey, logs); err != nil {
		s.counters.Increment(observability.CounterPersistFailures)
		s.log.Error("persist failed", "error", err, "total_logs", len(logs))
		return err
	}
	s.counters.Increment(observability.CounterPersists)
	return nil
}

// notifyLocked fans the current list out to every subscriber, each with
// its own copy. Must be called with mu held; listeners must not call
// back into the store synchronously.
func (s *Store) notifyLocked() {
	for _, fn := range s.subs {
		fn(copyLogs(s.logs))
		s.counters.Increment(observability.CounterNotifications)
	}
}

// indexOfLocked returns the position of id, or -1. Must be called with
// mu held.
func (s *Store) indexOfLocked(id string) int {
	for i := range s.logs {
		if s.logs[i].ID == id {
			return i
		}
	}
	return -1
}

func copyLogs(logs []domain.CpdLog) []domain.CpdLog {
	out := make([]domain.CpdLog, len(logs))
	for i := range logs {
		out[i] = logs[i].Clone()
	}
	return out
}
