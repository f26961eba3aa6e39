package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity is implemented by every record kind held in a Store. WithEntityID
// and Clone return copies; a Store never mutates a record it was handed and
// never hands out a record it still references.
type Entity[T any] interface {
	EntityID() string
	WithEntityID(id string) T
	Clone() T
}

// Source is the asynchronous backing collection a Store wraps: an
// in-memory fixture set, MongoDB, or any remote API. Absence of an id is
// reported through the boolean, not as an error; errors mean the call
// itself failed and nothing can be assumed about the collection.
type Source[T Entity[T]] interface {
	FetchAll(ctx context.Context) ([]T, error)
	CreateOne(ctx context.Context, record T) (T, error)
	UpdateOne(ctx context.Context, id string, record T) (T, bool, error)
	DeleteOne(ctx context.Context, id string) (bool, error)
}

// Op identifies which operation produced an Event.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is delivered to subscribers after an operation settles. Err is only
// ever set for OpLoad; failed mutations do not change state and therefore
// do not notify.
type Event struct {
	Op   Op
	Kind string
	ID   string
	Err  error
}

// Store owns a named collection of entities of type T: asynchronous load,
// create, update and delete against an injected Source, plus non-blocking
// snapshot reads and a subscription feed for reactive consumers.
//
// All mutations on one Store are serialized: the mutation gate is held
// across the backing-source call, so overlapping creates can never both
// read the same pre-mutation snapshot and drop an insertion. Reads never
// touch the Source and only ever observe fully settled snapshots.
type Store[T Entity[T]] struct {
	kind     string
	source   Source[T]
	validate func(T) error
	newID    func() string
	logger   *zap.Logger

	// gate serializes Load/Create/Update/Delete, including their Source
	// calls. mu only guards the snapshot fields and is never held while
	// the Source is in flight.
	gate sync.Mutex

	mu      sync.RWMutex
	records []T
	index   map[string]int
	loading bool
	lastErr error

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Option customizes a Store at construction time.
type Option[T Entity[T]] func(*Store[T])

// WithValidator installs the validation hook run on every create and on
// every merged update before it reaches the Source.
func WithValidator[T Entity[T]](fn func(T) error) Option[T] {
	return func(s *Store[T]) { s.validate = fn }
}

// WithIDGenerator overrides the id generator (UUID v4 by default).
func WithIDGenerator[T Entity[T]](fn func() string) Option[T] {
	return func(s *Store[T]) { s.newID = fn }
}

// WithLogger attaches a logger for operation tracing.
func WithLogger[T Entity[T]](logger *zap.Logger) Option[T] {
	return func(s *Store[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Store for the given entity kind over the given Source.
// The store starts empty; call Load to populate it.
func New[T Entity[T]](kind string, source Source[T], opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		kind:   kind,
		source: source,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
		index:  make(map[string]int),
		subs:   make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the entity kind label used in errors and events.
func (s *Store[T]) Kind() string { return s.kind }

// Load fetches the full collection from the Source and atomically replaces
// the snapshot. On failure the previous snapshot is preserved and the error
// recorded; stale-but-available beats empty. Subscribers are notified
// exactly once per call, after the outcome settles either way.
func (s *Store[T]) Load(ctx context.Context) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	fetched, err := s.source.FetchAll(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = &BackendError{Kind: s.kind, Op: "load", Err: err}
		loadErr := s.lastErr
		s.mu.Unlock()
		s.logger.Warn("load failed, keeping previous snapshot", zap.String("kind", s.kind), zap.Error(err))
		s.notify(Event{Op: OpLoad, Kind: s.kind, Err: loadErr})
		return loadErr
	}

	records := make([]T, 0, len(fetched))
	index := make(map[string]int, len(fetched))
	for _, rec := range fetched {
		// Last one wins on duplicate ids coming out of the source.
		if at, ok := index[rec.EntityID()]; ok {
			records[at] = rec.Clone()
			continue
		}
		index[rec.EntityID()] = len(records)
		records = append(records, rec.Clone())
	}
	s.records = records
	s.index = index
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug("snapshot loaded", zap.String("kind", s.kind), zap.Int("count", len(records)))
	s.notify(Event{Op: OpLoad, Kind: s.kind})
	return nil
}

// List returns a defensive copy of the current snapshot. It never blocks on
// the Source and never triggers a load.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Get returns the record with the given id or a NotFoundError.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if at, ok := s.index[id]; ok {
		return s.records[at].Clone(), nil
	}
	var zero T
	return zero, &NotFoundError{Kind: s.kind, ID: id}
}

// Len returns the current snapshot size.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Loading reports whether a Load is currently in flight.
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the most recent failed Load, or nil
// after a successful one.
func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Create validates the draft, assigns a fresh unique id when the caller did
// not supply one, pushes it to the Source and appends it to the snapshot.
// The snapshot is untouched on any failure.
func (s *Store[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T

	s.gate.Lock()
	defer s.gate.Unlock()

	record := draft.Clone()
	if record.EntityID() == "" {
		record = record.WithEntityID(s.freshID())
	} else if s.has(record.EntityID()) {
		return zero, Invalid(s.kind, "id", "already exists")
	}

	if s.validate != nil {
		if err := s.validate(record); err != nil {
			return zero, err
		}
	}

	created, err := s.source.CreateOne(ctx, record.Clone())
	if err != nil {
		return zero, &BackendError{Kind: s.kind, Op: "create", Err: err}
	}

	s.mu.Lock()
	s.index[created.EntityID()] = len(s.records)
	s.records = append(s.records, created.Clone())
	s.mu.Unlock()

	s.logger.Debug("record created", zap.String("kind", s.kind), zap.String("id", created.EntityID()))
	s.notify(Event{Op: OpCreate, Kind: s.kind, ID: created.EntityID()})
	return created, nil
}

// Update merges patch onto the record with the given id, re-validates the
// merged result and replaces the record. Patching a non-existent id is a
// no-op reported as NotFoundError, never a silent insert. The patch
// function receives a copy; the record's identity cannot be changed by it.
func (s *Store[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	var zero T

	s.gate.Lock()
	defer s.gate.Unlock()

	s.mu.RLock()
	at, ok := s.index[id]
	var current T
	if ok {
		current = s.records[at].Clone()
	}
	s.mu.RUnlock()
	if !ok {
		return zero, &NotFoundError{Kind: s.kind, ID: id}
	}

	merged := patch(current).WithEntityID(id)
	if s.validate != nil {
		if err := s.validate(merged); err != nil {
			return zero, err
		}
	}

	updated, found, err := s.source.UpdateOne(ctx, id, merged.Clone())
	if err != nil {
		return zero, &BackendError{Kind: s.kind, Op: "update", Err: err}
	}
	if !found {
		return zero, &NotFoundError{Kind: s.kind, ID: id}
	}

	s.mu.Lock()
	if at, ok := s.index[id]; ok {
		// New slice with one element replaced; anyone holding the old
		// snapshot keeps seeing the pre-update record.
		records := make([]T, len(s.records))
		copy(records, s.records)
		records[at] = updated.Clone()
		s.records = records
	}
	s.mu.Unlock()

	s.logger.Debug("record updated", zap.String("kind", s.kind), zap.String("id", id))
	s.notify(Event{Op: OpUpdate, Kind: s.kind, ID: id})
	return updated, nil
}

// Delete removes the record with the given id. Deleting an absent id
// reports NotFoundError; calling twice in a row yields success then
// NotFoundError, never a crash.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	if !s.has(id) {
		return &NotFoundError{Kind: s.kind, ID: id}
	}

	found, err := s.source.DeleteOne(ctx, id)
	if err != nil {
		return &BackendError{Kind: s.kind, Op: "delete", Err: err}
	}
	if !found {
		return &NotFoundError{Kind: s.kind, ID: id}
	}

	s.mu.Lock()
	if at, ok := s.index[id]; ok {
		records := make([]T, 0, len(s.records)-1)
		records = append(records, s.records[:at]...)
		records = append(records, s.records[at+1:]...)
		s.records = records
		index := make(map[string]int, len(records))
		for i, rec := range records {
			index[rec.EntityID()] = i
		}
		s.index = index
	}
	s.mu.Unlock()

	s.logger.Debug("record deleted", zap.String("kind", s.kind), zap.String("id", id))
	s.notify(Event{Op: OpDelete, Kind: s.kind, ID: id})
	return nil
}

// Subscribe registers an observer invoked after every settled operation.
// The returned function unsubscribes; calling it during a notification does
// not skip or double-notify other observers.
func (s *Store[T]) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store[T]) notify(ev Event) {
	s.subMu.Lock()
	observers := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
}

func (s *Store[T]) has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

func (s *Store[T]) freshID() string {
	for {
		id := s.newID()
		if id != "" && !s.has(id) {
			return id
		}
	}
}
