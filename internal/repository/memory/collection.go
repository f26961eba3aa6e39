// Package memory provides an in-memory store.Source used for local
// development, demo seeding and unit tests. It stands in for MongoDB
// without changing the store's contract.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avicontrol/avicontrol/internal/store"
)

// Collection is a mutex-guarded in-memory backing collection preserving
// insertion order. All returned records are clones; callers can never alias
// the collection's own copies.
type Collection[T store.Entity[T]] struct {
	mu      sync.RWMutex
	records []T
	latency time.Duration

	failMu   sync.Mutex
	failNext map[string]error
}

// CollectionOption customizes a Collection.
type CollectionOption func(*options)

type options struct {
	latency time.Duration
}

// WithLatency makes every call sleep for d before answering, simulating a
// remote backend.
func WithLatency(d time.Duration) CollectionOption {
	return func(o *options) { o.latency = d }
}

// NewCollection builds a collection pre-populated with the given records.
func NewCollection[T store.Entity[T]](seed []T, opts ...CollectionOption) *Collection[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	records := make([]T, 0, len(seed))
	for _, rec := range seed {
		records = append(records, rec.Clone())
	}
	return &Collection[T]{
		records:  records,
		latency:  o.latency,
		failNext: make(map[string]error),
	}
}

// FailNext makes the next call of the named op ("fetch", "create",
// "update", "delete") return err. Test hook.
func (c *Collection[T]) FailNext(op string, err error) {
	c.failMu.Lock()
	defer c.failMu.Unlock()
	c.failNext[op] = err
}

func (c *Collection[T]) fault(op string) error {
	c.failMu.Lock()
	defer c.failMu.Unlock()
	if err, ok := c.failNext[op]; ok {
		delete(c.failNext, op)
		return err
	}
	return nil
}

func (c *Collection[T]) wait(ctx context.Context) error {
	if c.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(c.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchAll returns a copy of every record in insertion order.
func (c *Collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if err := c.fault("fetch"); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// CreateOne appends the record and echoes it back.
func (c *Collection[T]) CreateOne(ctx context.Context, record T) (T, error) {
	var zero T
	if err := c.wait(ctx); err != nil {
		return zero, err
	}
	if err := c.fault("create"); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record.Clone())
	return record.Clone(), nil
}

// UpdateOne replaces the record with the given id. The boolean reports
// whether the id was present.
func (c *Collection[T]) UpdateOne(ctx context.Context, id string, record T) (T, bool, error) {
	var zero T
	if err := c.wait(ctx); err != nil {
		return zero, false, err
	}
	if err := c.fault("update"); err != nil {
		return zero, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.records {
		if existing.EntityID() == id {
			c.records[i] = record.Clone()
			return record.Clone(), true, nil
		}
	}
	return zero, false, nil
}

// DeleteOne removes the record with the given id, reporting whether it was
// present.
func (c *Collection[T]) DeleteOne(ctx context.Context, id string) (bool, error) {
	if err := c.wait(ctx); err != nil {
		return false, err
	}
	if err := c.fault("delete"); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.records {
		if existing.EntityID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
