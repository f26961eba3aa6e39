package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicontrol/avicontrol/internal/store"
)

type item struct {
	ID    string
	Name  string
	Count int
}

func (i item) EntityID() string { return i.ID }
func (i item) WithEntityID(id string) item {
	i.ID = id
	return i
}
func (i item) Clone() item { return i }

// fakeSource is a scripted in-memory Source with per-op fault injection.
type fakeSource struct {
	mu    sync.Mutex
	items []item
	fail  map[string]error
}

func newFakeSource(seed ...item) *fakeSource {
	return &fakeSource{items: seed, fail: make(map[string]error)}
}

func (f *fakeSource) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeSource) fault(op string) error {
	if err, ok := f.fail[op]; ok {
		delete(f.fail, op)
		return err
	}
	return nil
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fault("fetch"); err != nil {
		return nil, err
	}
	return append([]item(nil), f.items...), nil
}

func (f *fakeSource) CreateOne(ctx context.Context, record item) (item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fault("create"); err != nil {
		return item{}, err
	}
	f.items = append(f.items, record)
	return record, nil
}

func (f *fakeSource) UpdateOne(ctx context.Context, id string, record item) (item, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fault("update"); err != nil {
		return item{}, false, err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i] = record
			return record, true, nil
		}
	}
	return item{}, false, nil
}

func (f *fakeSource) DeleteOne(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fault("delete"); err != nil {
		return false, err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestLoadReplacesSnapshot(t *testing.T) {
	src := newFakeSource(item{ID: "1", Name: "uno"}, item{ID: "2", Name: "dos"})
	s := store.New[item]("item", src)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 2, s.Len())
	assert.NoError(t, s.Err())
}

func TestLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	src := newFakeSource(item{ID: "1", Name: "uno"})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	src.failNext("fetch", errors.New("connection reset"))
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsBackend(err))

	// Stale-but-available beats empty.
	assert.Equal(t, 1, s.Len())
	assert.Error(t, s.Err())

	// A later successful load clears the recorded error.
	require.NoError(t, s.Load(context.Background()))
	assert.NoError(t, s.Err())
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		created, err := s.Create(context.Background(), item{Name: fmt.Sprintf("n%d", i)})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
	assert.Equal(t, 100, s.Len())
}

func TestCreateRetriesOnIDCollision(t *testing.T) {
	src := newFakeSource()
	ids := []string{"dup", "dup", "fresh"}
	var calls int
	s := store.New[item]("item", src, store.WithIDGenerator[item](func() string {
		id := ids[calls]
		calls++
		return id
	}))
	require.NoError(t, s.Load(context.Background()))

	first, err := s.Create(context.Background(), item{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "dup", first.ID)

	second, err := s.Create(context.Background(), item{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.ID)
}

func TestCreateRejectsDuplicateCallerID(t *testing.T) {
	src := newFakeSource(item{ID: "1"})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Create(context.Background(), item{ID: "1", Name: "clash"})
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
	assert.Equal(t, 1, s.Len())
}

func TestCreateRoundTrip(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	created, err := s.Create(context.Background(), item{Name: "uno", Count: 3})
	require.NoError(t, err)

	listed := s.List()
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "uno", listed[0].Name)
	assert.Equal(t, 3, listed[0].Count)
}

func TestCreateValidationFailureLeavesSnapshotUnchanged(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src, store.WithValidator[item](func(i item) error {
		if i.Name == "" {
			return store.Invalid("item", "name", "must not be empty")
		}
		return nil
	}))
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Create(context.Background(), item{Count: 1})
	require.Error(t, err)

	var ve *store.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "name", ve.Fields[0].Field)
	assert.Equal(t, 0, s.Len())
}

func TestCreateBackendFailureLeavesSnapshotUnchanged(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	src.failNext("create", errors.New("boom"))
	_, err := s.Create(context.Background(), item{Name: "x"})
	require.Error(t, err)
	assert.True(t, store.IsBackend(err))
	assert.Equal(t, 0, s.Len())
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	src := newFakeSource(item{ID: "1", Name: "uno", Count: 5})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	updated, err := s.Update(context.Background(), "1", func(i item) item {
		i.Count = 9
		return i
	})
	require.NoError(t, err)
	assert.Equal(t, "1", updated.ID)
	assert.Equal(t, "uno", updated.Name)
	assert.Equal(t, 9, updated.Count)

	got, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Count)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	src := newFakeSource(item{ID: "1", Name: "uno"})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	updated, err := s.Update(context.Background(), "1", func(i item) item {
		i.ID = "sneaky"
		return i
	})
	require.NoError(t, err)
	assert.Equal(t, "1", updated.ID)
}

func TestUpdateMissingIDIsNotAnInsert(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Update(context.Background(), "ghost", func(i item) item { return i })
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Equal(t, 0, s.Len())
}

func TestDeleteIsIdempotentObservation(t *testing.T) {
	src := newFakeSource(item{ID: "1"}, item{ID: "2"})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "1"))
	assert.Equal(t, 1, s.Len())

	err := s.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentCreatesLoseNothing(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(context.Background(), item{Name: fmt.Sprintf("n%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, s.Len())
}

func TestListReturnsDefensiveCopies(t *testing.T) {
	src := newFakeSource(item{ID: "1", Name: "uno"})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	listed := s.List()
	listed[0].Name = "mutated"

	got, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "uno", got.Name)
}

func TestSubscribeNotifiesPerOperation(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)

	var events []store.Event
	unsubscribe := s.Subscribe(func(ev store.Event) { events = append(events, ev) })

	require.NoError(t, s.Load(context.Background()))
	created, err := s.Create(context.Background(), item{Name: "uno"})
	require.NoError(t, err)
	_, err = s.Update(context.Background(), created.ID, func(i item) item { return i })
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), created.ID))

	require.Len(t, events, 4)
	assert.Equal(t, store.OpLoad, events[0].Op)
	assert.Equal(t, store.OpCreate, events[1].Op)
	assert.Equal(t, store.OpUpdate, events[2].Op)
	assert.Equal(t, store.OpDelete, events[3].Op)

	unsubscribe()
	_, err = s.Create(context.Background(), item{Name: "dos"})
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

func TestLoadFailureNotifiesWithError(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)

	var events []store.Event
	s.Subscribe(func(ev store.Event) { events = append(events, ev) })

	src.failNext("fetch", errors.New("down"))
	require.Error(t, s.Load(context.Background()))

	require.Len(t, events, 1)
	assert.Equal(t, store.OpLoad, events[0].Op)
	assert.Error(t, events[0].Err)
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	src := newFakeSource()
	s := store.New[item]("item", src)

	var first, second int
	var unsubFirst func()
	unsubFirst = s.Subscribe(func(store.Event) {
		first++
		unsubFirst()
	})
	s.Subscribe(func(store.Event) { second++ })

	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestFailedMutationsDoNotNotify(t *testing.T) {
	src := newFakeSource(item{ID: "1"})
	s := store.New[item]("item", src)
	require.NoError(t, s.Load(context.Background()))

	var mutationEvents int
	s.Subscribe(func(ev store.Event) {
		if ev.Op != store.OpLoad {
			mutationEvents++
		}
	})

	src.failNext("create", errors.New("boom"))
	_, err := s.Create(context.Background(), item{Name: "x"})
	require.Error(t, err)

	_, err = s.Update(context.Background(), "ghost", func(i item) item { return i })
	require.Error(t, err)

	assert.Equal(t, 0, mutationEvents)
}
