package todo

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// memStorage is an in-memory Storage with injectable failures.
type memStorage struct {
	values map[string][]byte
	getErr error
	setErr error
	writes int
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string][]byte)}
}

func (m *memStorage) Get(key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStorage) Set(key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

var errQuota = errors.New("quota exceeded")

// testClock advances by one second on every call.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) (*Store, *memStorage) {
	t.Helper()

	storage := newMemStorage()
	clock := &testClock{now: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)}
	seq := 0
	store := NewStore(storage, Options{
		Now: clock.Now,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%04d", seq)
		},
	})
	return store, storage
}

func mustAdd(t *testing.T, store *Store, in NewTodo) Todo {
	t.Helper()

	created, err := store.Add(in)
	if err != nil {
		t.Fatalf("failed to add todo %q: %v", in.Title, err)
	}
	return created
}

func mustGetAll(t *testing.T, store *Store) []Todo {
	t.Helper()

	todos, err := store.GetAll()
	if err != nil {
		t.Fatalf("failed to get todos: %v", err)
	}
	return todos
}

func ids(todos []Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}
