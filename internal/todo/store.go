package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Storage is a key-value store holding serialized documents. Get reports
// ok=false when the key has never been written.
type Storage interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}

// Options configures a Store.
type Options struct {
	// Key is the storage key of the document. Defaults to DefaultKey.
	Key string

	// Now returns the current time. Defaults to time.Now in UTC.
	Now func() time.Time

	// NewID generates todo and category IDs. Defaults to random UUIDs.
	NewID func() string

	// Logger receives debug output for writes and errors for persistence
	// failures. If nil, nothing is logged.
	Logger *log.Logger
}

// Store provides the CRUD contract over the persisted document.
// It keeps no state besides its collaborators; every call reads the
// document fresh from storage.
type Store struct {
	storage Storage
	key     string
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
}

// NewStore returns a Store backed by storage.
func NewStore(storage Storage, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Store{
		storage: storage,
		key:     opts.Key,
		now:     opts.Now,
		newID:   opts.NewID,
		logger:  opts.Logger,
	}
}

// Key returns the storage key of the document.
func (s *Store) Key() string {
	return s.key
}

// Load returns a snapshot of the whole document, creating and persisting
// the default document on first access.
func (s *Store) Load() (Document, error) {
	data, ok, err := s.storage.Get(s.key)
	if err != nil {
		return Document{}, s.persistenceError("read document", err)
	}
	if !ok {
		doc := NewDocument()
		if err := s.write(doc); err != nil {
			return Document{}, err
		}
		s.logger.Info("initialized document", "key", s.key)
		return doc, nil
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return Document{}, s.persistenceError("decode document", err)
	}
	return doc, nil
}

func decodeDocument(data []byte) (Document, error) {
	// Settings decode on top of the defaults so that fields missing from an
	// older document keep their default values.
	doc := Document{Settings: DefaultSettings()}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}
	normalizeDocument(&doc)
	return doc, nil
}

func (s *Store) write(doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return s.persistenceError("encode document", err)
	}
	if err := s.storage.Set(s.key, data); err != nil {
		return s.persistenceError("write document", err)
	}
	s.logger.Debug("wrote document", "key", s.key, "todos", len(doc.Todos), "bytes", len(data))
	return nil
}

func (s *Store) persistenceError(op string, err error) error {
	s.logger.Error("storage failure", "op", op, "key", s.key, "err", err)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// update loads the document, hands it to fn and writes it back when fn
// returns changed=true. Nothing is written when fn fails.
func (s *Store) update(fn func(doc *Document) (changed bool, err error)) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	changed, err := fn(&doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.write(doc)
}

func indexByID(todos []Todo, id string) int {
	for i := range todos {
		if todos[i].ID == id {
			return i
		}
	}
	return -1
}
