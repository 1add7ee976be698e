// Package memory is an in-process DocumentStore, optionally snapshotted to a
// JSON file. With a file, every write is flushed before it returns.
package memory

import (
	"context"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harrisonrobin/auditboard/pkg/store"
)

type snapshot struct {
	Order     []string                  `json:"order"`
	Documents map[string]map[string]any `json:"documents"`
}

type Store struct {
	Path string

	mu    sync.RWMutex
	docs  map[string]map[string]any
	order []string
	dirty bool
	now   func() time.Time
}

// New returns an empty store with no backing file.
func New() *Store {
	return &Store{
		docs: make(map[string]map[string]any),
		now:  time.Now,
	}
}

// Open returns a store backed by the JSON file at path, loading it if it
// exists.
func Open(path string) (*Store, error) {
	s := New()
	s.Path = path
	if _, err := os.Stat(path); err == nil {
		if err := s.Load(); err != nil {
			return nil, &store.ConnectionError{Op: "open", Err: err}
		}
	}
	return s, nil
}

func (s *Store) Load() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	var snap snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = snap.Documents
	if s.docs == nil {
		s.docs = make(map[string]map[string]any)
	}
	s.order = snap.Order
	return nil
}

// Save writes the snapshot file when there are unsaved changes.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if !s.dirty || s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return &store.ConnectionError{Op: "save", Err: err}
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return &store.ConnectionError{Op: "save", Err: err}
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot{Order: s.order, Documents: s.docs}); err != nil {
		return &store.ConnectionError{Op: "save", Err: err}
	}
	s.dirty = false
	return nil
}

func (s *Store) Stream(ctx context.Context) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]store.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, store.Document{ID: id, Data: maps.Clone(s.docs[id])})
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	return store.Document{ID: id, Data: maps.Clone(data)}, nil
}

func (s *Store) SetMerge(ctx context.Context, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		doc = make(map[string]any)
		s.docs[id] = doc
		s.order = append(s.order, id)
	}
	for k, v := range data {
		doc[k] = s.resolve(v)
	}
	s.dirty = true
	return s.saveLocked()
}

func (s *Store) Add(ctx context.Context, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	doc := make(map[string]any, len(data))
	for k, v := range data {
		doc[k] = s.resolve(v)
	}
	s.docs[id] = doc
	s.order = append(s.order, id)
	s.dirty = true
	if err := s.saveLocked(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return nil
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.dirty = true
	return s.saveLocked()
}

// Close flushes the snapshot file, if any.
func (s *Store) Close() error {
	return s.Save()
}

func (s *Store) resolve(v any) any {
	if store.IsServerTimestamp(v) {
		return s.now().UTC()
	}
	return v
}
