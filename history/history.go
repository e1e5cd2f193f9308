// Package history keeps the most recent submissions, newest first.
package history

import (
	"encoding/json"
	"sync"

	"imepaste/kv"
	"imepaste/log"
)

// Key is the single storage key the list lives under.
const Key = "imepaste.history"

const (
	DefaultMax = 10
	MinMax     = 1
	MaxMax     = 20
)

type Store struct {
	mu  sync.Mutex
	kv  kv.Store
	max int
}

// New returns a Store holding at most limit entries. Out of range values are
// clamped to [MinMax, MaxMax].
func New(store kv.Store, limit int) *Store {
	switch {
	case limit < MinMax:
		limit = MinMax
	case limit > MaxMax:
		limit = MaxMax
	}
	return &Store{kv: store, max: limit}
}

func (s *Store) Max() int { return s.max }

// Get returns the entries, most recent first. Read failures yield an empty
// list.
func (s *Store) Get() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add moves text to the front, dropping any exact duplicate and anything
// beyond the configured maximum.
func (s *Store) Add(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.load()
	items := make([]string, 0, len(old)+1)
	items = append(items, text)
	for _, it := range old {
		if it != text {
			items = append(items, it)
		}
	}
	if len(items) > s.max {
		items = items[:s.max]
	}
	s.save(items)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(Key); err != nil {
		log.Warnf("history: clear: %v", err)
	}
}

func (s *Store) load() []string {
	data, ok, err := s.kv.Get(Key)
	if err != nil {
		log.Warnf("history: load: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warnf("history: decode: %v", err)
		return nil
	}
	if len(items) > s.max {
		items = items[:s.max]
	}
	return items
}

func (s *Store) save(items []string) {
	data, err := json.Marshal(items)
	if err != nil {
		log.Warnf("history: encode: %v", err)
		return
	}
	if err := s.kv.Set(Key, data); err != nil {
		log.Warnf("history: save: %v", err)
	}
}
