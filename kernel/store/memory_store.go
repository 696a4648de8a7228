package store

import (
	"sync"

	"github.com/avivkilloz/deckyfin/kernel/model"
)

// MemoryStore is an in-memory SettingsStore for testing.
type MemoryStore struct {
	mu  sync.RWMutex
	doc model.Document
}

func NewMemoryStore(doc model.Document) *MemoryStore {
	if doc == nil {
		doc = model.Document{}
	}
	return &MemoryStore{doc: DeepMerge(doc, nil)}
}

func (s *MemoryStore) Get() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DeepMerge(s.doc, nil)
}

func (s *MemoryStore) Merge(partial model.Document) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = DeepMerge(s.doc, partial)
	return DeepMerge(s.doc, nil), nil
}

func (s *MemoryStore) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.SettingsFromDocument(s.doc)
}
