package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/pkg/errors"
)

// FileStore persists the settings document as JSON at a fixed path. The
// in-memory copy is replaced wholesale on every merge, so readers always see
// a complete document.
type FileStore struct {
	path string
	mu   sync.RWMutex
	doc  model.Document
}

// NewFileStore loads (or initializes) the settings document at path. If no
// document exists yet the defaults rooted at home are persisted verbatim.
// An existing document has the defaults merged underneath it, so keys added
// by newer versions show up without clobbering stored values.
func NewFileStore(path, home string) (*FileStore, error) {
	s := &FileStore{path: path}

	defaults := model.DefaultDocument(home)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.doc = defaults
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read settings")
	}

	var stored model.Document
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, errors.Wrapf(err, "invalid settings document at %s", path)
	}
	s.doc = DeepMerge(defaults, stored)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultFileStore opens the store at the standard data-dir location.
func DefaultFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "unable to determine home directory")
	}
	dataDir, err := model.DataDir()
	if err != nil {
		return nil, err
	}
	return NewFileStore(filepath.Join(dataDir, model.SettingsFileName), home)
}

func (s *FileStore) Get() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DeepMerge(s.doc, nil)
}

func (s *FileStore) Merge(partial model.Document) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := DeepMerge(s.doc, partial)
	s.doc = merged
	if err := s.persist(); err != nil {
		return nil, err
	}
	return DeepMerge(merged, nil), nil
}

func (s *FileStore) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.SettingsFromDocument(s.doc)
}

func (s *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write settings")
	}
	return nil
}
