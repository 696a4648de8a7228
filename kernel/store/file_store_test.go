package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/avivkilloz/deckyfin/kernel/model"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	s, err := NewFileStore(path, dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s, path
}

func TestFileStore_FirstUsePersistsDefaults(t *testing.T) {
	s, path := newTestStore(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("defaults were not persisted: %v", err)
	}
	var onDisk model.Document
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("persisted settings are not valid JSON: %v", err)
	}

	settings := s.Settings()
	if settings.RsyncFlags != "-avz" {
		t.Errorf("expected default rsync flags '-avz', got '%s'", settings.RsyncFlags)
	}
	if settings.DefaultProtonVersion == "" {
		t.Error("expected a default proton version")
	}
	if settings.CatalogTransport != "rsync" {
		t.Errorf("expected default catalog transport 'rsync', got '%s'", settings.CatalogTransport)
	}
}

func TestFileStore_MergeEmptyIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	before := s.Get()
	after, err := s.Merge(model.Document{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	if string(beforeJSON) != string(afterJSON) {
		t.Errorf("merging an empty document changed the settings:\n%s\n%s", beforeJSON, afterJSON)
	}
}

func TestFileStore_MergePreservesSiblings(t *testing.T) {
	s, _ := newTestStore(t)

	compatBefore := s.Settings().CompatdataPath

	doc, err := s.Merge(model.Document{
		"proton": map[string]interface{}{"defaultVersion": "GE-Proton9-1"},
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	settings := model.SettingsFromDocument(doc)
	if settings.DefaultProtonVersion != "GE-Proton9-1" {
		t.Errorf("expected overridden version, got '%s'", settings.DefaultProtonVersion)
	}
	if settings.CompatdataPath != compatBefore {
		t.Errorf("sibling key compatdataPath was lost: '%s'", settings.CompatdataPath)
	}
}

func TestFileStore_MergePersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	s, err := NewFileStore(path, dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err := s.Merge(model.Document{"remoteHost": "deck@nas.local"}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	reloaded, err := NewFileStore(path, dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Settings().RemoteHost != "deck@nas.local" {
		t.Errorf("merged value did not survive reload, got '%s'", reloaded.Settings().RemoteHost)
	}
}

func TestFileStore_UnknownKeysPreserved(t *testing.T) {
	s, _ := newTestStore(t)

	doc, err := s.Merge(model.Document{"experimental": map[string]interface{}{"flag": true}})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if _, ok := doc["experimental"]; !ok {
		t.Error("unknown key from input was dropped")
	}
	if _, ok := doc["rsyncFlags"]; !ok {
		t.Error("default key was removed by merge")
	}
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	base := model.Document{"proton": map[string]interface{}{"defaultVersion": "a"}}
	overlay := model.Document{"proton": map[string]interface{}{"defaultVersion": "b"}}

	merged := DeepMerge(base, overlay)

	if base["proton"].(map[string]interface{})["defaultVersion"] != "a" {
		t.Error("DeepMerge mutated its base argument")
	}
	if merged["proton"].(map[string]interface{})["defaultVersion"] != "b" {
		t.Error("overlay value did not win")
	}
}
