package rsync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/store"
)

func testSource(host string) SettingsSource {
	return store.NewMemoryStore(model.Document{
		"remoteHost": host,
		"rsyncFlags": "-avz",
	})
}

func TestMirrorDir_DirectionRequired(t *testing.T) {
	s := NewSyncer(testSource("deck@nas"))
	local := filepath.Join(t.TempDir(), "dest")

	err := s.MirrorDir(context.Background(), "games/x", local, Options{})
	if !model.IsConfiguration(err) {
		t.Fatalf("expected configuration error for neither direction, got %v", err)
	}

	err = s.MirrorDir(context.Background(), "games/x", local, Options{Push: true, Pull: true})
	if !model.IsConfiguration(err) {
		t.Fatalf("expected configuration error for both directions, got %v", err)
	}
}

func TestMirrorDir_MissingHost(t *testing.T) {
	s := NewSyncer(testSource("  "))
	local := filepath.Join(t.TempDir(), "dest")

	err := s.MirrorDir(context.Background(), "games/x", local, Options{Pull: true})
	if !model.IsConfiguration(err) {
		t.Fatalf("expected configuration error for missing host, got %v", err)
	}
}

func TestMirrorDir_InvalidFlags(t *testing.T) {
	src := store.NewMemoryStore(model.Document{
		"remoteHost": "deck@nas",
		"rsyncFlags": `-avz "unterminated`,
	})
	s := NewSyncer(src)
	local := filepath.Join(t.TempDir(), "dest")

	err := s.MirrorDir(context.Background(), "games/x", local, Options{Pull: true})
	if !model.IsConfiguration(err) {
		t.Fatalf("expected configuration error for unparseable flags, got %v", err)
	}
}
