package model

import (
	"os"
	"path/filepath"
)

const (
	// PluginID names the on-disk data directory under ~/.local/share.
	PluginID = "deckyfin"

	SettingsFileName = "settings.json"
	CatalogCacheName = "games.json"
	StampFileName    = "deckyfin.json"
	LastSyncMarker   = ".last_sync"
)

// Document is the persisted settings shape. Values are kept loosely typed so
// merges preserve keys this version of the code does not know about.
type Document = map[string]interface{}

// Settings is the typed view of a Document, covering the keys the kernel
// actually consumes.
type Settings struct {
	RemoteHost           string
	RemoteConfigPath     string
	LocalGamesPath       string
	CompatdataPath       string
	DefaultProtonVersion string
	SaveBackupPath       string
	RsyncFlags           string
	CatalogTransport     string
}

// DataDir returns the per-user data directory, creating nothing.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", PluginID), nil
}

// DefaultDocument builds the built-in settings document rooted at home.
func DefaultDocument(home string) Document {
	dataDir := filepath.Join(home, ".local", "share", PluginID)
	return Document{
		"remoteHost":       "",
		"remoteConfigPath": "",
		"localGamesPath":   filepath.Join(home, "Games"),
		"proton": map[string]interface{}{
			"compatdataPath": filepath.Join(home, ".local", "share", "Steam", "steamapps", "compatdata"),
			"defaultVersion": "GE-Proton10-25",
		},
		"saveBackupPath":   filepath.Join(dataDir, "saves"),
		"rsyncFlags":       "-avz",
		"catalogTransport": "rsync",
	}
}

// SettingsFromDocument projects a Document onto the typed view. Missing or
// mistyped keys come back as zero values; the store guarantees defaults are
// present for every key the kernel reads.
func SettingsFromDocument(doc Document) Settings {
	s := Settings{
		RemoteHost:       docString(doc, "remoteHost"),
		RemoteConfigPath: docString(doc, "remoteConfigPath"),
		LocalGamesPath:   docString(doc, "localGamesPath"),
		SaveBackupPath:   docString(doc, "saveBackupPath"),
		RsyncFlags:       docString(doc, "rsyncFlags"),
		CatalogTransport: docString(doc, "catalogTransport"),
	}
	if proton, ok := doc["proton"].(map[string]interface{}); ok {
		s.CompatdataPath = docString(proton, "compatdataPath")
		s.DefaultProtonVersion = docString(proton, "defaultVersion")
	}
	return s
}

func docString(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
