package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/paths"
)

// Decorate combines a raw catalog entry with derived paths and on-disk
// probes into a fully-resolved Game. It is pure given its inputs plus the
// filesystem snapshot at call time; callers cache the decorated set.
func Decorate(def model.GameDefinition, settings model.Settings) *model.Game {
	localPath := paths.ResolveLocal(def.Path, settings)
	prefixPath := paths.PrefixPath(def.SteamAppID, settings)
	backupPath := paths.BackupPath(def.Name, settings)

	resolvedProton := def.ProtonVersion
	if resolvedProton == "" {
		resolvedProton = settings.DefaultProtonVersion
	}

	game := &model.Game{
		GameDefinition: def,
		LocalPath:      localPath,
		DefinedPath:    def.Path,
		BackupPath:     backupPath,
		PrefixPath:     prefixPath,
		ResolvedProton: resolvedProton,
		Installed:      exists(localPath),
		PrefixReady:    exists(filepath.Join(prefixPath, "pfx")),
		LastBackup:     readLastBackup(backupPath),
		RemoteAvailable: strings.TrimSpace(settings.RemoteHost) != "" &&
			strings.TrimSpace(settings.RemoteConfigPath) != "",
	}

	metadataPath := filepath.Join(prefixPath, model.StampFileName)
	if exists(metadataPath) {
		game.MetadataPath = metadataPath
	}
	return game
}

// readLastBackup returns the trimmed content of the backup marker, or empty.
// The content is the timestamp; no format validation is applied.
func readLastBackup(backupPath string) string {
	data, err := os.ReadFile(filepath.Join(backupPath, model.LastSyncMarker))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
