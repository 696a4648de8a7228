package engine

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/paths"
	"github.com/avivkilloz/deckyfin/kernel/rsync"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SyncSaves copies a game's declared save paths out of its prefix into the
// backup directory and, when the catalog declares a remote save location,
// pushes the backup to the remote host. Missing source paths are skipped
// with a warning; copying nothing at all is fatal and leaves no marker.
func (e *Engine) SyncSaves(ctx context.Context, name string) (*model.Result, error) {
	game, err := e.catalog.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(game.SyncPaths) == 0 {
		return nil, model.NewStateError("%s has no sync paths configured", name)
	}

	settings := e.store.Settings()
	result := newResult()

	if err := os.MkdirAll(game.BackupPath, 0755); err != nil {
		return result, errors.Wrap(err, "failed to create backup directory")
	}

	copied := 0
	for _, relative := range game.SyncPaths {
		resolved := paths.ResolveEnvironment(game.PrefixPath, relative)
		if _, err := os.Stat(resolved); err != nil {
			logrus.Warnf("save path missing for %s: %s", name, relative)
			result.Steps = append(result.Steps, fmt.Sprintf("Skipped missing save path: %s", relative))
			continue
		}
		target := filepath.Join(game.BackupPath, paths.SanitizeRelative(relative))
		if err := copyAny(resolved, target); err != nil {
			return result, errors.Wrapf(err, "failed to copy %s", relative)
		}
		result.Steps = append(result.Steps, fmt.Sprintf("Copied %s", relative))
		copied++
	}

	if copied == 0 {
		return result, model.NewStateError("no save paths for %s were copied. Ensure the prefix exists", name)
	}

	timestamp := model.NowISO()
	marker := filepath.Join(game.BackupPath, model.LastSyncMarker)
	if err := os.WriteFile(marker, []byte(timestamp), 0644); err != nil {
		return result, errors.Wrap(err, "failed to write sync marker")
	}

	if strings.TrimSpace(settings.RemoteHost) != "" && e.catalog.SavesPath() != "" {
		remoteTarget := path.Join(e.catalog.SavesPath(), paths.Slug(game.Name))
		if err := e.syncer.MirrorDir(ctx, remoteTarget, game.BackupPath, rsync.Options{Push: true}); err != nil {
			return result, errors.Wrap(err, "failed to push saves to remote")
		}
		result.Steps = append(result.Steps, "Pushed saves to remote")
	}

	result.OK = true
	result.Message = fmt.Sprintf("Saves for %s copied to %s", name, game.BackupPath)
	result.Timestamp = timestamp
	return result, nil
}

// SyncAllSaves runs SyncSaves for every installed game, collecting failures
// instead of aborting. The result is OK only when every game synced.
func (e *Engine) SyncAllSaves(ctx context.Context) (*model.Result, error) {
	games, err := e.catalog.Games(ctx)
	if err != nil {
		return nil, err
	}

	result := newResult()
	successes := 0
	for _, game := range games {
		if !game.Installed {
			continue
		}
		if _, err := e.SyncSaves(ctx, game.Name); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", game.Name, err))
			continue
		}
		successes++
	}

	result.OK = len(result.Failures) == 0
	result.Message = fmt.Sprintf("Synced %d games", successes)
	return result, nil
}

// importSaves pulls a game's remote save backup down and restores each
// declared sync path into the prefix. The local backup directory is rebuilt
// from the remote copy wholesale.
func (e *Engine) importSaves(ctx context.Context, game *model.Game, settings model.Settings) error {
	savesPath := e.catalog.SavesPath()
	if savesPath == "" || strings.TrimSpace(settings.RemoteHost) == "" {
		return nil
	}

	remoteSave := path.Join(savesPath, paths.Slug(game.Name))
	if err := os.RemoveAll(game.BackupPath); err != nil {
		return errors.Wrap(err, "failed to reset backup directory")
	}
	if err := e.syncer.MirrorDir(ctx, remoteSave, game.BackupPath, rsync.Options{Pull: true}); err != nil {
		return err
	}

	for _, relative := range game.SyncPaths {
		source := filepath.Join(game.BackupPath, paths.SanitizeRelative(relative))
		if _, err := os.Stat(source); err != nil {
			continue
		}
		target := paths.ResolveEnvironment(game.PrefixPath, relative)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrap(err, "failed to create save target directory")
		}
		if err := copyAny(source, target); err != nil {
			return errors.Wrapf(err, "failed to restore %s", relative)
		}
	}
	return nil
}

// ImportSaves restores a game's saves from the remote backup location on its
// own, outside the install workflow.
func (e *Engine) ImportSaves(ctx context.Context, name string) (*model.Result, error) {
	game, err := e.catalog.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	result := newResult()
	if err := e.importSaves(ctx, game, e.store.Settings()); err != nil {
		return result, err
	}
	result.OK = true
	result.Message = fmt.Sprintf("Saves for %s imported from remote", name)
	return result, nil
}
