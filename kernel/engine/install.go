package engine

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/catalog"
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/proton"
	"github.com/avivkilloz/deckyfin/kernel/rsync"
	"github.com/avivkilloz/deckyfin/kernel/steam"
	"github.com/sirupsen/logrus"
)

// executableProbes are the conventional filenames tried when a definition
// does not name its executable; the game's own name is tried last.
var executableProbes = []string{"game.exe", "Game.exe"}

// Install runs the full installation workflow for a catalogued game:
// download, prefix provisioning, dependencies, save import, shortcut
// registration. Steps 3 and 4 degrade to warnings; the rest are fatal.
func (e *Engine) Install(ctx context.Context, name string) (*model.Result, error) {
	game, err := e.catalog.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if game.Installed {
		return nil, model.NewStateError("game '%s' is already installed", name)
	}

	settings := e.store.Settings()
	if strings.TrimSpace(settings.RemoteHost) == "" {
		return nil, model.NewConfigurationError("remote host is not configured")
	}

	result := newResult()

	// 1. game files
	if err := record(result, e.downloadGameFiles(ctx, game, settings)); err != nil {
		return result, err
	}

	// 2. compatibility prefix
	if err := record(result, e.provisionPrefix(ctx, game, settings)); err != nil {
		return result, err
	}

	// 3. prefix dependencies
	if err := record(result, e.installDependencies(ctx, game, settings)); err != nil {
		return result, err
	}

	// 4. saves from remote
	if err := record(result, e.importSavesStep(ctx, game, settings)); err != nil {
		return result, err
	}

	// 5. Steam library
	if err := record(result, e.registerShortcut(ctx, game, settings)); err != nil {
		return result, err
	}

	e.reload(ctx)

	result.OK = true
	result.Message = "Game '" + name + "' installed successfully"
	return result, nil
}

func (e *Engine) downloadGameFiles(ctx context.Context, game *model.Game, settings model.Settings) StepOutcome {
	subpath := game.RemotePath
	if subpath == "" {
		hint := game.DefinedPath
		if hint == "" {
			hint = game.LocalPath
		}
		subpath = path.Base(hint)
	}
	remoteTarget := path.Join(catalog.RemoteGamesBase(settings), subpath)

	if err := e.syncer.MirrorDir(ctx, remoteTarget, game.LocalPath, rsync.Options{Pull: true}); err != nil {
		return fatalStep("Failed to download game", err)
	}
	return okStep("Downloaded game files")
}

func (e *Engine) provisionPrefix(ctx context.Context, game *model.Game, settings model.Settings) StepOutcome {
	if _, err := proton.ProvisionPrefix(ctx, game.Name, game.SteamAppID, game.ResolvedProton, settings); err != nil {
		return fatalStep("Failed to setup prefix", err)
	}
	return okStep("Created Proton prefix")
}

func (e *Engine) installDependencies(ctx context.Context, game *model.Game, settings model.Settings) StepOutcome {
	if len(game.Dependencies) == 0 {
		return skipStep()
	}
	failed, err := e.deps.Install(ctx, game.SteamAppID, game.Dependencies, settings)
	if err != nil {
		return warnStep("Dependency installation had issues", err)
	}
	if len(failed) > 0 {
		return warnStep("Some dependencies failed", errorListOf(failed))
	}
	return okStep("Installed dependencies: %s", strings.Join(game.Dependencies, ", "))
}

func (e *Engine) importSavesStep(ctx context.Context, game *model.Game, settings model.Settings) StepOutcome {
	if e.catalog.SavesPath() == "" {
		return skipStep()
	}
	if err := e.importSaves(ctx, game, settings); err != nil {
		return warnStep("Save import had issues", err)
	}
	return okStep("Imported saves from remote")
}

func (e *Engine) registerShortcut(ctx context.Context, game *model.Game, settings model.Settings) StepOutcome {
	executable := game.Executable
	if executable == "" {
		for _, probe := range append(append([]string{}, executableProbes...), game.Name+".exe") {
			if _, err := os.Stat(filepath.Join(game.LocalPath, probe)); err == nil {
				executable = probe
				break
			}
		}
		if executable == "" {
			return fatalStep("Failed to add to Steam",
				model.NewStateError("no executable found and none specified"))
		}
	}

	exePath := filepath.Join(game.LocalPath, executable)
	launchOptions := game.LaunchOptions
	if launchOptions == "" {
		steamRoot := filepath.Dir(filepath.Dir(settings.CompatdataPath))
		launchOptions = "STEAM_COMPAT_DATA_PATH=" + steamRoot + " %command%"
	}

	appID := steam.NormalizeAppID(game.SteamAppID, game.Name)
	if err := e.registrar.Register(ctx, appID, game.Name, exePath, launchOptions, game.Categories); err != nil {
		return fatalStep("Failed to add to Steam", err)
	}
	return okStep("Added to Steam library")
}

// reload refreshes the catalog so cached installed/prefix flags reflect the
// workflow's changes. A failed refresh leaves the stale snapshot in place.
func (e *Engine) reload(ctx context.Context) {
	if _, err := e.catalog.Refresh(ctx); err != nil {
		logrus.Warnf("catalog reload after workflow failed: %v", err)
	}
}

type errorList []string

func (e errorList) Error() string {
	return strings.Join(e, ", ")
}

func errorListOf(items []string) error {
	return errorList(items)
}
