package engine

import (
	"context"
	"os"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/steam"
)

// Remove backs up saves, unregisters the shortcut and deletes the game's
// install directory and prefix. Only the install-directory deletion is
// fatal; everything else degrades to a step-log warning.
func (e *Engine) Remove(ctx context.Context, name string) (*model.Result, error) {
	game, err := e.catalog.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !game.Installed {
		return nil, model.NewStateError("game '%s' is not installed", name)
	}

	result := newResult()

	// 1. save backup
	if _, err := e.SyncSaves(ctx, name); err != nil {
		_ = record(result, warnStep("Save backup warning", err))
	} else {
		_ = record(result, okStep("Backed up saves"))
	}

	// 2. Steam library
	appID := steam.NormalizeAppID(game.SteamAppID, game.Name)
	if err := e.registrar.Unregister(ctx, appID); err != nil {
		_ = record(result, warnStep("Steam removal warning", err))
	} else {
		_ = record(result, okStep("Removed from Steam library"))
	}

	// 3. game files
	if err := os.RemoveAll(game.LocalPath); err != nil {
		return result, record(result, fatalStep("Failed to delete game folder", err))
	}
	_ = record(result, okStep("Deleted game folder"))

	// 4. compatibility prefix
	if err := os.RemoveAll(game.PrefixPath); err != nil {
		_ = record(result, warnStep("Prefix deletion warning", err))
	} else {
		_ = record(result, okStep("Deleted Proton prefix"))
	}

	e.reload(ctx)

	result.OK = true
	result.Message = "Game '" + name + "' removed successfully"
	return result, nil
}
