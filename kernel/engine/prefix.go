package engine

import (
	"context"
	"fmt"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/proton"
)

// ProvisionPrefix provisions a game's compatibility prefix on its own,
// outside the install workflow.
func (e *Engine) ProvisionPrefix(ctx context.Context, appID int64) (*model.Result, error) {
	game, err := e.catalog.FindByAppID(ctx, appID)
	if err != nil {
		return nil, err
	}

	result := newResult()
	prefixPath, err := proton.ProvisionPrefix(ctx, game.Name, game.SteamAppID, game.ResolvedProton, e.store.Settings())
	if err != nil {
		return result, err
	}

	result.OK = true
	result.Message = fmt.Sprintf("Prepared Proton prefix for %s at %s", game.Name, prefixPath)
	return result, nil
}
