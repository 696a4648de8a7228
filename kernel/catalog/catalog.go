// Package catalog maintains the decorated, cached view of the games catalog.
// The cache is replaced wholesale after a successful load, so concurrent
// readers always observe either the previous or the new complete snapshot.
package catalog

import (
	"context"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/avivkilloz/deckyfin/kernel/loader"
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/remoting"
	"github.com/avivkilloz/deckyfin/kernel/rsync"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the remote catalog document into a local cache file.
type Fetcher interface {
	Fetch(ctx context.Context, settings model.Settings, remotePath, localPath string) error
}

// Snapshot is one complete, immutable view of the loaded catalog.
type Snapshot struct {
	Games       []*model.Game `json:"games"`
	SavesPath   string        `json:"savesPath,omitempty"`
	Source      string        `json:"source"`
	RefreshedAt string        `json:"refreshedAt"`
}

// SettingsSource supplies the current settings snapshot.
type SettingsSource interface {
	Settings() model.Settings
}

type Catalog struct {
	source    SettingsSource
	fetcher   Fetcher
	cachePath string

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot
	index    cmap.ConcurrentMap[string, *model.Game]
}

func New(source SettingsSource, fetcher Fetcher, cachePath string) *Catalog {
	return &Catalog{
		source:    source,
		fetcher:   fetcher,
		cachePath: cachePath,
		index:     cmap.New[*model.Game](),
	}
}

// Refresh fetches, parses and decorates the catalog, replacing the cached
// snapshot atomically. Concurrent refreshes collapse into a single load.
func (c *Catalog) Refresh(ctx context.Context) (*Snapshot, error) {
	result, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func (c *Catalog) load(ctx context.Context) (*Snapshot, error) {
	settings := c.source.Settings()

	remoteHost := strings.TrimSpace(settings.RemoteHost)
	remoteConfig := strings.TrimSpace(settings.RemoteConfigPath)
	if remoteHost == "" || remoteConfig == "" {
		return nil, model.NewConfigurationError(
			"remote host and config path must be configured. Please set remoteHost and remoteConfigPath in settings.")
	}

	if err := c.fetcher.Fetch(ctx, settings, remoteConfig, c.cachePath); err != nil {
		return nil, err
	}

	file, err := loader.Load(c.cachePath)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		SavesPath:   file.SavesPath,
		Source:      c.cachePath,
		RefreshedAt: model.NowISO(),
	}
	index := cmap.New[*model.Game]()
	for _, def := range file.Games {
		game := Decorate(def, settings)
		snapshot.Games = append(snapshot.Games, game)
		index.Set(game.Name, game)
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.index = index
	c.mu.Unlock()

	logrus.Infof("catalog refreshed: %d game(s) from %s", len(snapshot.Games), c.cachePath)
	return snapshot, nil
}

// Snapshot returns the cached snapshot, which may be nil before any load.
func (c *Catalog) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Games returns the cached decorated sequence, loading the catalog first if
// the cache is empty.
func (c *Catalog) Games(ctx context.Context) ([]*model.Game, error) {
	if snap := c.Snapshot(); snap != nil {
		return snap.Games, nil
	}
	snap, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Games, nil
}

// SavesPath returns the catalog's declared remote save location, if any.
func (c *Catalog) SavesPath() string {
	if snap := c.Snapshot(); snap != nil {
		return snap.SavesPath
	}
	return ""
}

// FindByName resolves a game by its catalog name.
func (c *Catalog) FindByName(ctx context.Context, name string) (*model.Game, error) {
	if _, err := c.Games(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	index := c.index
	c.mu.RUnlock()
	if game, ok := index.Get(name); ok {
		return game, nil
	}
	return nil, &model.NotFoundError{Kind: "game", Key: name}
}

// FindByAppID resolves a game by its platform identifier.
func (c *Catalog) FindByAppID(ctx context.Context, appID int64) (*model.Game, error) {
	games, err := c.Games(ctx)
	if err != nil {
		return nil, err
	}
	for _, game := range games {
		if game.SteamAppID == appID {
			return game, nil
		}
	}
	return nil, &model.NotFoundError{Kind: "game with app id", Key: strconv.FormatInt(appID, 10)}
}

// RemoteGamesBase derives the remote directory games live under: the parent
// of the remote catalog document.
func RemoteGamesBase(settings model.Settings) string {
	return path.Dir(strings.TrimSpace(settings.RemoteConfigPath))
}

// DefaultFetcher selects the transport named by the catalogTransport setting:
// sftp for a direct small-file download, rsync (the default) otherwise.
type DefaultFetcher struct {
	Syncer rsync.Syncer
}

func (f *DefaultFetcher) Fetch(ctx context.Context, settings model.Settings, remotePath, localPath string) error {
	if settings.CatalogTransport == "sftp" {
		return remoting.Fetch(ctx, settings, remotePath, localPath)
	}
	return f.Syncer.PullFile(ctx, remotePath, localPath)
}
