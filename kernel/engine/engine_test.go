package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/avivkilloz/deckyfin/kernel/catalog"
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/rsync"
	"github.com/avivkilloz/deckyfin/kernel/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSyncer stands in for rsync: a pull creates the requested files under
// the local path, a push just records the call.
type fakeSyncer struct {
	calls     []string
	pullFiles []string
	fail      error
}

func (f *fakeSyncer) MirrorDir(_ context.Context, remotePath, localPath string, opts rsync.Options) error {
	direction := "push"
	if opts.Pull {
		direction = "pull"
	}
	f.calls = append(f.calls, fmt.Sprintf("%s %s -> %s", direction, remotePath, localPath))
	if f.fail != nil {
		return f.fail
	}
	if err := os.MkdirAll(localPath, 0755); err != nil {
		return err
	}
	if opts.Pull {
		for _, name := range f.pullFiles {
			if err := os.WriteFile(filepath.Join(localPath, name), []byte("x"), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeSyncer) PullFile(_ context.Context, remoteFile, localPath string) error {
	f.calls = append(f.calls, fmt.Sprintf("pull-file %s -> %s", remoteFile, localPath))
	return f.fail
}

type fakeDeps struct {
	installed []string
	failed    []string
	err       error
}

func (f *fakeDeps) Install(_ context.Context, _ int64, dependencies []string, _ model.Settings) ([]string, error) {
	f.installed = append(f.installed, dependencies...)
	return f.failed, f.err
}

type fakeRegistrar struct {
	registered   []string
	unregistered []int64
	registerErr  error
}

func (f *fakeRegistrar) Register(_ context.Context, _ int64, name, _, _ string, _ []string) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, name)
	return nil
}

func (f *fakeRegistrar) Unregister(_ context.Context, appID int64) error {
	f.unregistered = append(f.unregistered, appID)
	return nil
}

type fileFetcher struct {
	payload string
}

func (f *fileFetcher) Fetch(_ context.Context, _ model.Settings, _, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(localPath, []byte(f.payload), 0644)
}

type fixture struct {
	root      string
	store     store.SettingsStore
	catalog   *catalog.Catalog
	syncer    *fakeSyncer
	deps      *fakeDeps
	registrar *fakeRegistrar
	engine    *Engine
}

const testCatalog = `{
  "savesPath": "/srv/games/saves",
  "games": [
    {"name": "Hollow Knight", "path": "hollow-knight", "steam_appid": 367520,
     "remote_path": "hollow-knight",
     "proton_dependencies": ["vcrun2019"],
     "proton_sync_paths": ["%APPDATA%/Team Cherry/Hollow Knight"]},
    {"name": "Stardew Valley", "path": "stardew-valley", "steam_appid": 413150,
     "proton_sync_paths": ["%APPDATA%/StardewValley"]},
    {"name": "Minesweeper", "path": "minesweeper", "steam_appid": 99}
  ]
}`

func newFixture(t *testing.T, remoteHost, payload string) *fixture {
	t.Helper()
	root := t.TempDir()
	settings := store.NewMemoryStore(model.Document{
		"remoteHost":       remoteHost,
		"remoteConfigPath": "/srv/games/games.json",
		"localGamesPath":   filepath.Join(root, "Games"),
		"proton": map[string]interface{}{
			"compatdataPath": filepath.Join(root, "Steam", "steamapps", "compatdata"),
			"defaultVersion": "GE-Proton10-25",
		},
		"saveBackupPath": filepath.Join(root, "saves"),
		"rsyncFlags":     "-avz",
	})

	syncer := &fakeSyncer{pullFiles: []string{"game.exe"}}
	deps := &fakeDeps{}
	registrar := &fakeRegistrar{}
	cat := catalog.New(settings, &fileFetcher{payload: payload}, filepath.Join(root, "cache", "games.json"))

	return &fixture{
		root:      root,
		store:     settings,
		catalog:   cat,
		syncer:    syncer,
		deps:      deps,
		registrar: registrar,
		engine:    New(settings, cat, syncer, deps, registrar),
	}
}

func (f *fixture) localPath(hint string) string {
	return filepath.Join(f.root, "Games", hint)
}

func (f *fixture) prefixPath(appID string) string {
	return filepath.Join(f.root, "Steam", "steamapps", "compatdata", appID)
}

// writeSave plants a save file where the game's %APPDATA% sync path resolves.
func (f *fixture) writeSave(t *testing.T, appID, relative string) {
	t.Helper()
	target := filepath.Join(f.prefixPath(appID), "pfx", "drive_c", "users", "steamuser",
		"AppData", "Roaming", filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte("save"), 0644))
}

func TestInstall_HappyPath(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	result, err := f.engine.Install(context.Background(), "Hollow Knight")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Contains(t, result.Message, "installed successfully")

	assert.Contains(t, result.Steps, "Downloaded game files")
	assert.Contains(t, result.Steps, "Created Proton prefix")
	assert.Contains(t, result.Steps, "Installed dependencies: vcrun2019")
	assert.Contains(t, result.Steps, "Imported saves from remote")
	assert.Contains(t, result.Steps, "Added to Steam library")

	assert.Equal(t, []string{"vcrun2019"}, f.deps.installed)
	assert.Equal(t, []string{"Hollow Knight"}, f.registrar.registered)

	// game files pulled from the directory next to the remote catalog
	require.NotEmpty(t, f.syncer.calls)
	assert.Contains(t, f.syncer.calls[0], "pull /srv/games/hollow-knight -> "+f.localPath("hollow-knight"))

	// prefix skeleton and stamp exist
	assert.DirExists(t, filepath.Join(f.prefixPath("367520"), "pfx", "drive_c", "users", "steamuser", "Documents"))
	assert.FileExists(t, filepath.Join(f.prefixPath("367520"), "deckyfin.json"))

	// the reload made the cached installed flag live
	game, err := f.catalog.FindByName(context.Background(), "Hollow Knight")
	require.NoError(t, err)
	assert.True(t, game.Installed)
	assert.True(t, game.PrefixReady)
}

func TestInstall_AlreadyInstalled(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	require.NoError(t, os.MkdirAll(f.localPath("hollow-knight"), 0755))

	_, err := f.engine.Install(context.Background(), "Hollow Knight")
	require.Error(t, err)
	assert.True(t, model.IsState(err))
}

func TestInstall_MissingRemoteHostTouchesNothing(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	// configured enough to load the catalog, then drop the host
	_, err := f.catalog.Refresh(context.Background())
	require.NoError(t, err)
	_, err = f.store.Merge(model.Document{"remoteHost": "   "})
	require.NoError(t, err)

	f.syncer.calls = nil
	_, err = f.engine.Install(context.Background(), "Hollow Knight")
	require.Error(t, err)
	assert.True(t, model.IsConfiguration(err))
	assert.Empty(t, f.syncer.calls, "no transfer may start without a remote host")
	assert.NoDirExists(t, f.localPath("hollow-knight"))
}

func TestInstall_UnknownGame(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	_, err := f.engine.Install(context.Background(), "Unknown")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestInstall_NoExecutableIsFatal(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	f.syncer.pullFiles = nil // download yields no executable to probe

	result, err := f.engine.Install(context.Background(), "Minesweeper")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no executable found")
	assert.Contains(t, result.Steps, "Downloaded game files")
	assert.Empty(t, f.registrar.registered)
}

func TestInstall_DependencyFailureIsWarning(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	f.deps.failed = []string{"vcrun2019"}

	result, err := f.engine.Install(context.Background(), "Hollow Knight")
	require.NoError(t, err)
	assert.True(t, result.OK)

	found := false
	for _, step := range result.Steps {
		if step == "Some dependencies failed: vcrun2019" {
			found = true
		}
	}
	assert.True(t, found, "dependency failure should land in the step log: %v", result.Steps)
}

func TestRemove_NotInstalled(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	_, err := f.engine.Remove(context.Background(), "Hollow Knight")
	require.Error(t, err)
	assert.True(t, model.IsState(err))
	assert.Empty(t, f.syncer.calls, "no files may be touched")
}

func TestRemove_HappyPath(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	require.NoError(t, os.MkdirAll(f.localPath("hollow-knight"), 0755))
	f.writeSave(t, "367520", "Team Cherry/Hollow Knight/save1.dat")

	result, err := f.engine.Remove(context.Background(), "Hollow Knight")
	require.NoError(t, err)
	assert.True(t, result.OK)

	assert.Contains(t, result.Steps, "Backed up saves")
	assert.Contains(t, result.Steps, "Removed from Steam library")
	assert.Contains(t, result.Steps, "Deleted game folder")
	assert.Contains(t, result.Steps, "Deleted Proton prefix")

	assert.NoDirExists(t, f.localPath("hollow-knight"))
	assert.NoDirExists(t, f.prefixPath("367520"))
	assert.Len(t, f.registrar.unregistered, 1)
}

func TestRemove_SaveBackupFailureIsWarning(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	require.NoError(t, os.MkdirAll(f.localPath("minesweeper"), 0755))

	// Minesweeper declares no sync paths, so the backup step fails
	result, err := f.engine.Remove(context.Background(), "Minesweeper")
	require.NoError(t, err)
	assert.True(t, result.OK)
	require.NotEmpty(t, result.Steps)
	assert.Contains(t, result.Steps[0], "Save backup warning")
	assert.NoDirExists(t, f.localPath("minesweeper"))
}

func TestSyncSaves_NoPathsConfigured(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	_, err := f.engine.SyncSaves(context.Background(), "Minesweeper")
	require.Error(t, err)
	assert.True(t, model.IsState(err))
	assert.Contains(t, err.Error(), "no sync paths configured")
}

func TestSyncSaves_NothingCopiedWritesNoMarker(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	_, err := f.engine.SyncSaves(context.Background(), "Hollow Knight")
	require.Error(t, err)
	assert.True(t, model.IsState(err))
	assert.Contains(t, err.Error(), "were copied")

	marker := filepath.Join(f.root, "saves", "hollow-knight", ".last_sync")
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "marker must not be written when nothing was copied")
}

func TestSyncSaves_CopiesAndPushes(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	f.writeSave(t, "367520", "Team Cherry/Hollow Knight/save1.dat")

	result, err := f.engine.SyncSaves(context.Background(), "Hollow Knight")
	require.NoError(t, err)
	assert.True(t, result.OK)

	backup := filepath.Join(f.root, "saves", "hollow-knight")
	assert.FileExists(t, filepath.Join(backup, "%APPDATA%", "Team Cherry", "Hollow Knight", "save1.dat"))
	assert.FileExists(t, filepath.Join(backup, ".last_sync"))

	pushed := false
	for _, call := range f.syncer.calls {
		if call == "push /srv/games/saves/hollow-knight -> "+backup {
			pushed = true
		}
	}
	assert.True(t, pushed, "backup should be pushed to the remote save location: %v", f.syncer.calls)
}

func TestSyncSaves_PreservesNestingAndModes(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	saveRoot := filepath.Join(f.prefixPath("367520"), "pfx", "drive_c", "users", "steamuser",
		"AppData", "Roaming", "Team Cherry", "Hollow Knight")
	require.NoError(t, os.MkdirAll(filepath.Join(saveRoot, "profiles", "slot1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(saveRoot, "profiles", "slot1", "save.dat"), []byte("save"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(saveRoot, "repair.sh"), []byte("#!/bin/sh\n"), 0755))

	_, err := f.engine.SyncSaves(context.Background(), "Hollow Knight")
	require.NoError(t, err)

	copied := filepath.Join(f.root, "saves", "hollow-knight", "%APPDATA%", "Team Cherry", "Hollow Knight")
	assert.FileExists(t, filepath.Join(copied, "profiles", "slot1", "save.dat"))

	info, err := os.Stat(filepath.Join(copied, "repair.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0100, "executable bit should survive the copy")
}

func TestSyncSaves_RemotePushFailureIsFatal(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)
	f.writeSave(t, "367520", "Team Cherry/Hollow Knight/save1.dat")

	// catalog load must succeed before the syncer starts failing
	_, err := f.catalog.Refresh(context.Background())
	require.NoError(t, err)
	f.syncer.fail = &model.SyncError{Op: "rsync", Output: "connection refused"}

	_, err = f.engine.SyncSaves(context.Background(), "Hollow Knight")
	require.Error(t, err)
	assert.True(t, model.IsSync(err))
}

func TestSyncAllSaves_CollectsFailures(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	// all three installed; Minesweeper has no sync paths configured
	for _, hint := range []string{"hollow-knight", "stardew-valley", "minesweeper"} {
		require.NoError(t, os.MkdirAll(f.localPath(hint), 0755))
	}
	f.writeSave(t, "367520", "Team Cherry/Hollow Knight/save1.dat")
	f.writeSave(t, "413150", "StardewValley/save1.dat")

	result, err := f.engine.SyncAllSaves(context.Background())
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, "Synced 2 games", result.Message)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "Minesweeper: ")
}

func TestProvisionPrefix_Standalone(t *testing.T) {
	f := newFixture(t, "deck@nas", testCatalog)

	result, err := f.engine.ProvisionPrefix(context.Background(), 413150)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Contains(t, result.Message, "Stardew Valley")
	assert.DirExists(t, filepath.Join(f.prefixPath("413150"), "pfx", "drive_c"))
}
