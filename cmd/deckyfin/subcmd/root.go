package subcmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/avivkilloz/deckyfin/kernel/catalog"
	"github.com/avivkilloz/deckyfin/kernel/engine"
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/proton"
	"github.com/avivkilloz/deckyfin/kernel/rsync"
	"github.com/avivkilloz/deckyfin/kernel/steam"
	"github.com/avivkilloz/deckyfin/kernel/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var RootCmd = &cobra.Command{
	Use:   "deckyfin",
	Short: "Manage game installations, Proton prefixes and save backups",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// newEngine wires the default collaborators around the on-disk settings
// file: rsync transfers, protontricks dependencies and the Steam shortcut
// registry.
func newEngine() (*engine.Engine, *catalog.Catalog, store.SettingsStore, error) {
	settings, err := store.DefaultFileStore()
	if err != nil {
		return nil, nil, nil, err
	}
	dataDir, err := model.DataDir()
	if err != nil {
		return nil, nil, nil, err
	}

	syncer := rsync.NewSyncer(settings)
	cat := catalog.New(settings, &catalog.DefaultFetcher{Syncer: syncer},
		filepath.Join(dataDir, model.CatalogCacheName))

	registrar, err := steam.NewShortcutRegistrar()
	if err != nil {
		return nil, nil, nil, err
	}

	eng := engine.New(settings, cat, syncer, &proton.Protontricks{}, registrar)
	return eng, cat, settings, nil
}

// printResult renders a workflow result with its step log and any per-game
// failures.
func printResult(w io.Writer, result *model.Result) {
	if result == nil {
		return
	}
	fmt.Fprintln(w, result.Message)
	for _, step := range result.Steps {
		fmt.Fprintf(w, "  - %s\n", step)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(w, "  ! %s\n", failure)
	}
}
