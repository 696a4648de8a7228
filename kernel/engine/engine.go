// Package engine sequences the multi-step install, remove and save-sync
// workflows over the catalog, the sync primitive and the external
// collaborators. Steps run strictly sequentially; each one is classified
// explicitly as ok, warning or fatal rather than caught broadly. Fatal steps
// abort the workflow and propagate with the step log collected so far;
// warnings land in the step log and the workflow continues.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avivkilloz/deckyfin/kernel/catalog"
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/proton"
	"github.com/avivkilloz/deckyfin/kernel/rsync"
	"github.com/avivkilloz/deckyfin/kernel/steam"
	"github.com/avivkilloz/deckyfin/kernel/store"
	cp "github.com/otiai10/copy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	store     store.SettingsStore
	catalog   *catalog.Catalog
	syncer    rsync.Syncer
	deps      proton.DependencyInstaller
	registrar steam.Registrar
}

func New(settings store.SettingsStore, cat *catalog.Catalog, syncer rsync.Syncer, deps proton.DependencyInstaller, registrar steam.Registrar) *Engine {
	return &Engine{
		store:     settings,
		catalog:   cat,
		syncer:    syncer,
		deps:      deps,
		registrar: registrar,
	}
}

// StepStatus classifies one workflow step's outcome.
type StepStatus int

const (
	StepOK StepStatus = iota
	StepWarning
	StepFatal
	stepSkipped
)

// StepOutcome is the tagged result of running one step.
type StepOutcome struct {
	Status StepStatus
	Detail string
	Err    error
}

func okStep(format string, args ...interface{}) StepOutcome {
	return StepOutcome{Status: StepOK, Detail: fmt.Sprintf(format, args...)}
}

func warnStep(what string, err error) StepOutcome {
	return StepOutcome{Status: StepWarning, Detail: what, Err: err}
}

func fatalStep(what string, err error) StepOutcome {
	return StepOutcome{Status: StepFatal, Detail: what, Err: err}
}

func skipStep() StepOutcome {
	return StepOutcome{Status: stepSkipped}
}

// record appends a step outcome to the result's step log. It returns the
// step's error only when the outcome is fatal.
func record(result *model.Result, out StepOutcome) error {
	switch out.Status {
	case StepOK:
		logrus.Info(out.Detail)
		result.Steps = append(result.Steps, out.Detail)
	case StepWarning:
		msg := fmt.Sprintf("%s: %v", out.Detail, out.Err)
		logrus.Warn(msg)
		result.Steps = append(result.Steps, msg)
	case StepFatal:
		msg := fmt.Sprintf("%s: %v", out.Detail, out.Err)
		logrus.Error(msg)
		result.Steps = append(result.Steps, msg)
		return errors.Wrap(out.Err, out.Detail)
	}
	return nil
}

func newResult() *model.Result {
	return &model.Result{Timestamp: model.NowISO()}
}

// copyAny mirrors the source into destination: directories replace the
// destination wholesale, files are copied with parent directories created.
// The copy itself preserves modes and nesting.
func copyAny(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return errors.Wrapf(err, "unable to stat %s", source)
	}
	if info.IsDir() {
		if err := os.RemoveAll(destination); err != nil {
			return errors.Wrapf(err, "unable to replace %s", destination)
		}
	} else if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}
	return errors.Wrapf(cp.Copy(source, destination), "unable to copy %s", source)
}
