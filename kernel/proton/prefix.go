// Package proton provisions per-game compatibility prefixes and installs
// prefix dependencies through protontricks.
package proton

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/paths"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Stamp is the metadata document written into each provisioned prefix.
// It is read back only for display, never for control decisions.
type Stamp struct {
	Name          string `json:"name"`
	ProtonVersion string `json:"proton_version"`
	UpdatedAt     string `json:"updated_at"`
}

// ProvisionPrefix creates the Windows-style directory skeleton for appID,
// bootstraps it best-effort and writes the metadata stamp. Directory
// creation failures are fatal; a failed bootstrap is only logged.
func ProvisionPrefix(ctx context.Context, name string, appID int64, protonVersion string, settings model.Settings) (string, error) {
	prefixPath := paths.PrefixPath(appID, settings)
	pfx := filepath.Join(prefixPath, "pfx")
	userProfile := filepath.Join(paths.DriveC(prefixPath), "users", "steamuser")

	for _, dir := range []string{
		prefixPath,
		pfx,
		paths.DriveC(prefixPath),
		filepath.Join(userProfile, "Documents"),
		filepath.Join(userProfile, "AppData", "Local"),
		filepath.Join(userProfile, "AppData", "Roaming"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrapf(err, "failed to create prefix directory %s", dir)
		}
	}

	bootstrap(ctx, pfx)

	stamp := Stamp{
		Name:          name,
		ProtonVersion: protonVersion,
		UpdatedAt:     model.NowISO(),
	}
	data, err := json.MarshalIndent(stamp, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal prefix metadata")
	}
	if err := os.WriteFile(filepath.Join(prefixPath, model.StampFileName), data, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write prefix metadata")
	}
	return prefixPath, nil
}

// bootstrap initializes the Windows environment inside pfx. Best-effort: a
// missing wineboot or a non-zero exit leaves the bare skeleton, which the
// compatibility layer completes on first launch.
func bootstrap(ctx context.Context, pfx string) {
	cmd := exec.CommandContext(ctx, "wineboot", "-u")
	cmd.Env = append(os.Environ(), "WINEPREFIX="+pfx)
	if output, err := cmd.CombinedOutput(); err != nil {
		logrus.Warnf("prefix bootstrap failed (continuing): %v: %s", err, string(output))
	}
}

// ReadStamp reads the metadata stamp out of a prefix.
func ReadStamp(prefixPath string) (*Stamp, error) {
	data, err := os.ReadFile(filepath.Join(prefixPath, model.StampFileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read prefix metadata")
	}
	stamp := &Stamp{}
	if err := json.Unmarshal(data, stamp); err != nil {
		return nil, errors.Wrap(err, "invalid prefix metadata")
	}
	return stamp, nil
}
