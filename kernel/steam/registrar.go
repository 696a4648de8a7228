// Package steam covers the Steam-library shortcut boundary. Registration is
// an external collaborator contract; the bundled implementation discovers
// the shortcut registry location and records the intended change, leaving
// the vdf wire format to a real integration behind the same interface.
package steam

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Registrar registers executables as Steam library entries.
type Registrar interface {
	Register(ctx context.Context, appID int64, name, exePath, launchOptions string, categories []string) error
	Unregister(ctx context.Context, appID int64) error
}

// ShortcutRegistrar is the default Registrar. It locates the per-user
// shortcuts.vdf under the Steam userdata tree and logs the registration it
// would perform.
type ShortcutRegistrar struct {
	UserHome string
}

func NewShortcutRegistrar() (*ShortcutRegistrar, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &ShortcutRegistrar{UserHome: home}, nil
}

func (r *ShortcutRegistrar) Register(_ context.Context, appID int64, name, exePath, launchOptions string, categories []string) error {
	appID = NormalizeAppID(appID, name)

	shortcutsFile := r.findShortcutsFile()
	if shortcutsFile == "" {
		logrus.Warnf("no shortcuts.vdf found under %s; shortcut for '%s' not registered", r.userdataDir(), name)
		return nil
	}

	logrus.Infof("would add shortcut to %s: appid=%d name='%s' exe='%s' options='%s' categories=%s",
		shortcutsFile, appID, name, exePath, launchOptions, strings.Join(categories, ","))
	return nil
}

func (r *ShortcutRegistrar) Unregister(_ context.Context, appID int64) error {
	logrus.Infof("would remove appid %d from the Steam library", appID)
	return nil
}

func (r *ShortcutRegistrar) userdataDir() string {
	return filepath.Join(r.UserHome, ".local", "share", "Steam", "userdata")
}

func (r *ShortcutRegistrar) findShortcutsFile() string {
	entries, err := os.ReadDir(r.userdataDir())
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() || !isDigits(entry.Name()) {
			continue
		}
		candidate := filepath.Join(r.userdataDir(), entry.Name(), "config", "shortcuts.vdf")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// NormalizeAppID remaps platform ids below the non-Steam threshold into the
// shortcut range, deterministically per game name.
func NormalizeAppID(appID int64, name string) int64 {
	if appID >= 1000000 {
		return appID
	}
	var hash int64
	for _, r := range name {
		hash = hash*31 + int64(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return 7000000 + hash%1000000
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
