package proton

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/paths"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DependencyInstaller runs dependency installers against a game's prefix.
type DependencyInstaller interface {
	// Install runs every dependency installer for appID. Individual
	// failures are collected and returned as failed; a missing installer
	// binary aborts the loop with a ToolUnavailableError.
	Install(ctx context.Context, appID int64, dependencies []string, settings model.Settings) (failed []string, err error)
}

// Protontricks installs prefix dependencies via the protontricks utility.
type Protontricks struct{}

func (p *Protontricks) Install(ctx context.Context, appID int64, dependencies []string, settings model.Settings) ([]string, error) {
	prefixPath := paths.PrefixPath(appID, settings)
	if _, err := os.Stat(prefixPath); err != nil {
		return nil, model.NewStateError("prefix not found: %s", prefixPath)
	}

	var failed []string
	for _, dep := range dependencies {
		cmd := exec.CommandContext(ctx, "protontricks", strconv.FormatInt(appID, 10), dep)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return failed, &model.ToolUnavailableError{
					Tool: "protontricks",
					Hint: "Install it to use dependency installation.",
				}
			}
			logrus.Warnf("protontricks failed for %s: %s", dep, strings.TrimSpace(stderr.String()))
			failed = append(failed, dep)
		}
	}
	return failed, nil
}
