// Package rsync wraps the external rsync binary as a directional mirroring
// primitive. Exactly one of push (local to remote) or pull (remote to local)
// must be selected per call; the remote side is addressed as host:path using
// the configured remote host.
package rsync

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const binary = "rsync"

// Options select the transfer direction and deletion policy for one mirror.
// Delete makes the destination an exact mirror of the source, removing
// destination-only entries; only use it where the destination is fully
// derived from the source.
type Options struct {
	Push   bool
	Pull   bool
	Delete bool
}

// Syncer is the mirroring contract the engine drives.
type Syncer interface {
	// MirrorDir mirrors a directory between remotePath on the configured
	// host and localPath, in the direction opts selects.
	MirrorDir(ctx context.Context, remotePath, localPath string, opts Options) error

	// PullFile downloads a single remote file into localPath.
	PullFile(ctx context.Context, remoteFile, localPath string) error
}

// SettingsSource supplies the current settings snapshot per call, so a
// long-lived syncer observes settings merges.
type SettingsSource interface {
	Settings() model.Settings
}

type RsyncSyncer struct {
	source SettingsSource
}

func NewSyncer(source SettingsSource) *RsyncSyncer {
	return &RsyncSyncer{source: source}
}

func (s *RsyncSyncer) MirrorDir(ctx context.Context, remotePath, localPath string, opts Options) error {
	if opts.Push == opts.Pull {
		return model.NewConfigurationError("exactly one of push or pull must be selected for rsync")
	}
	if err := os.MkdirAll(localPath, 0755); err != nil {
		return errors.Wrap(err, "failed to create local directory")
	}
	// Trailing separators make rsync treat both sides as directory contents.
	return s.run(ctx, remotePath+"/", localPath+string(os.PathSeparator), opts)
}

func (s *RsyncSyncer) PullFile(ctx context.Context, remoteFile, localPath string) error {
	destDir := filepath.Dir(localPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create local directory")
	}
	// The local side is the containing directory, trailing-separator
	// qualified so rsync targets a directory rather than renaming the file.
	return s.run(ctx, remoteFile, destDir+string(os.PathSeparator), Options{Pull: true})
}

func (s *RsyncSyncer) run(ctx context.Context, remote, local string, opts Options) error {
	if opts.Push == opts.Pull {
		return model.NewConfigurationError("exactly one of push or pull must be selected for rsync")
	}

	settings := s.source.Settings()
	host := strings.TrimSpace(settings.RemoteHost)
	if host == "" {
		return model.NewConfigurationError("remote host is not configured")
	}

	flags, err := shellquote.Split(settings.RsyncFlags)
	if err != nil {
		return model.NewConfigurationError("invalid rsync flags '%s': %v", settings.RsyncFlags, err)
	}

	args := flags
	if opts.Delete {
		args = append(args, "--delete")
	}

	var source, destination string
	if opts.Pull {
		source = host + ":" + remote
		destination = local
	} else {
		source = local
		destination = host + ":" + remote
	}
	args = append(args, source, destination)

	logrus.Debugf("rsync %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return &model.ToolUnavailableError{
				Tool: binary,
				Hint: "Install rsync to enable remote sync.",
			}
		}
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return &model.SyncError{Op: "rsync", Output: output, Err: err}
	}
	return nil
}
