// Package remoting fetches single files from the remote host over sftp,
// avoiding an rsync spawn for small transfers like the catalog document.
package remoting

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// Fetch downloads remotePath from the configured host into localPath.
// The host setting may be user@host or user@host:port; user defaults to the
// current user and port to 22.
func Fetch(ctx context.Context, settings model.Settings, remotePath, localPath string) error {
	host := strings.TrimSpace(settings.RemoteHost)
	if host == "" {
		return model.NewConfigurationError("remote host is not configured")
	}

	username, addr, err := splitHost(host)
	if err != nil {
		return err
	}

	config := &ssh.ClientConfig{
		User:            username,
		Auth:            authMethods(),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &model.SyncError{Op: "sftp", Output: err.Error(), Err: err}
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return &model.SyncError{Op: "sftp", Output: err.Error(), Err: err}
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer func() { _ = client.Close() }()

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		return &model.SyncError{Op: "sftp", Output: err.Error(), Err: err}
	}
	defer func() { _ = sftpClient.Close() }()

	remote, err := sftpClient.Open(remotePath)
	if err != nil {
		return &model.SyncError{Op: "sftp", Output: fmt.Sprintf("unable to open %s: %v", remotePath, err), Err: err}
	}
	defer func() { _ = remote.Close() }()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create local directory")
	}
	local, err := os.Create(localPath)
	if err != nil {
		return errors.Wrap(err, "failed to create local file")
	}
	defer func() { _ = local.Close() }()

	n, err := io.Copy(local, remote)
	if err != nil {
		return &model.SyncError{Op: "sftp", Output: err.Error(), Err: err}
	}
	logrus.Debugf("fetched %s (%d bytes) via sftp", remotePath, n)
	return nil
}

// splitHost parses [user@]host[:port] into a username and dial address.
func splitHost(host string) (string, string, error) {
	username := ""
	if at := strings.LastIndex(host, "@"); at >= 0 {
		username = host[:at]
		host = host[at+1:]
	}
	if username == "" {
		current, err := user.Current()
		if err != nil {
			return "", "", errors.Wrap(err, "unable to determine current user")
		}
		username = current.Username
	}
	if !strings.Contains(host, ":") {
		host += ":22"
	}
	return username, host, nil
}

// authMethods tries the ssh agent first, then the conventional key files.
func authMethods() []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return methods
	}
	for _, name := range []string{"id_ed25519", "id_rsa"} {
		keyPath := filepath.Join(home, ".ssh", name)
		data, err := os.ReadFile(keyPath)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			logrus.Debugf("skipping unparseable key %s: %v", keyPath, err)
			continue
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	return methods
}
