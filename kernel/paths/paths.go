// Package paths derives every filesystem location the rest of the kernel
// needs from a game's catalog entry plus the settings document. Everything in
// here is a pure function over its inputs.
package paths

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/avivkilloz/deckyfin/kernel/model"
)

// Slug normalizes a game name into a filesystem-safe identifier: lowercase
// letters and digits (any script) with runs of anything else collapsed to a
// single hyphen. All-punctuation input falls back to "game".
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	safe := b.String()
	for strings.Contains(safe, "--") {
		safe = strings.ReplaceAll(safe, "--", "-")
	}
	safe = strings.ToLower(strings.Trim(safe, "-"))
	if safe == "" {
		return "game"
	}
	return safe
}

// ResolveLocal turns a catalog path hint into an absolute install location.
// An empty hint means the configured games root; an absolute hint (after
// home expansion) is honored verbatim; a relative hint is joined under the
// games root.
func ResolveLocal(hint string, settings model.Settings) string {
	if hint == "" {
		return settings.LocalGamesPath
	}
	expanded := ExpandHome(hint)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(settings.LocalGamesPath, hint)
}

// PrefixPath locates a game's compatibility prefix under the compatdata root.
func PrefixPath(appID int64, settings model.Settings) string {
	return filepath.Join(settings.CompatdataPath, formatAppID(appID))
}

// BackupPath locates a game's save backup directory under the backup root.
func BackupPath(name string, settings model.Settings) string {
	return filepath.Join(settings.SaveBackupPath, Slug(name))
}

// DriveC returns the Windows drive root inside a prefix.
func DriveC(prefixPath string) string {
	return filepath.Join(prefixPath, "pfx", "drive_c")
}

// envTokens maps the supported Windows placeholders to their subpath under
// drive_c. Order matters: longer tokens substitute first so %LOCALAPPDATA%
// is never clipped by %APPDATA%.
var envTokens = []struct {
	token string
	parts []string
}{
	{"%LOCALAPPDATA%", []string{"users", "steamuser", "AppData", "Local"}},
	{"%USERPROFILE%", []string{"users", "steamuser"}},
	{"%DOCUMENTS%", []string{"users", "steamuser", "Documents"}},
	{"%APPDATA%", []string{"users", "steamuser", "AppData", "Roaming"}},
	{"%DRIVE_C%", nil},
}

// ResolveEnvironment resolves a save path declaration against a prefix.
// Absolute inputs are returned as-is after home expansion. Otherwise the
// Windows environment placeholders are substituted literally, before any
// path normalization; unrecognized placeholders pass through untouched.
func ResolveEnvironment(prefixPath, relative string) string {
	expanded := ExpandHome(relative)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	cleaned := strings.ReplaceAll(relative, "\\", "/")
	driveC := DriveC(prefixPath)
	for _, e := range envTokens {
		cleaned = strings.ReplaceAll(cleaned, e.token, filepath.Join(append([]string{driveC}, e.parts...)...))
	}
	return filepath.Clean(cleaned)
}

// SanitizeRelative normalizes a declared save path into a relative path safe
// to join under the backup directory.
func SanitizeRelative(p string) string {
	cleaned := strings.ReplaceAll(p, "\\", "/")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "/")
	return filepath.FromSlash(cleaned)
}

// ExpandHome substitutes a leading ~ with the current user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}

func formatAppID(appID int64) string {
	// compatdata directories are named by the numeric app id
	return strconv.FormatInt(appID, 10)
}
