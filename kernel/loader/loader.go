// Package loader parses games catalog files into GameDefinition sequences.
// Three formats are supported behind a common registry: the JSON document the
// plugin has always used, a YAML rendering of the same shape, and a minimal
// line-oriented list format.
package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/pkg/errors"
)

// Load reads and parses the catalog file at path, detecting its format.
func Load(path string) (*model.CatalogFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Errorf("games file not found at %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read games file")
	}

	parser, err := GetParser(DetectFormat(path, data))
	if err != nil {
		return nil, err
	}
	return parser.Parse(data)
}

// DetectFormat picks a registered format name from the file extension,
// falling back to a content sniff: a leading brace means JSON, a document
// with top-level mapping syntax means YAML, anything else is the list format.
func DetectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".list", ".txt":
		return "list"
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return "json"
	}
	for _, line := range strings.Split(string(trimmed), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "games:") || strings.HasPrefix(line, "savesPath:") {
			return "yaml"
		}
		break
	}
	return "list"
}
