package loader

import (
	"strconv"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/pkg/errors"
)

// ListParser reads the minimal line-oriented catalog format. Blank lines and
// '#' comments are skipped. A line starting with '@savesPath' sets the
// catalog's remote save location. Every other line is one game:
//
//	name|appid|remote_path[|key=value ...]
//
// Recognized keys: path, proton_version, executable, launch_options, and the
// comma-separated lists deps, sync, categories.
type ListParser struct{}

func (p *ListParser) Parse(data []byte) (*model.CatalogFile, error) {
	catalog := &model.CatalogFile{}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "@savesPath"); ok {
			catalog.SavesPath = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "="))
			continue
		}

		def, err := parseListLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "games list line %d", i+1)
		}
		catalog.Games = append(catalog.Games, def)
	}
	return catalog, nil
}

func parseListLine(line string) (model.GameDefinition, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 2 {
		return model.GameDefinition{}, errors.New("expected at least name|appid")
	}

	def := model.GameDefinition{Name: strings.TrimSpace(fields[0])}
	if def.Name == "" {
		return def, errors.New("game name is empty")
	}

	appID, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return def, errors.Wrapf(err, "invalid app id '%s'", strings.TrimSpace(fields[1]))
	}
	def.SteamAppID = appID

	rest := fields[2:]
	if len(rest) > 0 && !strings.Contains(rest[0], "=") {
		def.RemotePath = strings.TrimSpace(rest[0])
		rest = rest[1:]
	}

	for _, field := range rest {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, value, found := strings.Cut(field, "=")
		if !found {
			return def, errors.Errorf("expected key=value, got '%s'", field)
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "path":
			def.Path = value
		case "proton_version":
			def.ProtonVersion = value
		case "executable":
			def.Executable = value
		case "launch_options":
			def.LaunchOptions = value
		case "deps":
			def.Dependencies = splitList(value)
		case "sync":
			def.SyncPaths = splitList(value)
		case "categories":
			def.Categories = splitList(value)
		default:
			return def, errors.Errorf("unknown field '%s'", key)
		}
	}
	return def, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func init() {
	RegisterParser("list", func() Parser { return &ListParser{} })
}
