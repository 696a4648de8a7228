package loader

import (
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// YAMLParser reads a YAML rendering of the catalog shape.
type YAMLParser struct{}

type catalogYaml struct {
	Games     []gameYaml `yaml:"games"`
	SavesPath string     `yaml:"savesPath"`
}

type gameYaml struct {
	Name          string   `yaml:"name"`
	Path          string   `yaml:"path"`
	RemotePath    string   `yaml:"remote_path"`
	SteamAppID    int64    `yaml:"steam_appid"`
	ProtonVersion string   `yaml:"proton_version"`
	Dependencies  []string `yaml:"proton_dependencies"`
	SyncPaths     []string `yaml:"proton_sync_paths"`
	Executable    string   `yaml:"executable"`
	Categories    []string `yaml:"categories"`
	LaunchOptions string   `yaml:"launch_options"`
}

func (p *YAMLParser) Parse(data []byte) (*model.CatalogFile, error) {
	var doc catalogYaml
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid YAML in games file")
	}

	catalog := &model.CatalogFile{SavesPath: doc.SavesPath}
	for _, g := range doc.Games {
		catalog.Games = append(catalog.Games, model.GameDefinition{
			Name:          g.Name,
			Path:          g.Path,
			RemotePath:    g.RemotePath,
			SteamAppID:    g.SteamAppID,
			ProtonVersion: g.ProtonVersion,
			Dependencies:  g.Dependencies,
			SyncPaths:     g.SyncPaths,
			Executable:    g.Executable,
			Categories:    g.Categories,
			LaunchOptions: g.LaunchOptions,
		})
	}
	return catalog, nil
}

func init() {
	RegisterParser("yaml", func() Parser { return &YAMLParser{} })
}
