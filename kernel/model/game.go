package model

// GameDefinition is one raw entry from the games catalog, as parsed by a
// kernel/loader parser. Definitions are immutable once loaded.
type GameDefinition struct {
	Name          string   `json:"name"`
	Path          string   `json:"path,omitempty"`
	RemotePath    string   `json:"remote_path,omitempty"`
	SteamAppID    int64    `json:"steam_appid"`
	ProtonVersion string   `json:"proton_version,omitempty"`
	Dependencies  []string `json:"proton_dependencies,omitempty"`
	SyncPaths     []string `json:"proton_sync_paths,omitempty"`
	Executable    string   `json:"executable,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	LaunchOptions string   `json:"launch_options,omitempty"`
}

// Game is a decorated catalog entry: the raw definition plus every derived
// path and on-disk probe the workflows need. Installed and PrefixReady are
// snapshots taken at decoration time; refresh the catalog for fresh values.
type Game struct {
	GameDefinition

	// LocalPath is the absolute install location; DefinedPath preserves the
	// catalog's original path hint.
	LocalPath   string `json:"local_path"`
	DefinedPath string `json:"defined_path,omitempty"`

	BackupPath     string `json:"backup_path"`
	PrefixPath     string `json:"prefix_path"`
	ResolvedProton string `json:"resolved_proton_version"`

	Installed       bool   `json:"installed"`
	PrefixReady     bool   `json:"prefix_ready"`
	LastBackup      string `json:"last_backup,omitempty"`
	RemoteAvailable bool   `json:"remote_available"`
	MetadataPath    string `json:"metadata_path,omitempty"`
}

// CatalogFile is the parsed form of a games catalog source, whichever format
// it was written in.
type CatalogFile struct {
	Games     []GameDefinition
	SavesPath string
}
