package loader

import (
	"encoding/json"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/pkg/errors"
)

// JSONParser reads the catalog's native format:
//
//	{"games": [...], "savesPath": "games/saves"}
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*model.CatalogFile, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "invalid JSON in games file")
	}

	catalog := &model.CatalogFile{}
	if raw, ok := root["games"]; ok {
		if err := json.Unmarshal(raw, &catalog.Games); err != nil {
			return nil, errors.Wrap(err, "games file must have a 'games' key containing a list")
		}
	}
	if raw, ok := root["savesPath"]; ok {
		if err := json.Unmarshal(raw, &catalog.SavesPath); err != nil {
			return nil, errors.Wrap(err, "'savesPath' must be a string")
		}
	}
	return catalog, nil
}

func init() {
	RegisterParser("json", func() Parser { return &JSONParser{} })
}
