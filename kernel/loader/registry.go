package loader

import (
	"fmt"
	"sync"

	"github.com/avivkilloz/deckyfin/kernel/model"
)

// Parser turns one catalog format into the common GameDefinition sequence.
type Parser interface {
	Parse(data []byte) (*model.CatalogFile, error)
}

// ParserFactory creates a new instance of a Parser.
type ParserFactory func() Parser

var (
	registryMu sync.RWMutex
	registry   = make(map[string]ParserFactory)
)

// RegisterParser registers a factory for a catalog format name.
// e.g. RegisterParser("json", func() Parser { return &JSONParser{} })
func RegisterParser(format string, factory ParserFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[format]; dup {
		panic("RegisterParser called twice for " + format)
	}
	registry[format] = factory
}

// GetParser creates a new parser for the named format.
func GetParser(format string) (Parser, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("catalog format '%s' not found in registry", format)
	}
	return factory(), nil
}
