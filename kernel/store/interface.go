package store

import "github.com/avivkilloz/deckyfin/kernel/model"

// SettingsStore manages the persistent settings document.
type SettingsStore interface {
	// Get returns the current in-memory document.
	Get() model.Document

	// Merge recursively merges partial into the current document, persists
	// the result and returns it. Mapping-valued keys merge recursively, all
	// other values overwrite; keys absent from partial are left alone.
	Merge(partial model.Document) (model.Document, error)

	// Settings returns the typed view of the current document.
	Settings() model.Settings
}

// DeepMerge merges overlay into base without mutating either. Maps merge
// recursively, everything else overwrites; unknown keys from overlay are
// added, and no key present in base is ever removed.
func DeepMerge(base, overlay model.Document) model.Document {
	result := make(model.Document, len(base)+len(overlay))
	for k, v := range base {
		result[k] = deepCopyValue(v)
	}
	for k, v := range overlay {
		existing, haveExisting := result[k]
		existingMap, existingIsMap := existing.(map[string]interface{})
		overlayMap, overlayIsMap := v.(map[string]interface{})
		if haveExisting && existingIsMap && overlayIsMap {
			result[k] = DeepMerge(existingMap, overlayMap)
		} else {
			result[k] = deepCopyValue(v)
		}
	}
	return result
}

func deepCopyValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, inner := range typed {
			out[k] = deepCopyValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, inner := range typed {
			out[i] = deepCopyValue(inner)
		}
		return out
	default:
		return v
	}
}
