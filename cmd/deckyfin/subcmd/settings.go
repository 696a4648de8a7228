package subcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/store"
	"github.com/oliveagle/jsonpath"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewSettingsCommand())
}

func NewSettingsCommand() *cobra.Command {
	settingsCmd := &SettingsCommand{}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change the settings document",
	}

	cmd.PersistentFlags().StringVar(&settingsCmd.File, "file", "", "alternate settings file path")

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Print the settings document, or one value by JSONPath",
		Args:  cobra.MaximumNArgs(1),
		RunE:  settingsCmd.get,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one settings value by dotted key",
		Args:  cobra.ExactArgs(2),
		RunE:  settingsCmd.set,
	})

	return cmd
}

type SettingsCommand struct {
	File string
}

func (s *SettingsCommand) open() (store.SettingsStore, error) {
	if s.File != "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		return store.NewFileStore(s.File, home)
	}
	return store.DefaultFileStore()
}

func (s *SettingsCommand) get(cmd *cobra.Command, args []string) error {
	settingsStore, err := s.open()
	if err != nil {
		return err
	}

	var value interface{} = settingsStore.Get()
	if len(args) == 1 {
		value, err = jsonpath.JsonPathLookup(settingsStore.Get(), normalizeJSONPath(args[0]))
		if err != nil {
			return model.NewConfigurationError("no value at %s: %v", args[0], err)
		}
	}

	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func (s *SettingsCommand) set(cmd *cobra.Command, args []string) error {
	settingsStore, err := s.open()
	if err != nil {
		return err
	}

	overlay := overlayFor(strings.Split(args[0], "."), parseValue(args[1]))
	if _, err := settingsStore.Merge(overlay); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
	return nil
}

// normalizeJSONPath accepts both full JSONPath expressions and bare dotted
// keys.
func normalizeJSONPath(p string) string {
	if strings.HasPrefix(p, "$") {
		return p
	}
	return "$." + p
}

// overlayFor builds the nested partial document that sets one dotted key.
func overlayFor(keys []string, value interface{}) model.Document {
	doc := model.Document{}
	current := doc
	for i, key := range keys {
		if i == len(keys)-1 {
			current[key] = value
			break
		}
		next := model.Document{}
		current[key] = next
		current = next
	}
	return doc
}

// parseValue keeps JSON literals typed (numbers, booleans, null) and treats
// everything else as a string.
func parseValue(raw string) interface{} {
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}
