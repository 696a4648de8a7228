package subcmd

import (
	"strconv"

	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewPrefixCommand())
}

func NewPrefixCommand() *cobra.Command {
	prefixCmd := &PrefixCommand{}

	return &cobra.Command{
		Use:   "prefix <appid>",
		Short: "Provision the Proton prefix for a catalogued game",
		Args:  cobra.ExactArgs(1),
		RunE:  prefixCmd.run,
	}
}

type PrefixCommand struct{}

func (p *PrefixCommand) run(cmd *cobra.Command, args []string) error {
	appID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return model.NewConfigurationError("appid must be numeric: %s", args[0])
	}

	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	result, err := eng.ProvisionPrefix(cmd.Context(), appID)
	printResult(cmd.OutOrStdout(), result)
	return err
}
