package subcmd

import (
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewSyncCommand())
}

func NewSyncCommand() *cobra.Command {
	syncCmd := &SyncCommand{}

	cmd := &cobra.Command{
		Use:   "sync [name]",
		Short: "Back up save paths and push them to the remote host",
		Args:  cobra.MaximumNArgs(1),
		RunE:  syncCmd.run,
	}

	cmd.Flags().BoolVar(&syncCmd.All, "all", false, "sync saves for every installed game")

	return cmd
}

type SyncCommand struct {
	All bool
}

func (s *SyncCommand) run(cmd *cobra.Command, args []string) error {
	if s.All == (len(args) == 1) {
		return model.NewConfigurationError("provide exactly one of a game name or --all")
	}

	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	var result *model.Result
	if s.All {
		result, err = eng.SyncAllSaves(cmd.Context())
	} else {
		result, err = eng.SyncSaves(cmd.Context(), args[0])
	}
	printResult(cmd.OutOrStdout(), result)
	return err
}
