package subcmd

import (
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewImportCommand())
}

func NewImportCommand() *cobra.Command {
	importCmd := &ImportCommand{}

	return &cobra.Command{
		Use:   "import <name>",
		Short: "Restore a game's saves from the remote backup into its prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  importCmd.run,
	}
}

type ImportCommand struct{}

func (i *ImportCommand) run(cmd *cobra.Command, args []string) error {
	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	result, err := eng.ImportSaves(cmd.Context(), args[0])
	printResult(cmd.OutOrStdout(), result)
	return err
}
