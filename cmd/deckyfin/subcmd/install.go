package subcmd

import (
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewInstallCommand())
}

func NewInstallCommand() *cobra.Command {
	installCmd := &InstallCommand{}

	return &cobra.Command{
		Use:   "install <name>",
		Short: "Download a game, provision its Proton prefix and add it to Steam",
		Args:  cobra.ExactArgs(1),
		RunE:  installCmd.run,
	}
}

type InstallCommand struct{}

func (i *InstallCommand) run(cmd *cobra.Command, args []string) error {
	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	result, err := eng.Install(cmd.Context(), args[0])
	printResult(cmd.OutOrStdout(), result)
	return err
}
