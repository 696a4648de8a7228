package subcmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	RootCmd.AddCommand(NewRemoveCommand())
}

func NewRemoveCommand() *cobra.Command {
	removeCmd := &RemoveCommand{}

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Back up saves, then delete a game's files, prefix and Steam shortcut",
		Args:  cobra.ExactArgs(1),
		RunE:  removeCmd.run,
	}

	cmd.Flags().BoolVarP(&removeCmd.Yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

type RemoveCommand struct {
	Yes bool
}

func (r *RemoveCommand) run(cmd *cobra.Command, args []string) error {
	name := args[0]

	if !r.Yes && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete '%s', its prefix and shortcut? Saves are backed up first. [y/N] ", name)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	result, err := eng.Remove(cmd.Context(), name)
	printResult(cmd.OutOrStdout(), result)
	return err
}
