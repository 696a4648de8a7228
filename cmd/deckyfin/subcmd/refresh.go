package subcmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewRefreshCommand())
}

func NewRefreshCommand() *cobra.Command {
	refreshCmd := &RefreshCommand{}

	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch the game catalog from the remote host",
		RunE:  refreshCmd.run,
	}
}

type RefreshCommand struct{}

func (r *RefreshCommand) run(cmd *cobra.Command, args []string) error {
	_, cat, _, err := newEngine()
	if err != nil {
		return err
	}

	snapshot, err := cat.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog refreshed: %d games from %s\n", len(snapshot.Games), snapshot.Source)
	return nil
}
