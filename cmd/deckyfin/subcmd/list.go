package subcmd

import (
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewListCommand())
}

func NewListCommand() *cobra.Command {
	listCmd := &ListCommand{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued games and their local state",
		RunE:  listCmd.run,
	}

	cmd.Flags().BoolVar(&listCmd.Cached, "cached", false, "use the cached catalog without forcing a refresh")

	return cmd
}

type ListCommand struct {
	Cached bool
}

func (l *ListCommand) run(cmd *cobra.Command, args []string) error {
	_, cat, _, err := newEngine()
	if err != nil {
		return err
	}

	var games []*model.Game
	if l.Cached {
		games, err = cat.Games(cmd.Context())
		if err != nil {
			return err
		}
	} else {
		snap, err := cat.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		games = snap.Games
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Name", "App ID", "Proton", "Installed", "Prefix", "Last Backup"})
	for _, game := range games {
		t.AppendRow(table.Row{
			game.Name,
			game.SteamAppID,
			game.ResolvedProton,
			yesNo(game.Installed),
			yesNo(game.PrefixReady),
			game.LastBackup,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
