package subcmd

import (
	"github.com/avivkilloz/deckyfin/kernel/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deckyfin MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cat, settings, err := newEngine()
		if err != nil {
			return err
		}

		srv := mcp.NewDeckyfinMCPServer(settings, cat, eng)

		logrus.Info("starting deckyfin MCP server on stdio...")
		return srv.ServeStdio()
	},
}
