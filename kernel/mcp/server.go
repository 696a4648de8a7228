// Package mcp exposes the game lifecycle workflows and the catalog over the
// Model Context Protocol, served on stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avivkilloz/deckyfin/kernel/catalog"
	"github.com/avivkilloz/deckyfin/kernel/model"
	"github.com/avivkilloz/deckyfin/kernel/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Workflows is the slice of the engine the MCP server drives.
type Workflows interface {
	Install(ctx context.Context, name string) (*model.Result, error)
	Remove(ctx context.Context, name string) (*model.Result, error)
	SyncSaves(ctx context.Context, name string) (*model.Result, error)
	SyncAllSaves(ctx context.Context) (*model.Result, error)
}

// GameSource is the slice of the catalog the MCP server reads.
type GameSource interface {
	Games(ctx context.Context) ([]*model.Game, error)
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

type DeckyfinMCPServer struct {
	server    *server.MCPServer
	store     store.SettingsStore
	games     GameSource
	workflows Workflows
}

func NewDeckyfinMCPServer(settings store.SettingsStore, games GameSource, workflows Workflows) *DeckyfinMCPServer {
	srv := server.NewMCPServer(
		"Deckyfin Game Manager",
		"v1.0.0",
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(true),
	)

	ds := &DeckyfinMCPServer{
		server:    srv,
		store:     settings,
		games:     games,
		workflows: workflows,
	}

	ds.registerTools()
	ds.registerResources()

	return ds
}

func (ds *DeckyfinMCPServer) ServeStdio() error {
	return server.ServeStdio(ds.server)
}

func (ds *DeckyfinMCPServer) registerTools() {
	ds.server.AddTool(mcp.NewTool("list_games",
		mcp.WithDescription("List all catalogued games with their installation state"),
	), ds.listGamesHandler)

	ds.server.AddTool(mcp.NewTool("refresh_catalog",
		mcp.WithDescription("Re-fetch the game catalog from the remote host"),
	), ds.refreshCatalogHandler)

	ds.server.AddTool(mcp.NewTool("install_game",
		mcp.WithDescription("Download a game, provision its Proton prefix and add it to Steam"),
		mcp.WithString("name",
			mcp.Description("Display name of the game as listed in the catalog"),
			mcp.Required(),
		),
	), ds.installGameHandler)

	ds.server.AddTool(mcp.NewTool("remove_game",
		mcp.WithDescription("Back up saves, then delete a game's files, prefix and Steam shortcut"),
		mcp.WithString("name",
			mcp.Description("Display name of the game as listed in the catalog"),
			mcp.Required(),
		),
	), ds.removeGameHandler)

	ds.server.AddTool(mcp.NewTool("sync_saves",
		mcp.WithDescription("Back up one game's save paths and push them to the remote host"),
		mcp.WithString("name",
			mcp.Description("Display name of the game as listed in the catalog"),
			mcp.Required(),
		),
	), ds.syncSavesHandler)

	ds.server.AddTool(mcp.NewTool("sync_all_saves",
		mcp.WithDescription("Back up saves for every installed game, collecting per-game failures"),
	), ds.syncAllSavesHandler)
}

func (ds *DeckyfinMCPServer) registerResources() {
	ds.server.AddResource(mcp.NewResource("deckyfin://games", "Game Catalog",
		mcp.WithResourceDescription("All catalogued games with their resolved local state"),
		mcp.WithMIMEType("application/json"),
	), ds.gamesResourceHandler)

	ds.server.AddResource(mcp.NewResource("deckyfin://settings", "Settings",
		mcp.WithResourceDescription("The current settings document"),
		mcp.WithMIMEType("application/json"),
	), ds.settingsResourceHandler)
}

// gameSummary is the wire shape of one game in tool and resource output.
type gameSummary struct {
	Name        string `json:"name"`
	AppID       int64  `json:"appid"`
	Proton      string `json:"proton"`
	Installed   bool   `json:"installed"`
	PrefixReady bool   `json:"prefix_ready"`
	LastBackup  string `json:"last_backup,omitempty"`
	LocalPath   string `json:"local_path"`
}

func summarize(games []*model.Game) []gameSummary {
	summaries := make([]gameSummary, 0, len(games))
	for _, game := range games {
		summaries = append(summaries, gameSummary{
			Name:        game.Name,
			AppID:       game.SteamAppID,
			Proton:      game.ResolvedProton,
			Installed:   game.Installed,
			PrefixReady: game.PrefixReady,
			LastBackup:  game.LastBackup,
			LocalPath:   game.LocalPath,
		})
	}
	return summaries
}

func (ds *DeckyfinMCPServer) listGamesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games, err := ds.games.Games(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load catalog: %v", err)), nil
	}
	return jsonToolResult(map[string]interface{}{
		"count": len(games),
		"games": summarize(games),
	})
}

func (ds *DeckyfinMCPServer) refreshCatalogHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := ds.games.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refresh failed: %v", err)), nil
	}
	return jsonToolResult(map[string]interface{}{
		"count":        len(snapshot.Games),
		"source":       snapshot.Source,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

func (ds *DeckyfinMCPServer) installGameHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ds.runNamedWorkflow(ctx, request, ds.workflows.Install)
}

func (ds *DeckyfinMCPServer) removeGameHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ds.runNamedWorkflow(ctx, request, ds.workflows.Remove)
}

func (ds *DeckyfinMCPServer) syncSavesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ds.runNamedWorkflow(ctx, request, ds.workflows.SyncSaves)
}

func (ds *DeckyfinMCPServer) syncAllSavesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ds.workflows.SyncAllSaves(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return resultToolResult(result)
}

// runNamedWorkflow dispatches a single-game workflow keyed by the "name"
// argument. Workflow errors carry the partial step log when one exists.
func (ds *DeckyfinMCPServer) runNamedWorkflow(ctx context.Context, request mcp.CallToolRequest,
	workflow func(context.Context, string) (*model.Result, error)) (*mcp.CallToolResult, error) {

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	result, err := workflow(ctx, name)
	if err != nil {
		if result != nil && len(result.Steps) > 0 {
			return mcp.NewToolResultError(fmt.Sprintf("%v (steps: %v)", err, result.Steps)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return resultToolResult(result)
}

func (ds *DeckyfinMCPServer) gamesResourceHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	games, err := ds.games.Games(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return jsonResourceContents("deckyfin://games", map[string]interface{}{
		"count": len(games),
		"games": summarize(games),
	})
}

func (ds *DeckyfinMCPServer) settingsResourceHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResourceContents("deckyfin://settings", ds.store.Get())
}

func jsonToolResult(payload interface{}) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func resultToolResult(result *model.Result) (*mcp.CallToolResult, error) {
	return jsonToolResult(map[string]interface{}{
		"ok":       result.OK,
		"message":  result.Message,
		"steps":    result.Steps,
		"failures": result.Failures,
	})
}

func jsonResourceContents(uri string, payload interface{}) ([]mcp.ResourceContents, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(encoded),
		},
	}, nil
}
