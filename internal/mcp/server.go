package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veighnsche/scrolltile/internal/ipc"
)

const (
	ServerName    = "scrolltile"
	ServerVersion = "0.1.0"
)

// daemonClient is the slice of the IPC client the tools need. Tests swap in
// a fake; production passes *ipc.Client.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetRows() (*ipc.RowsData, error)
	GetWindows() (*ipc.WindowsData, error)
	Do(action ipc.ActionPayload) error
	Reload() error
}

// Server is the MCP server exposing the layout engine to agents. Every tool
// goes through the daemon's IPC socket; the server holds no engine state of
// its own.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates a new MCP server talking to the daemon over IPC.
func NewServer(client daemonClient) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get daemon status: managed window count, populated rows, the active row, the focused window, and whether animations are in flight.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_rows",
		Description: "List every populated row with its index, optional name, column count, and active/urgent flags. Rows stack vertically; index 0 is the origin row and negative indices sit above it.",
	}, s.handleListRows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every managed window with its row, current frame rectangle, and focused/floating/urgent flags.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus",
		Description: "Move focus one step left, right, up, or down. Left/right walk the columns of the active row; up/down walk the tiles of the active column and cross into the adjacent row past its boundary.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a specific window by id, switching rows and layers as needed.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_row",
		Description: "Focus a row by name or index. A named row is created below the bottommost row when absent.",
	}, s.handleFocusRow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_column",
		Description: "Move the active column: left/right swap it with its neighbor, up/down carry it into the adjacent row.",
	}, s.handleMoveColumn)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_row",
		Description: "Move the active column into a row named or indexed directly, creating a named row when absent.",
	}, s.handleMoveToRow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "consume_window",
		Description: "Merge the top window of the column right of the active column into the active column (stacking).",
	}, s.handleConsume)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "expel_window",
		Description: "Split the bottom window of the active column out into its own column to the right.",
	}, s.handleExpel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_column_width",
		Description: "Set the active column's width, either as a fraction of the working area or in absolute pixels.",
	}, s.handleSetColumnWidth)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_tile_height",
		Description: "Set the focused window's height within its column, either as a relative weight or in absolute pixels.",
	}, s.handleSetTileHeight)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_tabbed",
		Description: "Toggle the active column between stacked tiles and tabbed display.",
	}, s.handleToggleTabbed)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_floating",
		Description: "Move the focused window between the tiled layout and the floating layer, keeping its on-screen position where possible.",
	}, s.handleToggleFloating)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "name_row",
		Description: "Assign a name to a row. Named rows survive even when empty and can be targeted by name.",
	}, s.handleNameRow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_named_row",
		Description: "Remove a named row; its columns fold into the origin row so no window is lost.",
	}, s.handleRemoveNamedRow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask a window to close gracefully (the focused window by default).",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Re-read the daemon's config file and apply it in place. No window is destroyed; the layout reflows under the new options.",
	}, s.handleReloadConfig)
}
