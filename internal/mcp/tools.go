package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veighnsche/scrolltile/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		WindowCount:   status.WindowCount,
		RowCount:      status.RowCount,
		ActiveRow:     status.ActiveRow,
		FocusedWindow: status.FocusedWindow,
		Animating:     status.Animating,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) handleListRows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListRowsInput) (*mcpsdk.CallToolResult, ListRowsOutput, error) {
	data, err := s.client.GetRows()
	if err != nil {
		return nil, ListRowsOutput{}, err
	}
	out := ListRowsOutput{Rows: make([]RowInfo, 0, len(data.Rows))}
	for _, r := range data.Rows {
		out.Rows = append(out.Rows, RowInfo{
			Index:   r.Index,
			Name:    r.Name,
			Columns: r.Columns,
			Active:  r.Active,
			Urgent:  r.Urgent,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.GetWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(data.Windows))}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:       w.ID,
			Row:      w.Row,
			X:        w.X,
			Y:        w.Y,
			Width:    w.Width,
			Height:   w.Height,
			Focused:  w.Focused,
			Floating: w.Floating,
			Urgent:   w.Urgent,
		})
	}
	return nil, out, nil
}

// do runs a named action and wraps the result for tools with no richer
// output.
func (s *Server) do(action ipc.ActionPayload) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.client.Do(action); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if !validDirection(args.Direction) {
		return nil, ActionOutput{}, fmt.Errorf("invalid direction %q; want left, right, up, or down", args.Direction)
	}
	return s.do(ipc.ActionPayload{Name: "focus", Direction: args.Direction})
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.WindowID == 0 {
		return nil, ActionOutput{}, fmt.Errorf("window_id is required")
	}
	return s.do(ipc.ActionPayload{Name: "focus-window", WindowID: args.WindowID})
}

func (s *Server) handleFocusRow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusRowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{
		Name:     "focus-row",
		RowName:  args.RowName,
		RowIndex: args.RowIndex,
	})
}

func (s *Server) handleMoveColumn(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveColumnInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if !validDirection(args.Direction) {
		return nil, ActionOutput{}, fmt.Errorf("invalid direction %q; want left, right, up, or down", args.Direction)
	}
	return s.do(ipc.ActionPayload{Name: "move-column", Direction: args.Direction})
}

func (s *Server) handleMoveToRow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveToRowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{
		Name:     "move-to-row",
		RowName:  args.RowName,
		RowIndex: args.RowIndex,
	})
}

func (s *Server) handleConsume(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{Name: "consume"})
}

func (s *Server) handleExpel(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{Name: "expel"})
}

func (s *Server) handleSetColumnWidth(_ context.Context, _ *mcpsdk.CallToolRequest, args SetColumnWidthInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if (args.Fraction > 0) == (args.Pixels > 0) {
		return nil, ActionOutput{}, fmt.Errorf("exactly one of fraction or pixels must be set")
	}
	return s.do(ipc.ActionPayload{
		Name:     "set-column-width",
		Fraction: args.Fraction,
		Pixels:   args.Pixels,
	})
}

func (s *Server) handleSetTileHeight(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTileHeightInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if (args.Fraction > 0) == (args.Pixels > 0) {
		return nil, ActionOutput{}, fmt.Errorf("exactly one of fraction or pixels must be set")
	}
	return s.do(ipc.ActionPayload{
		Name:     "set-tile-height",
		Fraction: args.Fraction,
		Pixels:   args.Pixels,
	})
}

func (s *Server) handleToggleTabbed(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{Name: "toggle-tabbed"})
}

func (s *Server) handleToggleFloating(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{Name: "toggle-floating"})
}

func (s *Server) handleNameRow(_ context.Context, _ *mcpsdk.CallToolRequest, args NameRowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.RowName == "" {
		return nil, ActionOutput{}, fmt.Errorf("row_name is required")
	}
	return s.do(ipc.ActionPayload{
		Name:     "name-row",
		RowName:  args.RowName,
		RowIndex: args.RowIndex,
	})
}

func (s *Server) handleRemoveNamedRow(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveNamedRowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.RowName == "" {
		return nil, ActionOutput{}, fmt.Errorf("row_name is required")
	}
	return s.do(ipc.ActionPayload{Name: "remove-named-row", RowName: args.RowName})
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.do(ipc.ActionPayload{Name: "close-window", WindowID: args.WindowID})
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func validDirection(s string) bool {
	switch s {
	case "left", "right", "up", "down":
		return true
	}
	return false
}
