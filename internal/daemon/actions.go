package daemon

import (
	"fmt"
	"time"

	"github.com/veighnsche/scrolltile/internal/ipc"
	"github.com/veighnsche/scrolltile/internal/layout"
	"github.com/veighnsche/scrolltile/internal/platform"
)

// dispatch routes a named action into the engine. Runs on the loop
// goroutine. Engine commands absorb out-of-range conditions as no-ops, so
// errors here mean a malformed request, not a failed layout operation.
func (d *Daemon) dispatch(action ipc.ActionPayload, now time.Time) error {
	switch action.Name {
	case "focus":
		dir, err := parseDirection(action.Direction)
		if err != nil {
			return err
		}
		d.canvas.Focus(dir, d.cfg.FocusMode(), now)

	case "focus-first":
		d.canvas.Focus(layout.Left, layout.FocusFirst, now)

	case "focus-last":
		d.canvas.Focus(layout.Right, layout.FocusLast, now)

	case "focus-window":
		if action.WindowID == 0 {
			return fmt.Errorf("focus-window requires window_id")
		}
		d.canvas.FocusWindow(layout.WindowID(action.WindowID), now)

	case "focus-row":
		if action.RowName != "" {
			key := d.canvas.EnsureNamedRow(action.RowName)
			d.canvas.FocusRow(key, now)
			return nil
		}
		d.canvas.FocusRow(action.RowIndex, now)

	case "switch-layer":
		d.canvas.SwitchFocusLayer()

	case "toggle-floating":
		d.canvas.ToggleFloating(now)

	case "move-floating":
		d.canvas.MoveFloating(action.X, action.Y)

	case "move-column":
		dir, err := parseDirection(action.Direction)
		if err != nil {
			return err
		}
		switch dir {
		case layout.Left, layout.Right:
			d.canvas.MoveColumn(dir, now)
		default:
			d.canvas.MoveColumnToRow(dir, now)
		}

	case "move-to-row":
		if action.RowName != "" {
			key := d.canvas.EnsureNamedRow(action.RowName)
			d.canvas.MoveColumnToRowKey(key, now)
			return nil
		}
		d.canvas.MoveColumnToRowKey(action.RowIndex, now)

	case "consume":
		d.canvas.ConsumeRight(now)

	case "expel":
		d.canvas.ExpelActive(now)

	case "set-column-width":
		w, err := parseColumnWidth(action)
		if err != nil {
			return err
		}
		d.canvas.SetColumnWidth(w, now)

	case "set-tile-height":
		h, err := parseTileHeight(action)
		if err != nil {
			return err
		}
		d.canvas.SetTileHeight(h, now)

	case "cycle-column-width":
		d.canvas.CycleColumnPreset(now)

	case "cycle-tile-height":
		d.canvas.CycleTilePreset(now)

	case "toggle-tabbed":
		d.canvas.ToggleTabbed(now)

	case "name-row":
		if action.RowName == "" {
			return fmt.Errorf("name-row requires row_name")
		}
		key := action.RowIndex
		if key == 0 {
			key = d.canvas.ActiveKey()
		}
		if !d.canvas.NameRow(key, action.RowName) {
			return fmt.Errorf("row name %q is already taken", action.RowName)
		}

	case "unname-row":
		d.canvas.UnnameRow(action.RowIndex, now)

	case "remove-named-row":
		if action.RowName == "" {
			return fmt.Errorf("remove-named-row requires row_name")
		}
		if !d.canvas.RemoveNamedRow(action.RowName, now) {
			return fmt.Errorf("no row named %q", action.RowName)
		}

	case "close-window":
		id, ok := d.targetWindow(action)
		if !ok {
			return fmt.Errorf("no window to close")
		}
		return d.backend.Close(platform.WindowID(id))

	case "begin-move":
		id, ok := d.targetWindow(action)
		if !ok {
			return fmt.Errorf("no window to move")
		}
		d.canvas.BeginMove(id, layout.Point{X: action.X, Y: action.Y}, now)

	case "update-move":
		d.canvas.UpdateMove(layout.Point{X: action.X, Y: action.Y}, now)

	case "end-move":
		d.canvas.EndMove(now)

	case "cancel-move":
		d.canvas.CancelMove(now)

	case "begin-resize":
		edges, err := parseEdges(action.Direction)
		if err != nil {
			return err
		}
		d.canvas.BeginResize(edges, now)

	case "update-resize":
		d.canvas.UpdateResize(action.X, action.Y, now)

	case "end-resize":
		d.canvas.EndResize(now)

	case "cancel-resize":
		d.canvas.CancelResize(now)

	case "begin-scroll":
		d.canvas.BeginScrollGesture(now)

	case "update-scroll":
		d.canvas.UpdateScrollGesture(action.X, now)

	case "end-scroll":
		d.canvas.EndScrollGesture(now)

	case "cancel-gestures":
		d.canvas.CancelGestures(now)

	default:
		return fmt.Errorf("unknown action %q", action.Name)
	}

	return nil
}

// targetWindow resolves the window an action applies to: the explicit
// window_id when given, otherwise the focused window.
func (d *Daemon) targetWindow(action ipc.ActionPayload) (layout.WindowID, bool) {
	if action.WindowID != 0 {
		return layout.WindowID(action.WindowID), true
	}
	return d.canvas.FocusedWindow()
}

func parseDirection(s string) (layout.Direction, error) {
	switch s {
	case "left":
		return layout.Left, nil
	case "right":
		return layout.Right, nil
	case "up":
		return layout.Up, nil
	case "down":
		return layout.Down, nil
	default:
		return 0, fmt.Errorf("invalid direction %q", s)
	}
}

func parseEdges(s string) (layout.Edge, error) {
	switch s {
	case "left":
		return layout.EdgeLeft, nil
	case "right":
		return layout.EdgeRight, nil
	case "up":
		return layout.EdgeTop, nil
	case "down":
		return layout.EdgeBottom, nil
	default:
		return 0, fmt.Errorf("invalid resize edge %q", s)
	}
}

func parseColumnWidth(action ipc.ActionPayload) (layout.ColumnWidth, error) {
	switch {
	case action.Pixels > 0:
		return layout.ColumnWidth{
			Kind:  layout.WidthFixed,
			Fixed: float64(action.Pixels),
		}, nil
	case action.Fraction > 0 && action.Fraction <= 1:
		return layout.ColumnWidth{
			Kind:       layout.WidthProportion,
			Proportion: action.Fraction,
		}, nil
	default:
		return layout.ColumnWidth{}, fmt.Errorf("set-column-width requires fraction in (0,1] or positive pixels")
	}
}

func parseTileHeight(action ipc.ActionPayload) (layout.TileHeight, error) {
	switch {
	case action.Pixels > 0:
		return layout.TileHeight{
			Kind:  layout.HeightFixed,
			Fixed: float64(action.Pixels),
		}, nil
	case action.Fraction > 0:
		return layout.TileHeight{
			Kind:   layout.HeightAuto,
			Weight: action.Fraction,
		}, nil
	default:
		return layout.TileHeight{}, fmt.Errorf("set-tile-height requires positive fraction or pixels")
	}
}
