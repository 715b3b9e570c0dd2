package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	WindowCount   int    `json:"window_count"`
	RowCount      int    `json:"row_count"`
	ActiveRow     int    `json:"active_row"`
	FocusedWindow uint64 `json:"focused_window,omitempty"`
	Animating     bool   `json:"animating"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListRowsInput is the input for the list_rows tool.
type ListRowsInput struct{}

// RowInfo describes one populated row.
type RowInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Columns int    `json:"columns"`
	Active  bool   `json:"active"`
	Urgent  bool   `json:"urgent,omitempty"`
}

// ListRowsOutput is the output for the list_rows tool.
type ListRowsOutput struct {
	Rows []RowInfo `json:"rows"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one managed window and its current frame rectangle.
type WindowInfo struct {
	ID       uint64  `json:"id"`
	Row      int     `json:"row"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Focused  bool    `json:"focused,omitempty"`
	Floating bool    `json:"floating,omitempty"`
	Urgent   bool    `json:"urgent,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// FocusInput is the input for the focus tool.
type FocusInput struct {
	Direction string `json:"direction" jsonschema:"required,Direction to move focus: left, right, up, or down. Up/down cross into the adjacent row past the column boundary."`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	WindowID uint64 `json:"window_id" jsonschema:"required,Window to focus, as reported by list_windows"`
}

// FocusRowInput is the input for the focus_row tool.
type FocusRowInput struct {
	RowName  string `json:"row_name,omitempty" jsonschema:"Named row to focus; created if absent. Takes precedence over row_index."`
	RowIndex int    `json:"row_index,omitempty" jsonschema:"Row index to focus (0 is the origin row, negatives are above it)"`
}

// MoveToRowInput is the input for the move_to_row tool.
type MoveToRowInput struct {
	RowName  string `json:"row_name,omitempty" jsonschema:"Named row to move the active column into; created if absent. Takes precedence over row_index."`
	RowIndex int    `json:"row_index,omitempty" jsonschema:"Row index to move the active column into (0 is the origin row, negatives are above it)"`
}

// MoveColumnInput is the input for the move_column tool.
type MoveColumnInput struct {
	Direction string `json:"direction" jsonschema:"required,Where to move the active column: left/right swap with the neighbor, up/down move it into the adjacent row"`
}

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// ActionOutput is the generic output for tools that run a layout command.
type ActionOutput struct {
	OK bool `json:"ok"`
}

// SetColumnWidthInput is the input for the set_column_width tool.
type SetColumnWidthInput struct {
	Fraction float64 `json:"fraction,omitempty" jsonschema:"Width as a fraction of the working area in (0,1]. Exactly one of fraction or pixels must be set."`
	Pixels   int     `json:"pixels,omitempty" jsonschema:"Absolute width in pixels"`
}

// SetTileHeightInput is the input for the set_tile_height tool.
type SetTileHeightInput struct {
	Fraction float64 `json:"fraction,omitempty" jsonschema:"Relative weight for the tile's share of the column. Exactly one of fraction or pixels must be set."`
	Pixels   int     `json:"pixels,omitempty" jsonschema:"Absolute height in pixels"`
}

// NameRowInput is the input for the name_row tool.
type NameRowInput struct {
	RowName  string `json:"row_name" jsonschema:"required,Name to assign; names are unique case-insensitively"`
	RowIndex int    `json:"row_index,omitempty" jsonschema:"Row to name (default: the active row)"`
}

// RemoveNamedRowInput is the input for the remove_named_row tool.
type RemoveNamedRowInput struct {
	RowName string `json:"row_name" jsonschema:"required,Named row to remove; its columns fold into the origin row"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	WindowID uint64 `json:"window_id,omitempty" jsonschema:"Window to close (default: the focused window)"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}
