package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/veighnsche/scrolltile/internal/ipc"
)

// fakeClient records actions and serves canned introspection data.
type fakeClient struct {
	status  ipc.StatusData
	rows    ipc.RowsData
	windows ipc.WindowsData

	actions  []ipc.ActionPayload
	reloads  int
	failNext error
}

func (c *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if err := c.takeErr(); err != nil {
		return nil, err
	}
	s := c.status
	return &s, nil
}

func (c *fakeClient) GetRows() (*ipc.RowsData, error) {
	if err := c.takeErr(); err != nil {
		return nil, err
	}
	r := c.rows
	return &r, nil
}

func (c *fakeClient) GetWindows() (*ipc.WindowsData, error) {
	if err := c.takeErr(); err != nil {
		return nil, err
	}
	w := c.windows
	return &w, nil
}

func (c *fakeClient) Do(action ipc.ActionPayload) error {
	if err := c.takeErr(); err != nil {
		return err
	}
	c.actions = append(c.actions, action)
	return nil
}

func (c *fakeClient) Reload() error {
	if err := c.takeErr(); err != nil {
		return err
	}
	c.reloads++
	return nil
}

func (c *fakeClient) takeErr() error {
	err := c.failNext
	c.failNext = nil
	return err
}

func (c *fakeClient) lastAction(t *testing.T) ipc.ActionPayload {
	t.Helper()
	if len(c.actions) == 0 {
		t.Fatal("no action was dispatched")
	}
	return c.actions[len(c.actions)-1]
}

func TestGetStatusPassesThrough(t *testing.T) {
	client := &fakeClient{status: ipc.StatusData{
		WindowCount:   3,
		RowCount:      2,
		ActiveRow:     1,
		FocusedWindow: 42,
		Animating:     true,
		UptimeSeconds: 60,
	}}
	s := NewServer(client)

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus error: %v", err)
	}
	if out.WindowCount != 3 || out.ActiveRow != 1 || out.FocusedWindow != 42 || !out.Animating {
		t.Fatalf("status output = %+v", out)
	}
}

func TestListRowsAndWindowsPassThrough(t *testing.T) {
	client := &fakeClient{
		rows: ipc.RowsData{Rows: []ipc.RowInfo{
			{Index: 0, Columns: 2, Active: true},
			{Index: 1, Name: "mail", Columns: 1},
		}},
		windows: ipc.WindowsData{Windows: []ipc.WindowInfo{
			{ID: 7, Row: 0, X: 16, Y: 16, Width: 476, Height: 568, Focused: true},
		}},
	}
	s := NewServer(client)

	_, rows, err := s.handleListRows(context.Background(), nil, ListRowsInput{})
	if err != nil {
		t.Fatalf("handleListRows error: %v", err)
	}
	if len(rows.Rows) != 2 || rows.Rows[1].Name != "mail" {
		t.Fatalf("rows output = %+v", rows)
	}

	_, wins, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows error: %v", err)
	}
	if len(wins.Windows) != 1 || wins.Windows[0].ID != 7 || !wins.Windows[0].Focused {
		t.Fatalf("windows output = %+v", wins)
	}
}

func TestFocusValidatesDirection(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client)

	if _, _, err := s.handleFocus(context.Background(), nil, FocusInput{Direction: "sideways"}); err == nil {
		t.Fatal("invalid direction should be rejected before reaching the daemon")
	}
	if len(client.actions) != 0 {
		t.Fatalf("actions = %v, want none", client.actions)
	}

	_, out, err := s.handleFocus(context.Background(), nil, FocusInput{Direction: "left"})
	if err != nil {
		t.Fatalf("handleFocus error: %v", err)
	}
	if !out.OK {
		t.Fatal("expected ok output")
	}
	action := client.lastAction(t)
	if action.Name != "focus" || action.Direction != "left" {
		t.Fatalf("dispatched %+v", action)
	}
}

func TestSetColumnWidthRequiresExactlyOneForm(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client)

	bad := []SetColumnWidthInput{
		{},
		{Fraction: 0.5, Pixels: 640},
	}
	for _, args := range bad {
		if _, _, err := s.handleSetColumnWidth(context.Background(), nil, args); err == nil {
			t.Errorf("args %+v should be rejected", args)
		}
	}

	if _, _, err := s.handleSetColumnWidth(context.Background(), nil, SetColumnWidthInput{Pixels: 640}); err != nil {
		t.Fatalf("pixels form failed: %v", err)
	}
	action := client.lastAction(t)
	if action.Name != "set-column-width" || action.Pixels != 640 {
		t.Fatalf("dispatched %+v", action)
	}
}

func TestNamedRowToolsRequireName(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client)

	if _, _, err := s.handleNameRow(context.Background(), nil, NameRowInput{}); err == nil {
		t.Fatal("name_row without row_name should fail")
	}
	if _, _, err := s.handleRemoveNamedRow(context.Background(), nil, RemoveNamedRowInput{}); err == nil {
		t.Fatal("remove_named_row without row_name should fail")
	}

	if _, _, err := s.handleNameRow(context.Background(), nil, NameRowInput{RowName: "mail", RowIndex: 2}); err != nil {
		t.Fatalf("name_row failed: %v", err)
	}
	action := client.lastAction(t)
	if action.Name != "name-row" || action.RowName != "mail" || action.RowIndex != 2 {
		t.Fatalf("dispatched %+v", action)
	}
}

func TestDaemonErrorsPropagate(t *testing.T) {
	client := &fakeClient{failNext: fmt.Errorf("daemon not running")}
	s := NewServer(client)

	if _, _, err := s.handleConsume(context.Background(), nil, EmptyInput{}); err == nil {
		t.Fatal("daemon error should propagate to the tool caller")
	}
}

func TestReloadConfigGoesThroughClient(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client)

	if _, _, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{}); err != nil {
		t.Fatalf("handleReloadConfig error: %v", err)
	}
	if client.reloads != 1 {
		t.Fatalf("reloads = %d, want 1", client.reloads)
	}
}
