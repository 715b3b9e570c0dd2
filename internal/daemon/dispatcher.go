package daemon

import (
	"time"

	"github.com/veighnsche/scrolltile/internal/ipc"
)

// The daemon is the IPC dispatcher. Each method marshals its work onto the
// event loop goroutine and waits for the result, so the IPC connection
// goroutines never touch the engine directly.
var _ ipc.Dispatcher = (*Daemon)(nil)

func (d *Daemon) run(fn func()) {
	done := make(chan struct{})
	d.calls <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// Status returns a snapshot of daemon state.
func (d *Daemon) Status() (ipc.StatusData, error) {
	var s ipc.StatusData
	d.run(func() {
		s = d.status(d.now())
	})
	return s, nil
}

func (d *Daemon) status(now time.Time) ipc.StatusData {
	s := ipc.StatusData{
		WindowCount:   len(d.windows),
		RowCount:      len(d.canvas.Rows()),
		ActiveRow:     d.canvas.ActiveKey(),
		Animating:     d.canvas.IsAnimating(now),
		UptimeSeconds: int64(now.Sub(d.started).Seconds()),
	}
	if id, ok := d.canvas.FocusedWindow(); ok {
		s.FocusedWindow = uint64(id)
	}
	return s
}

// Rows returns introspection records for every populated row.
func (d *Daemon) Rows() (ipc.RowsData, error) {
	var data ipc.RowsData
	d.run(func() {
		data = d.rowsData()
	})
	return data, nil
}

func (d *Daemon) rowsData() ipc.RowsData {
	infos := d.canvas.Rows()
	out := ipc.RowsData{Rows: make([]ipc.RowInfo, 0, len(infos))}
	for _, info := range infos {
		columns := 0
		if r := d.canvas.Row(info.Index); r != nil {
			columns = r.Len()
		}
		out.Rows = append(out.Rows, ipc.RowInfo{
			Index:   info.Index,
			Name:    info.Name,
			Columns: columns,
			Active:  info.Active,
			Urgent:  info.Urgent,
		})
	}
	return out
}

// Windows returns every managed window with its current frame rectangle.
func (d *Daemon) Windows() (ipc.WindowsData, error) {
	var data ipc.WindowsData
	d.run(func() {
		data = d.windowsData(d.now())
	})
	return data, nil
}

func (d *Daemon) windowsData(now time.Time) ipc.WindowsData {
	frame := d.canvas.Render(now)
	out := ipc.WindowsData{Windows: make([]ipc.WindowInfo, 0, len(frame))}
	for _, rt := range frame {
		if rt.Closing {
			continue
		}
		out.Windows = append(out.Windows, ipc.WindowInfo{
			ID:       uint64(rt.Window),
			Row:      rt.RowKey,
			X:        rt.Rect.X + rt.Offset.X,
			Y:        rt.Rect.Y + rt.Offset.Y,
			Width:    rt.Rect.Width,
			Height:   rt.Rect.Height,
			Focused:  rt.Focused,
			Floating: rt.Floating,
			Urgent:   rt.Urgent,
		})
	}
	return out
}

// Do runs a named engine command.
func (d *Daemon) Do(action ipc.ActionPayload) error {
	var err error
	d.run(func() {
		err = d.dispatch(action, d.now())
	})
	return err
}

// Reload re-reads the config file and applies it.
func (d *Daemon) Reload() error {
	var err error
	d.run(func() {
		err = d.reload()
	})
	return err
}
