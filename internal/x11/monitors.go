package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one physical output with its pixel geometry in root
// coordinates. GetActiveMonitor narrows the geometry to the usable area the
// daemon hands to the layout engine.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors lists the enabled outputs via RandR, one Monitor per active
// CRTC.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs report zero size and no outputs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// GetActiveMonitor picks the monitor the user is working on: the one under
// the focused window, else the one under the pointer, else the first. Its
// geometry comes back narrowed to the usable work area, with panels and
// docks subtracted.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	var active *Monitor
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		active = c.monitorUnderWindow(monitors, win)
	}
	if active == nil {
		active = c.monitorUnderPointer(monitors)
	}
	if active == nil {
		active = &monitors[0]
	}

	if !c.subtractDockStruts(active) {
		// No struts advertised; fall back to intersecting with the
		// _NET_WORKAREA of the current desktop.
		workArea, err := ewmh.WorkareaGet(c.XUtil)
		if err == nil && len(workArea) > 0 {
			idx := 0
			if desktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
				if int(desktop) >= 0 && int(desktop) < len(workArea) {
					idx = int(desktop)
				}
			}
			wa := workArea[idx]

			x1 := max(active.X, int(wa.X))
			y1 := max(active.Y, int(wa.Y))
			x2 := min(active.X+active.Width, int(wa.X)+int(wa.Width))
			y2 := min(active.Y+active.Height, int(wa.Y)+int(wa.Height))
			if x2 > x1 && y2 > y1 {
				active.X = x1
				active.Y = y1
				active.Width = x2 - x1
				active.Height = y2 - y1
			}
		}
	}

	return active, nil
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

// subtractDockStruts shrinks the monitor by the struts of every dock window
// that overlaps it. Reports false when no dock claims any edge, so the
// caller can try the coarser _NET_WORKAREA route.
func (c *Connection) subtractDockStruts(monitor *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil {
			continue
		}
		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			accumulateStruts(monitor, rootW, rootH, sp, &struts)
			continue
		}

		// Some docks only set _NET_WM_STRUT; widen it to full-edge ranges.
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			sp := &ewmh.WmStrutPartial{
				Left:         s.Left,
				Right:        s.Right,
				Top:          s.Top,
				Bottom:       s.Bottom,
				LeftStartY:   0,
				LeftEndY:     uint(rootH - 1),
				RightStartY:  0,
				RightEndY:    uint(rootH - 1),
				TopStartX:    0,
				TopEndX:      uint(rootW - 1),
				BottomStartX: 0,
				BottomEndX:   uint(rootW - 1),
			}
			accumulateStruts(monitor, rootW, rootH, sp, &struts)
		}
	}

	if struts.left == 0 && struts.right == 0 && struts.top == 0 && struts.bottom == 0 {
		return false
	}

	monitor.X += struts.left
	monitor.Y += struts.top
	monitor.Width -= struts.left + struts.right
	monitor.Height -= struts.top + struts.bottom

	if monitor.Width < 1 {
		monitor.Width = 1
	}
	if monitor.Height < 1 {
		monitor.Height = 1
	}

	return true
}

// accumulateStruts folds one window's strut rectangles into acc, counting
// only the part that actually overlaps the monitor. Strut ranges are in
// root coordinates anchored to the root screen edges.
func accumulateStruts(monitor *Monitor, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	monX1 := monitor.X
	monY1 := monitor.Y
	monX2 := monitor.X + monitor.Width
	monY2 := monitor.Y + monitor.Height

	if sp.Top > 0 {
		x1, x2 := int(sp.TopStartX), int(sp.TopEndX)+1
		y1, y2 := 0, int(sp.Top)
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.top = max(acc.top, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).h)
		}
	}
	if sp.Bottom > 0 {
		x1, x2 := int(sp.BottomStartX), int(sp.BottomEndX)+1
		y1, y2 := rootH-int(sp.Bottom), rootH
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.bottom = max(acc.bottom, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).h)
		}
	}
	if sp.Left > 0 {
		x1, x2 := 0, int(sp.Left)
		y1, y2 := int(sp.LeftStartY), int(sp.LeftEndY)+1
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.left = max(acc.left, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).w)
		}
	}
	if sp.Right > 0 {
		x1, x2 := rootW-int(sp.Right), rootW
		y1, y2 := int(sp.RightStartY), int(sp.RightEndY)+1
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.right = max(acc.right, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).w)
		}
	}
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}

func intersects(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) bool {
	isect := intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2)
	return isect.w > 0 && isect.h > 0
}

// monitorUnderWindow maps a window to the monitor holding its center.
func (c *Connection) monitorUnderWindow(monitors []Monitor, windowID xproto.Window) *Monitor {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return nil
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return nil
	}

	cx := int(translate.DstX) + int(geom.Width)/2
	cy := int(translate.DstY) + int(geom.Height)/2
	for i := range monitors {
		mon := &monitors[i]
		if cx >= mon.X && cx < mon.X+mon.Width && cy >= mon.Y && cy < mon.Y+mon.Height {
			return mon
		}
	}
	return nil
}

// monitorUnderPointer maps the pointer position to its monitor.
func (c *Connection) monitorUnderPointer(monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}

	x := int(pointer.RootX)
	y := int(pointer.RootY)
	for i := range monitors {
		mon := &monitors[i]
		if x >= mon.X && x < mon.X+mon.Width && y >= mon.Y && y < mon.Y+mon.Height {
			return mon
		}
	}
	return nil
}
