package wm

import (
	"log"

	"gowm/internal/config"

	"github.com/BurntSushi/xgb/xproto"
)

// RunAction interprets one (action-name, Arg) pair from a key or button
// binding against the current World state. Keeping it as a single
// string-keyed dispatch (rather than a method per binding) is what lets
// config stay dependency-free of wm: bindings only ever name an action,
// never call into wm directly.
func (w *World) RunAction(action string, arg config.Arg) {
	switch action {
	case config.ActFocusStack:
		w.FocusStack(w.Sel, arg.Int)
	case config.ActFocusMonitor:
		w.FocusMonitor(arg.Int)
	case config.ActTagMonitor:
		w.TagMonitor(arg.Int)
	case config.ActMoveStack:
		w.MoveStack(arg.Int)
	case config.ActZoom:
		w.Zoom()
	case config.ActView:
		w.View(arg.Uint)
	case config.ActToggleView:
		w.ToggleView(arg.Uint)
	case config.ActTag:
		w.Tag(arg.Uint)
	case config.ActToggleTag:
		w.ToggleTag(arg.Uint)
	case config.ActToggleFloating:
		w.ToggleFloating()
	case config.ActSetMFact:
		w.SetMFact(arg.Float)
	case config.ActIncNMaster:
		w.IncNMaster(arg.Int)
	case config.ActSetLayout:
		w.SetLayout(arg.Int)
	case config.ActKillClient:
		w.KillSelected()
	case config.ActQuit:
		w.Quit()
	case config.ActMoveMouse:
		w.MoveMouse()
	case config.ActResizeMouse:
		w.ResizeMouse()
	default:
		log.Printf("wm: unknown action %q", action)
	}
}

// Zoom promotes the selected client to the head of the master area (or,
// if it's already there, swaps it with the next one down), the dwm-style
// "zoom/unzoom" binding.
func (w *World) Zoom() {
	m := w.Sel
	c := m.Sel
	if c == nil || c.IsFloating {
		return
	}
	visible := m.VisibleClients()
	if len(visible) < 2 {
		return
	}
	if c == visible[0] {
		c = visible[1]
	}
	idx := -1
	for i, v := range m.Clients {
		if v == c {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return
	}
	m.Clients = append(m.Clients[:idx], m.Clients[idx+1:]...)
	m.Clients = append([]*Client{c}, m.Clients...)
	w.Focus(c)
	w.Arrange(m)
}

// ToggleFloating flips IsFloating for the selected client (fixed-size
// clients never leave floating, since a forced tile geometry would
// violate their size hints).
func (w *World) ToggleFloating() {
	c := w.Sel.Sel
	if c == nil || c.IsFullscreen {
		return
	}
	c.IsFloating = !c.IsFloating || c.IsFixed
	if c.IsFloating {
		w.ResizeClient(c, c.X, c.Y, c.W, c.H)
	}
	w.Arrange(c.Mon)
}

// SetMFact adjusts the active monitor's master-area fraction by delta,
// clamped to [0.05, 0.95]. A zero delta resets to the configured default.
func (w *World) SetMFact(delta float64) {
	m := w.Sel
	f := m.MFact
	if delta == 0 {
		f = w.Cfg.Appearance.MFact
	} else {
		f += delta
	}
	if f < 0.05 {
		f = 0.05
	}
	if f > 0.95 {
		f = 0.95
	}
	m.MFact = f
	w.Arrange(m)
}

// IncNMaster adjusts the active monitor's master-area client count by
// delta, floored at zero.
func (w *World) IncNMaster(delta int) {
	m := w.Sel
	n := m.NMaster + delta
	if n < 0 {
		n = 0
	}
	m.NMaster = n
	w.Arrange(m)
}

// SetLayout switches the active monitor's layout by index into
// World.Cfg.Layouts.
func (w *World) SetLayout(idx int) {
	m := w.Sel
	if idx < 0 || idx >= len(w.Cfg.Layouts) {
		return
	}
	m.LayoutIdx = idx
	m.LayoutSym = w.Cfg.Layouts[idx].Symbol
	if m.Sel != nil {
		w.Arrange(m)
	} else if w.Bar != nil {
		w.redrawBar(m)
	}
}

// KillSelected politely asks a cooperating client to close via
// WM_DELETE_WINDOW, or forcibly terminates its connection if it doesn't
// support that protocol.
func (w *World) KillSelected() {
	c := w.Sel.Sel
	if c == nil {
		return
	}
	if w.sendProtocolEvent(c.Win, "WM_DELETE_WINDOW") {
		return
	}
	w.withServerGrab(func() {
		if err := w.Srv.KillClient(c.Win); err != nil {
			log.Printf("wm: killing client %d: %v", c.Win, err)
		}
	})
}

// MoveMouse runs an interactive drag loop that pumps motion events
// directly (bypassing Run's main dispatch) until the grabbed button is
// released.
func (w *World) MoveMouse() {
	c := w.Sel.Sel
	if c == nil || c.IsFullscreen {
		return
	}
	ocx, ocy := c.X, c.Y
	px, py, _, err := w.Srv.QueryPointer()
	if err != nil {
		return
	}
	w.interactiveLoop(w.Cursors.Move, func(x, y int) {
		nx, ny := ocx+(x-px), ocy+(y-py)
		nx, ny = w.snapMove(c, nx, ny)
		w.Resize(c, nx, ny, c.W, c.H, true)
	})
}

// snapMove pulls a moving client's edges flush with its monitor's work-area
// edges once within SnapPx pixels, dwm's edge-snapping during interactive
// move.
func (w *World) snapMove(c *Client, x, y int) (int, int) {
	snap := w.Cfg.Appearance.SnapPx
	m := c.Mon
	if abs(x-m.WX) < snap {
		x = m.WX
	} else if abs(m.WX+m.WW-(x+c.W+2*c.BorderW)) < snap {
		x = m.WX + m.WW - c.W - 2*c.BorderW
	}
	if abs(y-m.WY) < snap {
		y = m.WY
	} else if abs(m.WY+m.WH-(y+c.H+2*c.BorderW)) < snap {
		y = m.WY + m.WH - c.H - 2*c.BorderW
	}
	return x, y
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ResizeMouse runs an interactive drag that resizes from the client's
// top-left corner to the pointer.
func (w *World) ResizeMouse() {
	c := w.Sel.Sel
	if c == nil || c.IsFullscreen {
		return
	}
	w.interactiveLoop(w.Cursors.Resize, func(x, y int) {
		nw, nh := x-c.X, y-c.Y
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		w.Resize(c, c.X, c.Y, nw, nh, true)
	})
}

// interactiveLoop is the nested event pump used during an interactive
// move/resize: it grabs the pointer, then synchronously reads and
// discards/dispatches events until ButtonRelease, calling onMotion for
// every MotionNotify in between. Running it re-enters event handling
// (ConfigureRequest, etc. still need to be serviced for other clients)
// without going back through Run's outer loop, which is why it lives
// here rather than in dispatch.go.
func (w *World) interactiveLoop(cursor xproto.Cursor, onMotion func(x, y int)) {
	err := xproto.GrabPointerChecked(w.Srv.Conn(), false, w.Srv.Root,
		xproto.EventMaskPointerMotion|xproto.EventMaskButtonRelease,
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, cursor, xproto.TimeCurrentTime).Check()
	if err != nil {
		log.Printf("wm: grabbing pointer for interactive loop: %v", err)
		return
	}
	defer func() {
		if err := xproto.UngrabPointerChecked(w.Srv.Conn(), xproto.TimeCurrentTime).Check(); err != nil {
			log.Printf("wm: ungrabbing pointer: %v", err)
		}
	}()

	conn := w.Srv.Conn()
	for {
		ev, xerr := conn.WaitForEvent()
		if xerr != nil {
			LogXError(xerr)
			continue
		}
		switch e := ev.(type) {
		case xproto.MotionNotifyEvent:
			onMotion(int(e.RootX), int(e.RootY))
		case xproto.ButtonReleaseEvent:
			return
		case xproto.ConfigureRequestEvent:
			w.onConfigureRequest(e)
		case xproto.ExposeEvent:
			w.onExpose(e)
		}
	}
}
