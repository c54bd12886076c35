package wm

import (
	"log"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"gowm/internal/xserver"
)

// Run is the cooperative event loop: pull one X event at a time,
// dispatch it synchronously, repeat. No handler may block on anything
// but an X round trip, and no two handlers ever run concurrently.
func (w *World) Run() {
	w.Running = true
	conn := w.Srv.Conn()
	for w.Running {
		ev, xerr := conn.WaitForEvent()
		if xerr != nil {
			LogXError(xerr)
			continue
		}
		if ev == nil {
			continue
		}
		w.dispatch(ev)
	}
}

// Quit stops Run's loop after the in-flight event finishes processing.
func (w *World) Quit() { w.Running = false }

func (w *World) dispatch(ev interface{}) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		w.onButtonPress(e)
	case xproto.ClientMessageEvent:
		w.onClientMessage(e)
	case xproto.ConfigureRequestEvent:
		w.onConfigureRequest(e)
	case xproto.ConfigureNotifyEvent:
		w.onConfigureNotify(e)
	case xproto.DestroyNotifyEvent:
		w.onDestroyNotify(e)
	case xproto.EnterNotifyEvent:
		w.onEnterNotify(e)
	case xproto.ExposeEvent:
		w.onExpose(e)
	case xproto.FocusInEvent:
		w.onFocusIn(e)
	case xproto.KeyPressEvent:
		w.onKeyPress(e)
	case xproto.MappingNotifyEvent:
		w.onMappingNotify(e)
	case xproto.MapRequestEvent:
		w.onMapRequest(e)
	case xproto.MotionNotifyEvent:
		w.onMotionNotify(e)
	case xproto.PropertyNotifyEvent:
		w.onPropertyNotify(e)
	case xserver.UnmapNotifyEvent:
		w.onUnmapNotify(e)
	}
}

// onButtonPress focuses the clicked client (click-to-focus) if it
// isn't already selected, then falls through to any matching button
// binding.
func (w *World) onButtonPress(e xproto.ButtonPressEvent) {
	mon := w.MonitorAt(int(e.RootX), int(e.RootY))
	if mon != w.Sel {
		w.unfocus(w.Sel.Sel, true)
		w.Sel = mon
		w.Focus(nil)
	}
	if c := w.FindClient(e.Event); c != nil {
		if c != w.Sel.Sel {
			w.Focus(c)
		}
		// Release the pointer frozen by the unfocused-state sync grab and
		// replay the click so it reaches the client.
		xproto.AllowEvents(w.Srv.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
	}
	mods := w.Srv.CleanMask(e.State)
	for _, b := range w.Cfg.Buttons {
		if b.Button == e.Detail && w.Srv.CleanMask(b.Mod) == mods {
			w.RunAction(b.Action, b.Arg)
		}
	}
}

// onClientMessage handles _NET_WM_STATE toggling fullscreen,
// _NET_ACTIVE_WINDOW requesting a client be raised and focused, and
// gowm's own config-reload wakeup.
func (w *World) onClientMessage(e xproto.ClientMessageEvent) {
	if e.Type == w.atom("GOWM_CONFIG_RELOAD") {
		if cfg := w.pendingCfg.Swap(nil); cfg != nil {
			w.Cfg = cfg
			w.ArrangeAll()
		}
		return
	}
	c := w.FindClient(e.Window)
	if c == nil {
		return
	}
	data := e.Data.Data32
	switch e.Type {
	case w.atom("_NET_WM_STATE"):
		if len(data) < 2 {
			return
		}
		fsAtom := uint32(w.atom("_NET_WM_STATE_FULLSCREEN"))
		if data[1] != fsAtom && (len(data) < 3 || data[2] != fsAtom) {
			return
		}
		const (
			netWMStateRemove = 0
			netWMStateAdd    = 1
			netWMStateToggle = 2
		)
		switch data[0] {
		case netWMStateAdd:
			w.SetFullscreen(c, true)
		case netWMStateRemove:
			w.SetFullscreen(c, false)
		case netWMStateToggle:
			w.ToggleFullscreen(c)
		}
	case w.atom("_NET_ACTIVE_WINDOW"):
		// If not currently visible, swap to a tag-set containing its
		// tags, then raise-and-focus.
		w.ActiveWindowRaise(c)
	}
}

// onConfigureRequest honors a managed floating client's requested
// geometry (clamped to size hints), but pins a tiled client to its
// already-computed geometry and answers with a synthetic
// ConfigureNotify instead.
func (w *World) onConfigureRequest(e xproto.ConfigureRequestEvent) {
	c := w.FindClient(e.Window)
	if c == nil {
		mask := e.ValueMask
		values := make([]uint32, 0, 7)
		if mask&xproto.ConfigWindowX != 0 {
			values = append(values, uint32(int32(e.X)))
		}
		if mask&xproto.ConfigWindowY != 0 {
			values = append(values, uint32(int32(e.Y)))
		}
		if mask&xproto.ConfigWindowWidth != 0 {
			values = append(values, uint32(e.Width))
		}
		if mask&xproto.ConfigWindowHeight != 0 {
			values = append(values, uint32(e.Height))
		}
		if mask&xproto.ConfigWindowBorderWidth != 0 {
			values = append(values, uint32(e.BorderWidth))
		}
		if mask&xproto.ConfigWindowSibling != 0 {
			values = append(values, uint32(e.Sibling))
		}
		if mask&xproto.ConfigWindowStackMode != 0 {
			values = append(values, uint32(e.StackMode))
		}
		if err := xproto.ConfigureWindowChecked(w.Srv.Conn(), e.Window, mask, values).Check(); err != nil {
			log.Printf("wm: passing through ConfigureRequest for unmanaged window: %v", err)
		}
		return
	}

	if c.IsFloating || w.layoutSymbol(c.Mon) == "><>" {
		x, y, width, height := c.X, c.Y, c.W, c.H
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			x = int(e.X)
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			y = int(e.Y)
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			width = int(e.Width)
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			height = int(e.Height)
		}
		w.Resize(c, x, y, width, height, false)
		if c.Mon == w.Sel {
			w.Srv.Raise(c.Win)
		}
	} else {
		w.Srv.SendConfigureNotify(c.Win, c.X, c.Y, c.W, c.H, c.BorderW)
	}
}

// onConfigureNotify handles root-window ConfigureNotify, the signal
// that screen geometry may have changed (e.g. an RandR reconfiguration).
func (w *World) onConfigureNotify(e xproto.ConfigureNotifyEvent) {
	if e.Window != w.Srv.Root {
		return
	}
	w.Srv.Screen.WidthInPixels = e.Width
	w.Srv.Screen.HeightInPixels = e.Height
	barHeight := w.barHeight()
	if changed, err := w.UpdateGeom(barHeight); err != nil {
		log.Printf("wm: UpdateGeom after ConfigureNotify: %v", err)
	} else if changed {
		w.ArrangeAll()
	}
}

func (w *World) barHeight() int {
	if w.Bar == nil {
		return 0
	}
	return int(w.Cfg.Appearance.FontSize) + 8
}

// onDestroyNotify handles a managed client's window being destroyed
// out from under us.
func (w *World) onDestroyNotify(e xproto.DestroyNotifyEvent) {
	if c := w.FindClient(e.Window); c != nil {
		w.Unmanage(c, true)
	}
}

// onEnterNotify implements focus-follows-mouse: entering a managed
// client's window, or crossing into a different monitor's root area,
// updates the selection.
func (w *World) onEnterNotify(e xproto.EnterNotifyEvent) {
	if e.Mode != xproto.NotifyModeNormal && e.Detail != xproto.NotifyDetailInferior {
		return
	}
	c := w.FindClient(e.Event)
	mon := w.MonitorAt(int(e.RootX), int(e.RootY))
	if c == nil {
		if mon != w.Sel {
			w.unfocus(w.Sel.Sel, true)
			w.Sel = mon
		}
		return
	}
	if c == w.Sel.Sel {
		return
	}
	if mon != w.Sel {
		w.unfocus(w.Sel.Sel, true)
		w.Sel = mon
	}
	w.Focus(c)
}

// onExpose redraws the bar when its window is exposed.
func (w *World) onExpose(e xproto.ExposeEvent) {
	if e.Count != 0 {
		return
	}
	for _, m := range w.Monitors {
		if m.BarWin == uint32(e.Window) {
			w.redrawBar(m)
			return
		}
	}
}

// onFocusIn defends against a non-cooperative client stealing focus:
// if the focus event isn't for the monitor's own selection, re-assert
// it.
func (w *World) onFocusIn(e xproto.FocusInEvent) {
	if w.Sel.Sel != nil && e.Event != w.Sel.Sel.Win {
		w.setFocus(w.Sel.Sel)
	}
}

// onKeyPress dispatches a cleaned (modifier, keysym) pair against the
// key binding table.
func (w *World) onKeyPress(e xproto.KeyPressEvent) {
	sym, err := w.Srv.KeycodeToKeysym(e.Detail)
	if err != nil {
		return
	}
	mods := w.Srv.CleanMask(e.State)
	for _, k := range w.Cfg.Keys {
		if xproto.Keysym(sym) == k.Sym && w.Srv.CleanMask(k.Mod) == mods {
			w.RunAction(k.Action, k.Arg)
			return
		}
	}
}

// onMappingNotify re-grabs every key binding after a keyboard mapping
// or modifier-map change, since grabbed keycodes may no longer
// correspond to the same keysyms.
func (w *World) onMappingNotify(e xproto.MappingNotifyEvent) {
	if e.Request != xproto.MappingKeyboard && e.Request != xproto.MappingModifier {
		return
	}
	if err := w.Srv.UngrabAllKeys(); err != nil {
		log.Printf("wm: ungrabbing keys before remap: %v", err)
	}
	w.grabKeys()
}

// grabKeys (re-)installs every configured key binding's grab. Keycodes
// are looked up under the current keyboard mapping; the numlock mask is
// the one detected when the connection was opened and is not re-read
// here.
func (w *World) grabKeys() {
	for _, k := range w.Cfg.Keys {
		codes, err := w.Srv.KeysymToKeycodes(k.Sym)
		if err != nil {
			continue
		}
		for _, code := range codes {
			if err := w.Srv.GrabKey(k.Mod, code); err != nil {
				log.Printf("wm: grabbing key %v+%v: %v", k.Mod, k.Sym, err)
			}
		}
	}
}

// onMapRequest manages an unmanaged, non-override-redirect window.
func (w *World) onMapRequest(e xproto.MapRequestEvent) {
	if w.FindClient(e.Window) != nil {
		return
	}
	attrs, err := w.Srv.WindowAttributes(e.Window)
	if err != nil || attrs.OverrideRedirect {
		return
	}
	geo, err := w.Srv.Geometry(e.Window)
	if err != nil {
		return
	}
	if _, err := w.Manage(e.Window, geo); err != nil {
		log.Printf("wm: managing window %d: %v", e.Window, err)
	}
}

// onMotionNotify updates the selected monitor when the pointer crosses
// a monitor boundary outside of any window; the interactive move/resize
// nested loop handles motion during a drag itself and never reaches
// here.
func (w *World) onMotionNotify(e xproto.MotionNotifyEvent) {
	mon := w.MonitorAt(int(e.RootX), int(e.RootY))
	if mon != w.Sel {
		w.unfocus(w.Sel.Sel, true)
		w.Sel = mon
		w.Focus(nil)
	}
}

// onPropertyNotify refreshes the specific cached hint the changed atom
// corresponds to.
func (w *World) onPropertyNotify(e xproto.PropertyNotifyEvent) {
	if e.Window == w.Srv.Root {
		return
	}
	c := w.FindClient(e.Window)
	if c == nil {
		return
	}
	switch e.Atom {
	case w.atom("WM_NAME"), w.atom("_NET_WM_NAME"):
		c.RefreshTitle(w)
		if w.Bar != nil {
			w.redrawBar(c.Mon)
		}
	case w.atom("WM_NORMAL_HINTS"):
		c.updateSizeHints(w)
	case w.atom("WM_HINTS"):
		c.updateWMHints(w)
		if c.IsUrgent && w.Bar != nil {
			w.redrawBar(c.Mon)
		}
	case w.atom("WM_TRANSIENT_FOR"):
		w.applyTransientFor(c, c.Mon)
	case xproto.AtomWMClass:
		mon := c.Mon
		w.applyRules(c, &mon)
	}
}

// onUnmapNotify tells apart the two ways a managed window goes away. A
// client withdrawing cleanly (ICCCM 4.1.4) unmaps the window and then
// sends a synthetic UnmapNotify to root itself, so the withdrawal is
// still reported even though the window is already gone by the time the
// WM would otherwise notice; gowm just marks it Withdrawn and leaves it
// alone. Anything else is a real, server-generated unmap and the client
// has relinquished the window for good.
func (w *World) onUnmapNotify(e xserver.UnmapNotifyEvent) {
	c := w.FindClient(e.Window)
	if c == nil {
		return
	}
	if e.Synthetic {
		c.setState(w, icccm.StateWithdrawn)
		return
	}
	w.Unmanage(c, false)
}

// ActiveWindowRaise implements the _NET_ACTIVE_WINDOW client-message
// contract fully: raise and focus, used by onClientMessage when a
// cooperating pager/taskbar asks for a client to be activated.
func (w *World) ActiveWindowRaise(c *Client) {
	if c.Mon != w.Sel {
		w.Sel = c.Mon
	}
	if !c.Mon.Visible(c) {
		w.View(c.Tags)
	}
	w.Focus(c)
	w.Srv.Raise(c.Win)
	if err := ewmh.ActiveWindowSet(w.Srv.XU, c.Win); err != nil {
		log.Printf("wm: setting _NET_ACTIVE_WINDOW: %v", err)
	}
}
