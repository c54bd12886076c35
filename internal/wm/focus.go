package wm

import (
	"log"

	"gowm/internal/config"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Focus unfocuses the previous selection, selects c (or the top of the
// focus stack if c is nil), and issues SetInputFocus/_NET_ACTIVE_WINDOW.
// A nil c with an empty stack clears focus to the root window, matching
// dwm's unfocus-to-root path.
func (w *World) Focus(c *Client) {
	mon := w.Sel
	if c == nil || !mon.Visible(c) {
		c = nil
		for _, s := range mon.Stack {
			if mon.Visible(s) {
				c = s
				break
			}
		}
	}
	if mon.Sel != nil && mon.Sel != c {
		w.unfocus(mon.Sel, false)
	}
	if c != nil {
		if c.Mon != mon {
			mon = c.Mon
			w.Sel = mon
		}
		if c.IsUrgent {
			w.SetUrgent(c, false)
		}
		mon.DetachStack(c)
		mon.AttachStack(c)
		w.grabButtonsFor(c, true)
		if err := w.Srv.SetBorderColor(c.Win, w.borderPixel(true)); err != nil {
			log.Printf("wm: set border color: %v", err)
		}
		w.setFocus(c)
	} else {
		w.Srv.SetInputFocus(w.Srv.Root, xproto.TimeCurrentTime)
		if err := ewmh.ActiveWindowSet(w.Srv.XU, 0); err != nil {
			log.Printf("wm: clearing _NET_ACTIVE_WINDOW: %v", err)
		}
	}
	mon.Sel = c
	if w.Bar != nil {
		w.redrawBar(mon)
	}
}

// setFocus issues the actual SetInputFocus/WM_TAKE_FOCUS/_NET_ACTIVE_WINDOW
// sequence for c.
func (w *World) setFocus(c *Client) {
	if !c.NeverFocus {
		w.Srv.SetInputFocus(c.Win, xproto.TimeCurrentTime)
		if err := ewmh.ActiveWindowSet(w.Srv.XU, c.Win); err != nil {
			log.Printf("wm: setting _NET_ACTIVE_WINDOW: %v", err)
		}
	}
	w.sendProtocolEvent(c.Win, "WM_TAKE_FOCUS")
}

// unfocus reverses setFocus's visible effects: restores the unfocused
// border color and, when setfocus is true, moves the input focus to the
// root window and clears _NET_ACTIVE_WINDOW.
func (w *World) unfocus(c *Client, setfocus bool) {
	if c == nil {
		return
	}
	w.grabButtonsFor(c, false)
	if err := w.Srv.SetBorderColor(c.Win, w.borderPixel(false)); err != nil {
		log.Printf("wm: set border color: %v", err)
	}
	if setfocus {
		w.Srv.SetInputFocus(w.Srv.Root, xproto.TimeCurrentTime)
		if err := ewmh.ActiveWindowSet(w.Srv.XU, 0); err != nil {
			log.Printf("wm: clearing _NET_ACTIVE_WINDOW: %v", err)
		}
	}
	w.PrevClient = c
}

// sendProtocolEvent delivers a ClientMessage for one of WM_PROTOCOLS'
// member atoms (WM_DELETE_WINDOW, WM_TAKE_FOCUS) if the client advertises
// support for it via WM_PROTOCOLS, per ICCCM 4.1.2.7 / 4.2.8.
func (w *World) sendProtocolEvent(win xproto.Window, protocol string) bool {
	protocols, err := icccm.WmProtocolsGet(w.Srv.XU, win)
	if err != nil {
		return false
	}
	supported := false
	for _, p := range protocols {
		if p == protocol {
			supported = true
			break
		}
	}
	if !supported {
		return false
	}
	protoAtom := w.atom("WM_PROTOCOLS")
	targetAtom := w.atom(protocol)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protoAtom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(targetAtom), 0, 0, 0, 0,
		}),
	}
	err = xproto.SendEventChecked(w.Srv.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
	return err == nil
}

// SetUrgent toggles a client's urgency hint. Focus uses it to clear the
// hint on a client it is about to select; a client's own WM_HINTS
// urgency is recorded by updateWMHints instead.
func (w *World) SetUrgent(c *Client, urgent bool) {
	c.IsUrgent = urgent
	hints, err := icccm.WmHintsGet(w.Srv.XU, c.Win)
	if err != nil {
		hints = &icccm.Hints{}
	}
	if urgent {
		hints.Flags |= icccm.HintUrgency
	} else {
		hints.Flags &^= icccm.HintUrgency
	}
	if err := icccm.WmHintsSet(w.Srv.XU, c.Win, hints); err != nil {
		log.Printf("wm: setting WM_HINTS urgency: %v", err)
	}
	if w.Bar != nil {
		w.redrawBar(c.Mon)
	}
}

// FocusStack steps to the next (dir > 0) or previous (dir < 0) visible
// client in m.Clients' cyclic order relative to the current selection,
// wrapping at the ends.
func (w *World) FocusStack(m *Monitor, dir int) {
	visible := m.VisibleClients2()
	if len(visible) == 0 {
		return
	}
	if m.Sel == nil {
		w.Focus(visible[0])
		return
	}
	idx := -1
	for i, c := range visible {
		if c == m.Sel {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.Focus(visible[0])
		return
	}
	n := len(visible)
	next := ((idx+dir)%n + n) % n
	w.Focus(visible[next])
	w.Srv.Raise(visible[next].Win)
}

// VisibleClients2 is VisibleClients without the floating/fullscreen
// exclusion — focus-stack cycles through every visible client,
// including floating ones, unlike the tiling arrange functions.
func (m *Monitor) VisibleClients2() []*Client {
	out := make([]*Client, 0, len(m.Clients))
	for _, c := range m.Clients {
		if m.Visible(c) {
			out = append(out, c)
		}
	}
	return out
}

// FocusMonitor selects the monitor in direction dir and focuses its
// current selection.
func (w *World) FocusMonitor(dir int) {
	next := w.DirMonitor(w.Sel, dir)
	if next == w.Sel {
		return
	}
	w.unfocus(w.Sel.Sel, true)
	w.Sel = next
	w.Focus(nil)
}

// TagMonitor moves the selected client to the monitor in direction dir
// and re-arranges both monitors.
func (w *World) TagMonitor(dir int) {
	c := w.Sel.Sel
	if c == nil || len(w.Monitors) <= 1 {
		return
	}
	target := w.DirMonitor(w.Sel, dir)
	if target == c.Mon {
		return
	}
	w.sendToMonitor(c, target)
}

func (w *World) sendToMonitor(c *Client, target *Monitor) {
	src := c.Mon
	w.unfocus(c, true)
	src.Detach(c)
	src.DetachStack(c)
	c.Mon = target
	c.Tags = target.Cur()
	target.Attach(c)
	target.AttachStack(c)
	w.Focus(nil)
	w.Arrange(src)
	w.Arrange(target)
}

// MoveStack reorders c within its monitor's client list by swapping it
// with its cyclic neighbor in direction dir — client-list order is
// otherwise the caller's to define since it only affects tiling slot
// assignment.
func (w *World) MoveStack(dir int) {
	m := w.Sel
	c := m.Sel
	if c == nil {
		return
	}
	visible := m.VisibleClients()
	if len(visible) < 2 {
		return
	}
	idx := -1
	for i, v := range visible {
		if v == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	n := len(visible)
	other := visible[((idx+dir)%n+n)%n]

	ia, ib := -1, -1
	for i, v := range m.Clients {
		if v == c {
			ia = i
		}
		if v == other {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return
	}
	m.Clients[ia], m.Clients[ib] = m.Clients[ib], m.Clients[ia]
	w.Arrange(m)
}

// View selects a new tag-set on the active monitor's alternate slot (so
// Mod+Tab toggles between this view and the last one), a no-op if tags
// already matches the current view.
func (w *World) View(tags uint32) {
	m := w.Sel
	if tags == 0 {
		tags = m.Tagset[m.SelTags^1]
	}
	if tags == m.Cur() {
		return
	}
	m.SelTags ^= 1
	if tags != 0 {
		m.Tagset[m.SelTags] = tags & config.TagMask
	}
	w.Focus(nil)
	w.Arrange(m)
}

// ToggleView flips the given tag bits in/out of the active view.
func (w *World) ToggleView(tags uint32) {
	m := w.Sel
	newTagset := m.Tagset[m.SelTags] ^ (tags & config.TagMask)
	if newTagset == 0 {
		return
	}
	m.Tagset[m.SelTags] = newTagset
	w.Focus(nil)
	w.Arrange(m)
}

// Tag assigns the selected client to the given tag-set, a no-op for a
// zero mask.
func (w *World) Tag(tags uint32) {
	c := w.Sel.Sel
	if c == nil || tags == 0 {
		return
	}
	c.Tags = tags & config.TagMask
	w.Focus(nil)
	w.Arrange(w.Sel)
}

// ToggleTag flips tag bits on the selected client's tag membership.
func (w *World) ToggleTag(tags uint32) {
	c := w.Sel.Sel
	if c == nil {
		return
	}
	newTags := c.Tags ^ (tags & config.TagMask)
	if newTags == 0 {
		return
	}
	c.Tags = newTags
	w.Focus(nil)
	w.Arrange(w.Sel)
}

func (w *World) redrawBar(m *Monitor) {
	if w.Bar == nil || m.BarWin == 0 {
		return
	}
	// Bar content assembly lives in cmd/gowm (it owns the Drawer); World
	// only triggers the redraw hook the event loop registers.
	if w.onBarRedraw != nil {
		w.onBarRedraw(m)
	}
}
