package wm

import (
	"log"

	"gowm/internal/geom"
	"gowm/internal/xserver"
)

// Monitor holds one output's geometry, bar placement, the two tag-set
// slots, and the two orderings (client list, focus stack) over the same
// set of clients.
type Monitor struct {
	Num int

	MX, MY, MW, MH int // screen rect
	WX, WY, WW, WH int // work area (screen minus bar)

	ShowBar, TopBar bool
	BarWin          uint32 // 0 when no bar window exists
	BX, BY, BW, BH  int

	MFact   float64
	NMaster int
	GapPx   int

	Tagset  [2]uint32
	SelTags int // 0 or 1, indexes Tagset

	LayoutIdx int    // index into World.Cfg.Layouts / World.Arranges
	LayoutSym string // Cfg.Layouts[LayoutIdx].Symbol, kept in sync wherever LayoutIdx changes

	LMX, LMY int // last mouse position, for warp-to-monitor

	Clients []*Client // attachment order (creation order, user-reorderable by move-stack)
	Stack   []*Client // focus LRU, most-recently-selected first
	Sel     *Client

	Barriers []xserver.PointerBarrier
}

// Cur returns the monitor's active tag-set bitmask.
func (m *Monitor) Cur() uint32 { return m.Tagset[m.SelTags] }

// Visible reports whether c is displayed under m's current tag-set:
// its tags bitmask shares a bit with the active tag-set slot.
func (m *Monitor) Visible(c *Client) bool {
	return c.Tags&m.Cur() != 0
}

// VisibleClients returns m.Clients filtered to those currently visible,
// in attachment order — the order tile/monocle consume.
func (m *Monitor) VisibleClients() []*Client {
	out := make([]*Client, 0, len(m.Clients))
	for _, c := range m.Clients {
		if !c.IsFloating && !c.IsFullscreen && m.Visible(c) {
			out = append(out, c)
		}
	}
	return out
}

// Attach inserts c at the head of m.Clients.
func (m *Monitor) Attach(c *Client) {
	m.Clients = append([]*Client{c}, m.Clients...)
	c.Mon = m
}

// Detach removes c from m.Clients.
func (m *Monitor) Detach(c *Client) {
	m.Clients = removeClient(m.Clients, c)
}

// AttachStack inserts c at the head of the focus stack.
func (m *Monitor) AttachStack(c *Client) {
	m.Stack = append([]*Client{c}, m.Stack...)
}

// DetachStack removes c from the focus stack. If c was the monitor's
// selection, Sel is retargeted to the next visible client in stack order,
// or nil — maintaining the invariant that Sel is always visible or nil.
func (m *Monitor) DetachStack(c *Client) {
	m.Stack = removeClient(m.Stack, c)
	if m.Sel != c {
		return
	}
	for _, s := range m.Stack {
		if m.Visible(s) {
			m.Sel = s
			return
		}
	}
	m.Sel = nil
}

func removeClient(list []*Client, c *Client) []*Client {
	out := list[:0:0]
	for _, x := range list {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

// recomputeBar positions the bar rect and shrinks the work area
// accordingly.
func (m *Monitor) recomputeBar(barHeight int) {
	m.WX, m.WY, m.WW, m.WH = m.MX, m.MY, m.MW, m.MH
	if !m.ShowBar {
		m.BH = 0
		return
	}
	m.BH = barHeight
	m.BX, m.BW = m.MX, m.MW
	if m.TopBar {
		m.BY = m.MY
		m.WY += barHeight
	} else {
		m.BY = m.MY + m.MH - barHeight
	}
	m.WH -= barHeight
}

// UpdateGeom reconciles the monitor list against the X server's
// current Xinerama output list. It returns true if anything changed
// (new/removed/moved monitor); in that case it has already re-pointed Sel
// to the monitor under the pointer, and callers use the result to decide
// whether to re-arrange.
func (w *World) UpdateGeom(barHeight int) (bool, error) {
	screens, err := w.Srv.XineramaScreens()
	if err != nil {
		return false, err
	}

	type uniq struct{ x, y, w, h int }
	seen := make(map[uniq]bool)
	var uniqScreens []uniq
	for _, s := range screens {
		u := uniq{int(s.XOrg), int(s.YOrg), int(s.Width), int(s.Height)}
		if u.w == 0 || u.h == 0 || seen[u] {
			continue
		}
		seen[u] = true
		uniqScreens = append(uniqScreens, u)
	}
	if len(uniqScreens) == 0 {
		uniqScreens = append(uniqScreens, uniq{0, 0, int(w.Srv.Screen.WidthInPixels), int(w.Srv.Screen.HeightInPixels)})
	}

	changed := false

	if len(uniqScreens) >= len(w.Monitors) {
		for i, u := range uniqScreens {
			isNew := i >= len(w.Monitors)
			if isNew {
				mon := w.newMonitor(i)
				w.Monitors = append(w.Monitors, mon)
				changed = true
			}
			mon := w.Monitors[i]
			if isNew || mon.MX != u.x || mon.MY != u.y || mon.MW != u.w || mon.MH != u.h {
				mon.MX, mon.MY, mon.MW, mon.MH = u.x, u.y, u.w, u.h
				mon.recomputeBar(barHeight)
				mon.LMX, mon.LMY = u.x+u.w/2, u.y+u.h/2
					w.recreateBarriers(mon)
				changed = true
			}
		}
	} else {
		// Fewer outputs than monitors: drain the excess monitors'
		// clients into the primary (index 0) monitor, preserving
		// stack order, then free them.
		primary := w.Monitors[0]
		for i := len(uniqScreens); i < len(w.Monitors); i++ {
			excess := w.Monitors[i]
			for len(excess.Stack) > 0 {
				c := excess.Stack[len(excess.Stack)-1]
				excess.Detach(c)
				excess.DetachStack(c)
				primary.Attach(c)
				primary.AttachStack(c)
				c.Tags = primary.Cur()
			}
			w.Srv.DestroyBarriers(excess.Barriers)
		}
		w.Monitors = w.Monitors[:len(uniqScreens)]
		for i, u := range uniqScreens {
			mon := w.Monitors[i]
			mon.MX, mon.MY, mon.MW, mon.MH = u.x, u.y, u.w, u.h
			mon.recomputeBar(barHeight)
			w.recreateBarriers(mon)
		}
		changed = true
	}

	if changed {
		w.repointSelToPointer()
		log.Printf("wm: geometry updated, %d monitor(s)", len(w.Monitors))
	}
	return changed, nil
}

// recreateBarriers replaces mon's pointer barriers to match its
// current work-area rect — stale barriers from a prior geometry must be
// torn down before the new ones go up.
func (w *World) recreateBarriers(mon *Monitor) {
	w.Srv.DestroyBarriers(mon.Barriers)
	mon.Barriers = w.Srv.CreateWorkAreaBarriers(mon.WX, mon.WY, mon.WW, mon.WH)
}

func (w *World) newMonitor(num int) *Monitor {
	m := &Monitor{
		Num:       num,
		ShowBar:   w.Cfg.Appearance.ShowBar,
		TopBar:    w.Cfg.Appearance.TopBar,
		MFact:     w.Cfg.Appearance.MFact,
		NMaster:   w.Cfg.Appearance.NMaster,
		GapPx:     w.Cfg.Appearance.GapPx,
		Tagset:    [2]uint32{w.Cfg.InitialTags, w.Cfg.InitialTags},
		LayoutIdx: 0,
	}
	if len(w.Cfg.Layouts) > 0 {
		m.LayoutSym = w.Cfg.Layouts[0].Symbol
	}
	return m
}

// repointSelToPointer re-points Sel to the monitor under the current
// pointer position.
func (w *World) repointSelToPointer() {
	x, y, _, err := w.Srv.QueryPointer()
	if err != nil {
		if len(w.Monitors) > 0 {
			w.Sel = w.Monitors[0]
		}
		return
	}
	w.Sel = w.MonitorAt(x, y)
}

// MonitorAt returns the monitor whose screen rect contains (x, y), or
// the last monitor in the list as a fallback (dwm's own recttomon
// behavior when the point lies outside every monitor).
func (w *World) MonitorAt(x, y int) *Monitor {
	for _, m := range w.Monitors {
		r := geom.Rect{X: m.MX, Y: m.MY, W: m.MW, H: m.MH}
		if r.Contains(x, y) {
			return m
		}
	}
	if len(w.Monitors) > 0 {
		return w.Monitors[len(w.Monitors)-1]
	}
	return nil
}

// DirMonitor returns the next (dir > 0) or previous (dir < 0) monitor
// in creation order, wrapping at the ends — plain cyclic order, not a
// grid-aware neighbor search.
func (w *World) DirMonitor(cur *Monitor, dir int) *Monitor {
	if len(w.Monitors) <= 1 {
		return cur
	}
	idx := -1
	for i, m := range w.Monitors {
		if m == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cur
	}
	n := len(w.Monitors)
	next := ((idx+dir)%n + n) % n
	return w.Monitors[next]
}
