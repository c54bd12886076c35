package wm

import "gowm/internal/geom"

// Arrange recomputes geometry for every tiled client on m: run m's
// current ArrangeFunc over its visible tiled clients, pass each resulting
// rect through the client's size hints, apply it and restack.
func (w *World) Arrange(m *Monitor) {
	if m == nil {
		return
	}
	tiled := m.VisibleClients()
	sym := w.layoutSymbol(m)
	if fn := w.Arranges[sym]; fn != nil {
		fn(m, tiled)
	}
	for _, c := range tiled {
		x, y, cw, ch := c.X, c.Y, c.W, c.H
		c.ApplySizeHints(&x, &y, &cw, &ch, false)
		w.ResizeClient(c, x, y, cw, ch)
	}
	w.restack(m)
}

// ArrangeAll re-arranges every monitor, used after operations (UpdateGeom,
// startup scan) that can touch more than one monitor's client set.
func (w *World) ArrangeAll() {
	for _, m := range w.Monitors {
		w.Arrange(m)
	}
}

func (w *World) layoutSymbol(m *Monitor) string {
	return m.LayoutSym
}

// restack raises the selected client if it's floating, then chains the
// other visible tiled clients beneath one another in client-list order,
// with a tiled selection stacked directly above the first of them.
func (w *World) restack(m *Monitor) {
	if w.Bar != nil {
		w.redrawBar(m)
	}
	if m.Sel == nil {
		return
	}
	if m.Sel.IsFloating {
		w.Srv.Raise(m.Sel.Win)
	}
	var others []*Client
	for _, c := range m.VisibleClients() {
		if c != m.Sel {
			others = append(others, c)
		}
	}
	for i := len(others) - 2; i >= 0; i-- {
		w.Srv.RestackAbove(others[i].Win, others[i+1].Win)
	}
	if !m.Sel.IsFloating && len(others) > 0 {
		w.Srv.RestackAbove(m.Sel.Win, others[0].Win)
	}
}

// dynamicMax bounds the fallback master count used when nmaster is
// configured as zero: min(max(n/2, 1), dynamicMax).
const dynamicMax = 4

// TileArrange is the master/stack layout: the first NMaster visible
// clients occupy a left column full-height, split evenly; the rest
// occupy a right column, also split evenly. A single client always gets
// the full work area.
func TileArrange(m *Monitor, tiled []*Client) {
	n := len(tiled)
	if n == 0 {
		return
	}
	nmaster := m.NMaster
	if nmaster == 0 {
		nmaster = n / 2
		if nmaster < 1 {
			nmaster = 1
		}
		if nmaster > dynamicMax {
			nmaster = dynamicMax
		}
	}
	if nmaster > n {
		nmaster = n
	}

	mw := m.WW
	if n > nmaster && nmaster > 0 {
		mw = int(float64(m.WW) * m.MFact)
	}
	if nmaster == 0 {
		mw = 0
	}

	gap := m.GapPx
	masterY, stackY := m.WY, m.WY
	masterRemain, stackRemain := m.WH, m.WH
	rest := n - nmaster
	for i, c := range tiled {
		if i < nmaster {
			h := geom.SplitRow(masterRemain, nmaster-i)
			placeTile(c, m.WX, masterY, mw, h, gap)
			masterY += h
			masterRemain -= h
		} else {
			idx := i - nmaster
			h := geom.SplitRow(stackRemain, rest-idx)
			placeTile(c, m.WX+mw, stackY, m.WW-mw, h, gap)
			stackY += h
			stackRemain -= h
		}
	}
}

func placeTile(c *Client, x, y, w, h, gap int) {
	r := geom.Rect{X: x, Y: y, W: w, H: h}.Shrink(gap)
	bw := 2 * c.BorderW
	c.X, c.Y, c.W, c.H = r.X, r.Y, r.W-bw, r.H-bw
	if c.W < 1 {
		c.W = 1
	}
	if c.H < 1 {
		c.H = 1
	}
}

// MonocleArrange is the monocle layout: every visible tiled client
// occupies the full work area, stacked; only the topmost (the
// selection) is actually seen.
func MonocleArrange(m *Monitor, tiled []*Client) {
	for _, c := range tiled {
		placeTile(c, m.WX, m.WY, m.WW, m.WH, m.GapPx)
	}
}

// FloatingArrange is the null layout (the "><>" floating layout
// symbol): tiled clients keep whatever geometry they already have. It
// exists so selecting "><>" as the active layout stops the tiling
// engine from repositioning anything, without needing a special case in
// Arrange.
func FloatingArrange(m *Monitor, tiled []*Client) {}
