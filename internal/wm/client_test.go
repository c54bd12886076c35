package wm

import "testing"

func TestClampToMonitorPullsInsideWithoutResizing(t *testing.T) {
	m := &Monitor{MX: 0, MY: 0, MW: 1920, MH: 1080}
	x, y := clampToMonitor(m, 1900, 1070, 200, 200)
	if x != 1720 || y != 880 {
		t.Errorf("clampToMonitor = (%d, %d), want (1720, 880)", x, y)
	}
}

func TestClampToMonitorLeavesInBoundsGeometryUntouched(t *testing.T) {
	m := &Monitor{MX: 0, MY: 0, MW: 1920, MH: 1080}
	x, y := clampToMonitor(m, 100, 100, 400, 300)
	if x != 100 || y != 100 {
		t.Errorf("clampToMonitor = (%d, %d), want (100, 100)", x, y)
	}
}

func newTestClient() *Client {
	mon := &Monitor{
		MX: 0, MY: 0, MW: 1920, MH: 1080,
		WX: 0, WY: 20, WW: 1920, WH: 1060,
	}
	return &Client{Mon: mon, X: 100, Y: 100, W: 300, H: 200, BorderW: 1, ObeySizeHints: true}
}

func TestApplySizeHintsFloorsMinimumSize(t *testing.T) {
	c := newTestClient()
	x, y, w, h := c.X, c.Y, 0, 0
	changed := c.ApplySizeHints(&x, &y, &w, &h, false)
	if w < 1 || h < 1 {
		t.Errorf("ApplySizeHints must floor width/height at 1, got w=%d h=%d", w, h)
	}
	if !changed {
		t.Error("expected ApplySizeHints to report a change")
	}
}

func TestApplySizeHintsReportsNoChange(t *testing.T) {
	c := newTestClient()
	x, y, w, h := c.X, c.Y, c.W, c.H
	if changed := c.ApplySizeHints(&x, &y, &w, &h, false); changed {
		t.Errorf("expected no change when geometry is already identical, got x=%d y=%d w=%d h=%d", x, y, w, h)
	}
}

func TestApplySizeHintsSnapsToIncrement(t *testing.T) {
	c := newTestClient()
	c.BaseW, c.BaseH = 0, 0
	c.IncW, c.IncH = 10, 10
	x, y, w, h := c.X, c.Y, 207, 199
	c.ApplySizeHints(&x, &y, &w, &h, false)
	if w%10 != 0 {
		t.Errorf("width %d not snapped to increment 10", w)
	}
	if h%10 != 0 {
		t.Errorf("height %d not snapped to increment 10", h)
	}
}

func TestApplySizeHintsClampsToMinMax(t *testing.T) {
	c := newTestClient()
	c.MinW, c.MinH = 50, 50
	c.MaxW, c.MaxH = 400, 400
	x, y, w, h := c.X, c.Y, 10, 10
	c.ApplySizeHints(&x, &y, &w, &h, false)
	if w < c.MinW || h < c.MinH {
		t.Errorf("ApplySizeHints didn't clamp to minimum: w=%d h=%d, min=%d", w, h, c.MinW)
	}

	w, h = 1000, 1000
	c.ApplySizeHints(&x, &y, &w, &h, false)
	if w > c.MaxW || h > c.MaxH {
		t.Errorf("ApplySizeHints didn't clamp to maximum: w=%d h=%d, max=%d", w, h, c.MaxW)
	}
}

func TestApplySizeHintsIgnoredWhenNotObeyed(t *testing.T) {
	c := newTestClient()
	c.ObeySizeHints = false
	c.IsFloating = false
	c.IncW, c.IncH = 17, 17
	x, y, w, h := c.X, c.Y, 123, 456
	c.ApplySizeHints(&x, &y, &w, &h, false)
	if w != 123 || h != 456 {
		t.Errorf("non-floating client with ObeySizeHints=false should keep requested size, got w=%d h=%d", w, h)
	}
}

func TestApplySizeHintsAppliedUnderFloatingLayoutEvenWhenFixed(t *testing.T) {
	c := newTestClient()
	c.ObeySizeHints = false
	c.IsFloating = false
	c.IsFixed = true
	c.Mon.LayoutSym = "><>"
	c.IncW, c.IncH = 10, 10
	x, y, w, h := c.X, c.Y, 207, 199
	c.ApplySizeHints(&x, &y, &w, &h, false)
	if w%10 != 0 || h%10 != 0 {
		t.Errorf("a fixed, tiled client under a floating-layout monitor should still have hints applied, got w=%d h=%d", w, h)
	}
}

func TestApplySizeHintsInteractiveUsesScreenNotWorkArea(t *testing.T) {
	// mon.WY=20 (bar height) but mon.MY=0: a client nearly entirely above
	// the work area (but still on-screen) should be pulled down to WY in
	// non-interactive mode, but left alone in interactive mode, which
	// clamps against the full screen rect instead.
	c := newTestClient()
	x, y, w, h := 0, -1, 300, 10
	c.ApplySizeHints(&x, &y, &w, &h, false)
	if y != c.Mon.WY {
		t.Errorf("non-interactive clamp should pull y down to work-area top %d, got %d", c.Mon.WY, y)
	}

	x, y, w, h = 0, -1, 300, 10
	c.ApplySizeHints(&x, &y, &w, &h, true)
	if y != -1 {
		t.Errorf("interactive clamp should leave y=-1 unchanged (still within full screen rect), got %d", y)
	}
}
