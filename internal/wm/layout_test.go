package wm

import "testing"

func testMonitorForLayout() *Monitor {
	return &Monitor{
		WX: 0, WY: 0, WW: 1000, WH: 600,
		MFact: 0.5, NMaster: 1,
	}
}

func TestTileArrangeSingleClientGetsFullWorkArea(t *testing.T) {
	m := testMonitorForLayout()
	c := &Client{BorderW: 0}
	TileArrange(m, []*Client{c})
	if c.X != 0 || c.Y != 0 || c.W != 1000 || c.H != 600 {
		t.Errorf("single client geometry = (%d,%d,%d,%d), want (0,0,1000,600)", c.X, c.Y, c.W, c.H)
	}
}

func TestTileArrangeSplitsMasterAndStackColumns(t *testing.T) {
	m := testMonitorForLayout()
	master := &Client{BorderW: 0}
	s1 := &Client{BorderW: 0}
	s2 := &Client{BorderW: 0}
	TileArrange(m, []*Client{master, s1, s2})

	if master.X != 0 || master.W != 500 || master.H != 600 {
		t.Errorf("master geometry = (%d,%d,%d,%d), want x=0 w=500 h=600", master.X, master.Y, master.W, master.H)
	}
	if s1.X != 500 || s2.X != 500 {
		t.Errorf("stack clients should start at x=500 (mfact*ww), got s1.X=%d s2.X=%d", s1.X, s2.X)
	}
	if s1.H+s2.H != 600 {
		t.Errorf("stack heights %d + %d should sum to the full work-area height 600", s1.H, s2.H)
	}
}

func TestTileArrangeNoClientsIsNoop(t *testing.T) {
	m := testMonitorForLayout()
	TileArrange(m, nil) // must not panic
}

func TestTileArrangeZeroNMasterUsesDynamicFallback(t *testing.T) {
	m := testMonitorForLayout()
	m.NMaster = 0
	clients := []*Client{{}, {}, {}, {}}
	TileArrange(m, clients)
	// n=4 -> dynamic nmaster = max(4/2,1) = 2, capped at dynamicMax(4):
	// the first two clients should share the master column (x=0).
	if clients[0].X != 0 || clients[1].X != 0 {
		t.Errorf("first two clients should be in the dynamic master column, got X=%d, %d", clients[0].X, clients[1].X)
	}
	if clients[2].X == 0 || clients[3].X == 0 {
		t.Errorf("remaining clients should be in the stack column, got X=%d, %d", clients[2].X, clients[3].X)
	}
}

func TestMonocleArrangeGivesEveryClientFullWorkArea(t *testing.T) {
	m := testMonitorForLayout()
	a := &Client{BorderW: 0}
	b := &Client{BorderW: 0}
	MonocleArrange(m, []*Client{a, b})
	for _, c := range []*Client{a, b} {
		if c.X != 0 || c.Y != 0 || c.W != 1000 || c.H != 600 {
			t.Errorf("monocle client geometry = (%d,%d,%d,%d), want (0,0,1000,600)", c.X, c.Y, c.W, c.H)
		}
	}
}

func TestFloatingArrangeLeavesGeometryUntouched(t *testing.T) {
	m := testMonitorForLayout()
	c := &Client{X: 42, Y: 17, W: 300, H: 200}
	FloatingArrange(m, []*Client{c})
	if c.X != 42 || c.Y != 17 || c.W != 300 || c.H != 200 {
		t.Errorf("FloatingArrange must not touch geometry, got (%d,%d,%d,%d)", c.X, c.Y, c.W, c.H)
	}
}

func TestPlaceTileSubtractsBorderWidth(t *testing.T) {
	c := &Client{BorderW: 2}
	placeTile(c, 0, 0, 100, 100, 0)
	if c.W != 96 || c.H != 96 {
		t.Errorf("placeTile with BorderW=2 should subtract 2*2=4 from each dimension, got w=%d h=%d", c.W, c.H)
	}
}
