package wm

import "testing"

func newTestMonitor() *Monitor {
	return &Monitor{
		MX: 0, MY: 0, MW: 1920, MH: 1080,
		WX: 0, WY: 20, WW: 1920, WH: 1060,
		Tagset: [2]uint32{1, 2},
	}
}

func TestMonitorVisible(t *testing.T) {
	m := newTestMonitor()
	a := &Client{Tags: 1}
	b := &Client{Tags: 2}
	if !m.Visible(a) {
		t.Error("client tagged 1 should be visible on tagset[0]=1")
	}
	if m.Visible(b) {
		t.Error("client tagged 2 should not be visible on tagset[0]=1")
	}
}

func TestMonitorAttachInsertsAtHead(t *testing.T) {
	m := newTestMonitor()
	a := &Client{Tags: 1}
	b := &Client{Tags: 1}
	m.Attach(a)
	m.Attach(b)
	if m.Clients[0] != b || m.Clients[1] != a {
		t.Errorf("Attach should insert at head; got order %v", m.Clients)
	}
	if b.Mon != m {
		t.Error("Attach should set Client.Mon")
	}
}

func TestMonitorDetach(t *testing.T) {
	m := newTestMonitor()
	a := &Client{Tags: 1}
	b := &Client{Tags: 1}
	m.Attach(a)
	m.Attach(b)
	m.Detach(a)
	if len(m.Clients) != 1 || m.Clients[0] != b {
		t.Errorf("Detach(a) left %v, want only b", m.Clients)
	}
}

func TestMonitorVisibleClientsExcludesFloatingAndFullscreen(t *testing.T) {
	m := newTestMonitor()
	tiled := &Client{Tags: 1}
	floating := &Client{Tags: 1, IsFloating: true}
	full := &Client{Tags: 1, IsFullscreen: true}
	hidden := &Client{Tags: 2}
	m.Attach(hidden)
	m.Attach(full)
	m.Attach(floating)
	m.Attach(tiled)

	vis := m.VisibleClients()
	if len(vis) != 1 || vis[0] != tiled {
		t.Errorf("VisibleClients() = %v, want only the plain tiled client", vis)
	}
}

func TestMonitorDetachStackRetargetsSelToNextVisible(t *testing.T) {
	m := newTestMonitor()
	a := &Client{Tags: 1}
	b := &Client{Tags: 1}
	m.AttachStack(a)
	m.AttachStack(b)
	m.Sel = b
	m.DetachStack(b)
	if m.Sel != a {
		t.Errorf("Sel = %v, want retargeted to a", m.Sel)
	}
}

func TestMonitorDetachStackClearsSelWhenStackEmpty(t *testing.T) {
	m := newTestMonitor()
	a := &Client{Tags: 1}
	m.AttachStack(a)
	m.Sel = a
	m.DetachStack(a)
	if m.Sel != nil {
		t.Errorf("Sel = %v, want nil after detaching the only stack entry", m.Sel)
	}
}

func TestMonitorCur(t *testing.T) {
	m := newTestMonitor()
	if m.Cur() != 1 {
		t.Errorf("Cur() = %d, want 1 (Tagset[SelTags=0])", m.Cur())
	}
	m.SelTags = 1
	if m.Cur() != 2 {
		t.Errorf("Cur() = %d, want 2 (Tagset[SelTags=1])", m.Cur())
	}
}
