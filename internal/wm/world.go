// Package wm is the window-management state machine: a layered model of
// monitors, tag-sets, client lists and focus stacks, and the rules by
// which X events and user actions mutate them.
package wm

import (
	"log"
	"sync/atomic"

	"gowm/internal/bar"
	"gowm/internal/config"
	"gowm/internal/xatom"
	"gowm/internal/xserver"

	"github.com/BurntSushi/xgb/xproto"
)

// ArrangeFunc maps a monitor's visible tiled clients to geometries. It is
// a pure function: it must not issue X requests itself, only fill in
// Client.X/Y/W/H, which the caller (arrange, in layout.go) then applies.
type ArrangeFunc func(m *Monitor, tiled []*Client)

// World is the explicit context in place of dwm-style global mutable
// singletons (mons, selmon, prevClient, atom table, cursors): one
// struct, owned uniquely by the event loop, and passed to every handler.
// No handler may retain a reference across a yield point, so no
// synchronization is needed.
type World struct {
	Srv     *xserver.Server
	Atoms   *xatom.Registry
	Cfg     *config.Config
	Cursors *xserver.Cursors
	Bar     bar.Drawer // nil when the bar is disabled or unavailable

	Monitors []*Monitor
	Sel      *Monitor // the currently active monitor; never nil once UpdateGeom succeeds

	PrevClient *Client // process-wide state updated on every unfocus, for swap-focus

	Arranges map[string]ArrangeFunc // layout symbol -> pure arrange function

	Running bool

	// onBarRedraw is set by cmd/gowm, which owns bar content assembly
	// (tag occupancy/urgency, layout symbol, window title) — World only
	// knows it needs a redraw, not how to build one.
	onBarRedraw func(*Monitor)

	// pendingCfg holds a config reload handed off from config.Watch's
	// own goroutine until the dispatcher picks it up and applies it.
	pendingCfg atomic.Pointer[config.Config]
}

// OnBarRedraw registers the callback World.redrawBar invokes whenever bar
// content may have changed (focus, tag, title, layout).
func (w *World) OnBarRedraw(fn func(*Monitor)) {
	w.onBarRedraw = fn
}

// NewWorld wires the collaborators into an (not yet populated) World.
// Monitors are discovered by UpdateGeom and pre-existing clients by the
// caller's startup scan through Manage.
func NewWorld(srv *xserver.Server, atoms *xatom.Registry, cfg *config.Config, cursors *xserver.Cursors, drawer bar.Drawer) *World {
	w := &World{Srv: srv, Atoms: atoms, Cfg: cfg, Cursors: cursors, Bar: drawer}
	w.Arranges = map[string]ArrangeFunc{
		"[]=": TileArrange,
		"[M]": MonocleArrange,
		"><>": FloatingArrange,
	}
	return w
}

// PostConfigReload hands a freshly-reloaded config to the dispatcher. It's
// the only part of config hot-reload allowed to run outside the event
// loop's own goroutine: it stashes cfg and wakes Run() with a synthetic
// ClientMessage, so the actual swap-in (onClientMessage's
// GOWM_CONFIG_RELOAD case) still happens on the single goroutine that owns
// w.Monitors and the X connection.
func (w *World) PostConfigReload(cfg *config.Config) {
	w.pendingCfg.Store(cfg)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.Srv.Root,
		Type:   w.atom("GOWM_CONFIG_RELOAD"),
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	if err := xproto.SendEventChecked(w.Srv.Conn(), false, w.Srv.Root, mask, string(ev.Bytes())).Check(); err != nil {
		log.Printf("wm: waking dispatcher for config reload: %v", err)
	}
}

// atom is a small convenience wrapper so handler code reads
// w.atom("WM_STATE") instead of threading error handling through every
// call site for atoms that Init already guaranteed resolve.
func (w *World) atom(name string) xproto.Atom {
	return w.Atoms.MustAtom(name)
}
