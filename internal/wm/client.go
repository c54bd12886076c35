package wm

import (
	"log"
	"strings"

	"gowm/internal/config"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Client is a single managed top-level window.
type Client struct {
	Win xproto.Window
	Mon *Monitor

	Name string

	X, Y, W, H             int
	OldX, OldY, OldW, OldH int
	BorderW, OldBorderW    int

	BaseW, BaseH     int
	IncW, IncH       int
	MaxW, MaxH       int
	MinW, MinH       int
	MinAX, MinAY int // min aspect ratio numerator/denominator
	MaxAX, MaxAY int // max aspect ratio numerator/denominator

	ObeySizeHints bool

	IsFixed, IsFloating, IsUrgent, NeverFocus, IsFullscreen bool
	WasFloating                                             bool // floating state saved across fullscreen

	Tags uint32
}

// clampToMonitor pulls a requested geometry fully inside m's screen
// rect without changing its size.
func clampToMonitor(m *Monitor, x, y, w, h int) (int, int) {
	if x+w > m.MX+m.MW {
		x = m.MX + m.MW - w
	}
	if y+h > m.MY+m.MH {
		y = m.MY + m.MH - h
	}
	if x < m.MX {
		x = m.MX
	}
	if y < m.MY {
		y = m.MY
	}
	return x, y
}

// Manage allocates a Client for win, reads its hints, applies rules,
// attaches it, and focuses it.
func (w *World) Manage(win xproto.Window, geo *xproto.GetGeometryReply) (*Client, error) {
	for _, m := range w.Monitors {
		for _, c := range m.Clients {
			if c.Win == win {
				return c, nil // already managed; races with MapRequest are harmless
			}
		}
	}

	c := &Client{
		Win:     win,
		X:       int(geo.X),
		Y:       int(geo.Y),
		W:       int(geo.Width),
		H:       int(geo.Height),
		BorderW: w.Cfg.Appearance.BorderWidth,
	}
	c.OldX, c.OldY, c.OldW, c.OldH = c.X, c.Y, c.W, c.H
	c.OldBorderW = int(geo.BorderWidth)

	mon := w.Sel
	c.Tags = mon.Cur()

	c.RefreshTitle(w)
	c.updateSizeHints(w)
	c.updateWMHints(w)
	w.applyTransientFor(c, mon)
	w.applyWindowType(c)
	w.applyRules(c, &mon)

	c.Mon = mon
	x, y := clampToMonitor(mon, c.X, c.Y, c.W, c.H)
	c.X, c.Y = x, y
	if c.X+c.W > mon.MX+mon.MW {
		c.X = mon.MX + mon.MW - c.W
	}
	if c.Y+c.H > mon.MY+mon.MH {
		c.Y = mon.MY + mon.MH - c.H
	}

	if err := w.Srv.SetBorderWidth(win, c.BorderW); err != nil {
		log.Printf("wm: setting border width: %v", err)
	}
	if err := w.Srv.SetBorderColor(win, w.borderPixel(false)); err != nil {
		log.Printf("wm: setting border color: %v", err)
	}
	w.Srv.MoveResizeWindow(win, c.X, c.Y, c.W, c.H)

	if err := w.Srv.SelectClientInput(win); err != nil {
		log.Printf("wm: selecting client input: %v", err)
	}
	w.grabButtonsFor(c, false)

	if c.IsFloating {
		w.Srv.Raise(win)
	}

	mon.Attach(c)
	mon.AttachStack(c)
	w.updateClientList()

	c.setState(w, icccm.StateNormal)
	if err := w.Srv.Map(win); err != nil {
		log.Printf("wm: mapping client: %v", err)
	}

	w.Arrange(mon)
	w.Focus(c)
	return c, nil
}

// Unmanage removes c from its monitor. destroyed indicates the window
// is already gone (DestroyNotify) vs. still alive but unmapped (real
// UnmapNotify), which determines whether it's safe to still issue
// requests against it.
func (w *World) Unmanage(c *Client, destroyed bool) {
	mon := c.Mon
	mon.Detach(c)
	mon.DetachStack(c)

	if !destroyed {
		w.withServerGrab(func() {
			w.Srv.SetBorderWidth(c.Win, c.OldBorderW)
			w.Srv.UngrabButtons(c.Win)
			c.setState(w, icccm.StateWithdrawn)
		})
	}

	if w.PrevClient == c {
		w.PrevClient = nil
	}

	w.updateClientList()
	w.Focus(nil)
	w.Arrange(mon)
}

// RefreshTitle re-reads WM_NAME/_NET_WM_NAME, preferring the UTF8 EWMH
// name. Used both at manage time and on every WM_NAME/_NET_WM_NAME
// PropertyNotify.
func (c *Client) RefreshTitle(w *World) {
	if name, err := ewmh.WmNameGet(w.Srv.XU, c.Win); err == nil && name != "" {
		c.Name = name
		return
	}
	if name, err := icccm.WmNameGet(w.Srv.XU, c.Win); err == nil && name != "" {
		c.Name = name
		return
	}
	c.Name = "broken"
}

// updateSizeHints reads WM_NORMAL_HINTS (ICCCM 4.1.2.3) into the Client's
// hint fields, defaulting every absent field the way ICCCM specifies.
func (c *Client) updateSizeHints(w *World) {
	hints, err := icccm.WmNormalHintsGet(w.Srv.XU, c.Win)
	if err != nil {
		c.BaseW, c.BaseH, c.IncW, c.IncH = 0, 0, 0, 0
		c.MaxW, c.MaxH, c.MinW, c.MinH = 0, 0, 0, 0
		c.MinAX, c.MinAY, c.MaxAX, c.MaxAY = 0, 0, 0, 0
		return
	}
	if hints.Flags&icccm.SizeHintPBaseSize != 0 {
		c.BaseW, c.BaseH = int(hints.BaseWidth), int(hints.BaseHeight)
	} else if hints.Flags&icccm.SizeHintPMinSize != 0 {
		c.BaseW, c.BaseH = int(hints.MinWidth), int(hints.MinHeight)
	}
	if hints.Flags&icccm.SizeHintPResizeInc != 0 {
		c.IncW, c.IncH = int(hints.WidthInc), int(hints.HeightInc)
	}
	if hints.Flags&icccm.SizeHintPMaxSize != 0 {
		c.MaxW, c.MaxH = int(hints.MaxWidth), int(hints.MaxHeight)
	}
	if hints.Flags&icccm.SizeHintPMinSize != 0 {
		c.MinW, c.MinH = int(hints.MinWidth), int(hints.MinHeight)
	} else if hints.Flags&icccm.SizeHintPBaseSize != 0 {
		c.MinW, c.MinH = int(hints.BaseWidth), int(hints.BaseHeight)
	}
	if hints.Flags&icccm.SizeHintPAspect != 0 {
		c.MinAX, c.MinAY = int(hints.MinAspectNum), int(hints.MinAspectDen)
		c.MaxAX, c.MaxAY = int(hints.MaxAspectNum), int(hints.MaxAspectDen)
	} else {
		c.MinAX, c.MinAY, c.MaxAX, c.MaxAY = 0, 0, 0, 0
	}
	c.IsFixed = c.MaxW > 0 && c.MaxH > 0 && c.MaxW == c.MinW && c.MaxH == c.MinH
}

// updateWMHints reads WM_HINTS: urgency and Input (never_focus).
func (c *Client) updateWMHints(w *World) {
	hints, err := icccm.WmHintsGet(w.Srv.XU, c.Win)
	if err != nil {
		return
	}
	if c == w.Sel.Sel && hints.Flags&icccm.HintUrgency != 0 {
		// Never mark the currently-selected client urgent: it's
		// already visible and focused, so the flag would be inert
		// noise. Matches dwm's updatewmhints().
		hints.Flags &^= icccm.HintUrgency
		icccm.WmHintsSet(w.Srv.XU, c.Win, hints)
	} else {
		c.IsUrgent = hints.Flags&icccm.HintUrgency != 0
	}
	if hints.Flags&icccm.HintInput != 0 {
		c.NeverFocus = hints.Input == 0
	} else {
		c.NeverFocus = false
	}
}

// applyTransientFor sets the client floating if WM_TRANSIENT_FOR names
// another managed window.
func (w *World) applyTransientFor(c *Client, mon *Monitor) {
	transFor, err := icccm.WmTransientForGet(w.Srv.XU, c.Win)
	if err != nil || transFor == 0 {
		return
	}
	if parent := w.FindClient(transFor); parent != nil {
		c.IsFloating = true
		c.Tags = parent.Tags
	}
}

// applyWindowType refreshes type-based flags from _NET_WM_WINDOW_TYPE:
// dialog -> floating; fullscreen -> fullscreen state.
func (w *World) applyWindowType(c *Client) {
	types, err := ewmh.WmWindowTypeGet(w.Srv.XU, c.Win)
	if err != nil {
		return
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DIALOG":
			c.IsFloating = true
		case "_NET_WM_WINDOW_TYPE_FULLSCREEN":
			w.SetFullscreen(c, true)
		}
	}
}

// applyRules matches c's class/instance/title against the configured
// rule table and, on a hit, sets its tags, floating, target monitor,
// and honor-size-hints flag.
func (w *World) applyRules(c *Client, mon **Monitor) {
	c.ObeySizeHints = true
	class, instance := "broken", "broken"
	if wc, err := icccm.WmClassGet(w.Srv.XU, c.Win); err == nil {
		if wc.Class != "" {
			class = wc.Class
		}
		if wc.Instance != "" {
			instance = wc.Instance
		}
	}
	r := config.Match(w.Cfg.Rules, class, instance, c.Name)
	if r == nil {
		return
	}
	c.IsFloating = r.Floating
	c.ObeySizeHints = r.ObeySizeHints
	if r.Tags != 0 {
		c.Tags = r.Tags & config.TagMask
	}
	if r.Monitor >= 0 {
		for _, m := range w.Monitors {
			if m.Num == r.Monitor {
				*mon = m
				if r.Tags == 0 {
					c.Tags = m.Cur()
				}
				break
			}
		}
	}
	if strings.TrimSpace(class) == "" && strings.TrimSpace(instance) == "" {
		log.Printf("wm: managed window with no WM_CLASS (win=%d)", c.Win)
	}
}

// FindClient locates the managed Client for an X window id, or nil.
func (w *World) FindClient(win xproto.Window) *Client {
	for _, m := range w.Monitors {
		for _, c := range m.Clients {
			if c.Win == win {
				return c
			}
		}
	}
	return nil
}

// ApplySizeHints enforces ICCCM 4.1.2.3. It mutates the passed-in
// geometry in place and reports whether anything actually changed, so
// callers can skip a redundant X round trip.
func (c *Client) ApplySizeHints(x, y, w, h *int, interactive bool) bool {
	mon := c.Mon
	if interactive {
		if *x > mon.MX+mon.MW {
			*x = mon.MX + mon.MW - *w
		}
		if *y > mon.MY+mon.MH {
			*y = mon.MY + mon.MH - *h
		}
		if *x+*w+2*c.BorderW < mon.MX {
			*x = mon.MX
		}
		if *y+*h+2*c.BorderW < mon.MY {
			*y = mon.MY
		}
	} else {
		if *x > mon.WX+mon.WW {
			*x = mon.WX + mon.WW - *w
		}
		if *y > mon.WY+mon.WH {
			*y = mon.WY + mon.WH - *h
		}
		if *x+*w+2*c.BorderW < mon.WX {
			*x = mon.WX
		}
		if *y+*h+2*c.BorderW < mon.WY {
			*y = mon.WY
		}
	}
	if *w < 1 {
		*w = 1
	}
	if *h < 1 {
		*h = 1
	}

	honorHints := c.ObeySizeHints || c.IsFloating || c.Mon.LayoutSym == "><>"
	if honorHints {
		bw, bh := *w-c.BaseW, *h-c.BaseH
		if bw < 0 {
			bw = 0
		}
		if bh < 0 {
			bh = 0
		}
		if c.MaxAX > 0 && c.MaxAY > 0 && c.MinAX > 0 && c.MinAY > 0 {
			if float64(bw)*float64(c.MaxAY) > float64(bh)*float64(c.MaxAX) {
				bw = int(float64(bh) * float64(c.MaxAX) / float64(c.MaxAY))
			} else if float64(bw)*float64(c.MinAY) < float64(bh)*float64(c.MinAX) {
				bh = int(float64(bw) * float64(c.MinAY) / float64(c.MinAX))
			}
		}
		if c.IncW > 0 {
			bw -= bw % c.IncW
		}
		if c.IncH > 0 {
			bh -= bh % c.IncH
		}
		*w = bw + c.BaseW
		*h = bh + c.BaseH
		if c.MaxW > 0 && *w > c.MaxW {
			*w = c.MaxW
		}
		if c.MaxH > 0 && *h > c.MaxH {
			*h = c.MaxH
		}
		if c.MinW > 0 && *w < c.MinW {
			*w = c.MinW
		}
		if c.MinH > 0 && *h < c.MinH {
			*h = c.MinH
		}
	}
	if *w < 1 {
		*w = 1
	}
	if *h < 1 {
		*h = 1
	}
	return *x != c.X || *y != c.Y || *w != c.W || *h != c.H
}

// Resize applies a geometry to c, honoring size hints unless the caller
// explicitly wants a forced (unconstrained) resize, e.g. the fullscreen
// transition in fullscreen.go.
func (w *World) Resize(c *Client, x, y, width, height int, interactive bool) {
	if c.ApplySizeHints(&x, &y, &width, &height, interactive) {
		w.ResizeClient(c, x, y, width, height)
	}
}

// ResizeClient unconditionally applies geometry without re-checking size
// hints, used by Arrange (which has already passed the layout's rect
// through ApplySizeHints) and by fullscreen transitions.
func (w *World) ResizeClient(c *Client, x, y, width, height int) {
	c.OldX, c.OldY, c.OldW, c.OldH = c.X, c.Y, c.W, c.H
	c.X, c.Y, c.W, c.H = x, y, width, height
	w.Srv.MoveResizeWindow(c.Win, x, y, width, height)
	w.Srv.SendConfigureNotify(c.Win, x, y, width, height, c.BorderW)
}

func (w *World) borderPixel(selected bool) uint32 {
	if selected {
		return w.Cfg.Appearance.BorderColorSel
	}
	return w.Cfg.Appearance.BorderColorNorm
}

// setState writes the ICCCM WM_STATE hint (Normal/Iconic/Withdrawn).
func (c *Client) setState(w *World, state int) {
	if err := icccm.WmStateSet(w.Srv.XU, c.Win, &icccm.WmState{State: uint(state)}); err != nil {
		log.Printf("wm: setting WM_STATE: %v", err)
	}
}

// updateClientList rebuilds _NET_CLIENT_LIST from scratch across every
// monitor, exactly as dwm's updateclientlist() does — simpler and cheap
// enough at WM scale than incremental maintenance.
func (w *World) updateClientList() {
	var wins []xproto.Window
	for _, m := range w.Monitors {
		for _, c := range m.Clients {
			wins = append(wins, c.Win)
		}
	}
	if err := ewmh.ClientListSet(w.Srv.XU, wins); err != nil {
		log.Printf("wm: updating _NET_CLIENT_LIST: %v", err)
	}
}

// grabButtonsFor installs the button grabs appropriate to a client's
// focus state: an any-button/any-modifier grab while unfocused (so the
// first click both focuses and reaches the client), replaced with just
// the configured button bindings once it's focused.
func (w *World) grabButtonsFor(c *Client, focused bool) {
	w.Srv.UngrabButtons(c.Win)
	if !focused {
		w.Srv.GrabButton(c.Win, xproto.ButtonIndexAny, xproto.ModMaskAny, false)
		return
	}
	for _, b := range w.Cfg.Buttons {
		w.Srv.GrabButton(c.Win, b.Button, b.Mod, true)
	}
}

// withServerGrab brackets fn with a server grab and restore: the grab
// prevents races between property updates and the imminent destruction
// of a client mid-sequence. Errors from fn's own X calls are tolerated
// (the whole point of the grab is surviving a client vanishing
// mid-sequence); see errors.go for the accompanying error-handler
// whitelist.
func (w *World) withServerGrab(fn func()) {
	if err := w.Srv.GrabServer(); err != nil {
		log.Printf("wm: grab server: %v", err)
	}
	defer func() {
		if err := w.Srv.UngrabServer(); err != nil {
			log.Printf("wm: ungrab server: %v", err)
		}
	}()
	fn()
}
