// Package xserver wraps the X connection and the handful of extensions
// (Xinerama, Xfixes, Shape) it uses. Everything here is thin plumbing:
// issuing requests and translating replies, never window-management
// policy.
package xserver

import (
	"fmt"
	"log"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Server owns the single X connection the whole dispatcher runs on.
type Server struct {
	XU     *xgbutil.XUtil
	Root   xproto.Window
	Screen *xproto.ScreenInfo

	HasXinerama bool
	HasXfixes   bool
	HasShape    bool

	numlockMask uint16
}

// Connect opens the X display connection. It does not yet attempt to
// become the window manager; see Server.BecomeWM.
func Connect() (*Server, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("xserver: connecting to X: %w", err)
	}
	s := &Server{
		XU:     xu,
		Root:   xu.RootWin(),
		Screen: xu.Screen(),
	}
	s.initExtensions()
	s.updateNumlockMask()
	registerSyntheticUnmapNotify()
	return s, nil
}

// Conn returns the raw xgb connection for packages that read events or
// issue extension requests directly.
func (s *Server) Conn() *xgb.Conn { return s.XU.Conn() }

// initExtensions probes for Xinerama/Xfixes/Shape. Extension
// unavailability is non-fatal: gowm degrades (no pointer barriers, no
// shaped masks, single-monitor geometry) rather than aborting.
func (s *Server) initExtensions() {
	if err := xinerama.Init(s.Conn()); err != nil {
		log.Printf("xserver: Xinerama unavailable, falling back to single monitor: %v", err)
	} else {
		s.HasXinerama = true
	}

	if err := xfixes.Init(s.Conn()); err != nil {
		log.Printf("xserver: Xfixes unavailable, pointer barriers disabled: %v", err)
	} else if _, err := xfixes.QueryVersion(s.Conn(), 5, 0).Reply(); err != nil {
		log.Printf("xserver: Xfixes QueryVersion failed, pointer barriers disabled: %v", err)
	} else {
		s.HasXfixes = true
	}

	if err := shape.Init(s.Conn()); err != nil {
		log.Printf("xserver: Shape unavailable, corner masks disabled: %v", err)
	} else {
		s.HasShape = true
	}
}

// BecomeWM attempts to select for substructure redirection on the root
// window. A failure here (another window manager already holds the
// selection) is fatal at startup with a distinct message.
func (s *Server) BecomeWM() error {
	mask := []uint32{
		xproto.EventMaskSubstructureRedirect |
			xproto.EventMaskSubstructureNotify |
			xproto.EventMaskStructureNotify |
			xproto.EventMaskButtonPress |
			xproto.EventMaskPointerMotion |
			xproto.EventMaskEnterWindow |
			xproto.EventMaskPropertyChange,
	}
	err := xproto.ChangeWindowAttributesChecked(s.Conn(), s.Root, xproto.CwEventMask, mask).Check()
	if err != nil {
		return fmt.Errorf("another window manager is already running: %w", err)
	}
	return nil
}

// MoveResizeWindow issues a ConfigureWindow for position and size.
func (s *Server) MoveResizeWindow(win xproto.Window, x, y, w, h int) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(x)), uint32(int32(y)), uint32(w), uint32(h)}
	return xproto.ConfigureWindowChecked(s.Conn(), win, mask, values).Check()
}

// SetBorderWidth issues a ConfigureWindow for border width only.
func (s *Server) SetBorderWidth(win xproto.Window, bw int) error {
	mask := uint16(xproto.ConfigWindowBorderWidth)
	return xproto.ConfigureWindowChecked(s.Conn(), win, mask, []uint32{uint32(bw)}).Check()
}

// SetBorderColor sets the window's border pixel value.
func (s *Server) SetBorderColor(win xproto.Window, pixel uint32) error {
	return xproto.ChangeWindowAttributesChecked(s.Conn(), win,
		xproto.CwBorderPixel, []uint32{pixel}).Check()
}

// Raise stacks win at the top.
func (s *Server) Raise(win xproto.Window) error {
	mask := uint16(xproto.ConfigWindowStackMode)
	return xproto.ConfigureWindowChecked(s.Conn(), win, mask,
		[]uint32{xproto.StackModeAbove}).Check()
}

// RestackAbove stacks win directly above sibling.
func (s *Server) RestackAbove(win, sibling xproto.Window) error {
	mask := uint16(xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode)
	return xproto.ConfigureWindowChecked(s.Conn(), win, mask,
		[]uint32{uint32(sibling), xproto.StackModeAbove}).Check()
}

// Map and Unmap show/hide a window without destroying its state.
func (s *Server) Map(win xproto.Window) error   { return xproto.MapWindowChecked(s.Conn(), win).Check() }
func (s *Server) Unmap(win xproto.Window) error { return xproto.UnmapWindowChecked(s.Conn(), win).Check() }

// SelectClientInput selects the events manage() requires gowm receive
// for a managed client.
func (s *Server) SelectClientInput(win xproto.Window) error {
	mask := []uint32{
		xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange |
			xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify,
	}
	return xproto.ChangeWindowAttributesChecked(s.Conn(), win, xproto.CwEventMask, mask).Check()
}

// SetInputFocus directs the X input focus to win.
func (s *Server) SetInputFocus(win xproto.Window, time xproto.Timestamp) error {
	return xproto.SetInputFocusChecked(s.Conn(), xproto.InputFocusPointerRoot, win, time).Check()
}

// QueryPointer returns the pointer's root-relative position and the
// window it's currently over.
func (s *Server) QueryPointer() (x, y int, win xproto.Window, err error) {
	reply, err := xproto.QueryPointer(s.Conn(), s.Root).Reply()
	if err != nil {
		return 0, 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), reply.Child, nil
}

// WindowAttributes fetches a window's attributes, used to test
// OverrideRedirect on MapRequest.
func (s *Server) WindowAttributes(win xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	return xproto.GetWindowAttributes(s.Conn(), win).Reply()
}

// Geometry fetches a window's current geometry.
func (s *Server) Geometry(win xproto.Window) (*xproto.GetGeometryReply, error) {
	return xproto.GetGeometry(s.Conn(), xproto.Drawable(win)).Reply()
}

// SendConfigureNotify synthesizes a ConfigureNotify, used both to pin
// tiled clients on a ConfigureRequest and to tell a managed client its
// new geometry after ResizeClient.
func (s *Server) SendConfigureNotify(win xproto.Window, x, y int, w, h, bw int) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     0,
		X:                int16(x),
		Y:                int16(y),
		Width:            uint16(w),
		Height:           uint16(h),
		BorderWidth:      uint16(bw),
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(s.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

// KillClient forcibly terminates an uncooperative client connection,
// guarded by the caller taking a server grab.
func (s *Server) KillClient(win xproto.Window) error {
	return xproto.KillClientChecked(s.Conn(), uint32(win)).Check()
}

// GrabServer/UngrabServer bracket the risky sequences (unmanage,
// killClient) that need a server grab.
func (s *Server) GrabServer() error   { return xproto.GrabServerChecked(s.Conn()).Check() }
func (s *Server) UngrabServer() error { return xproto.UngrabServerChecked(s.Conn()).Check() }

// XineramaScreens returns the Xinerama output geometries, or a single
// synthetic screen spanning the root window when Xinerama isn't present.
func (s *Server) XineramaScreens() ([]xinerama.ScreenInfo, error) {
	if !s.HasXinerama {
		return []xinerama.ScreenInfo{{
			XOrg:   0,
			YOrg:   0,
			Width:  s.Screen.WidthInPixels,
			Height: s.Screen.HeightInPixels,
		}}, nil
	}
	reply, err := xinerama.QueryScreens(s.Conn()).Reply()
	if err != nil {
		return nil, err
	}
	return reply.ScreenInfo, nil
}
