package wm

import (
	"log"

	"github.com/BurntSushi/xgbutil/ewmh"
)

// SetFullscreen: entering fullscreen saves the client's floating
// geometry and border width, clears the border, and resizes it to cover
// the whole monitor screen rect (not just the work area, so it covers
// the bar too); leaving restores both.
func (w *World) SetFullscreen(c *Client, fullscreen bool) {
	if fullscreen == c.IsFullscreen {
		return
	}
	if fullscreen {
		if err := ewmh.WmStateSet(w.Srv.XU, c.Win, []string{"_NET_WM_STATE_FULLSCREEN"}); err != nil {
			log.Printf("wm: setting _NET_WM_STATE fullscreen: %v", err)
		}
		c.IsFullscreen = true
		c.WasFloating = c.IsFloating
		c.OldBorderW = c.BorderW
		c.IsFloating = true
		c.BorderW = 0
		if err := w.Srv.SetBorderWidth(c.Win, 0); err != nil {
			log.Printf("wm: clearing border for fullscreen: %v", err)
		}
		mon := c.Mon
		w.ResizeClient(c, mon.MX, mon.MY, mon.MW, mon.MH)
		w.Srv.RectShapeMask(c.Win, mon.MW, mon.MH)
		w.Srv.Raise(c.Win)
	} else {
		if err := ewmh.WmStateSet(w.Srv.XU, c.Win, nil); err != nil {
			log.Printf("wm: clearing _NET_WM_STATE fullscreen: %v", err)
		}
		c.IsFullscreen = false
		c.IsFloating = c.WasFloating
		c.BorderW = c.OldBorderW
		if err := w.Srv.SetBorderWidth(c.Win, c.BorderW); err != nil {
			log.Printf("wm: restoring border after fullscreen: %v", err)
		}
		w.Srv.ClearShapeMask(c.Win)
		w.ResizeClient(c, c.OldX, c.OldY, c.OldW, c.OldH)
		w.Arrange(c.Mon)
	}
}

// ToggleFullscreen flips c's fullscreen state, the handler for a
// _NET_WM_STATE ClientMessage requesting _NET_WM_STATE_FULLSCREEN be
// toggled.
func (w *World) ToggleFullscreen(c *Client) {
	w.SetFullscreen(c, !c.IsFullscreen)
}
