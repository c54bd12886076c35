package xserver

import (
	"log"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
)

// ClearShapeMask removes any bounding-shape mask previously applied to
// win, restoring a plain rectangular window. Used when a client leaves
// fullscreen, undoing the RectShapeMask applied on entering it.
func (s *Server) ClearShapeMask(win xproto.Window) {
	if !s.HasShape {
		return
	}
	if err := shape.MaskChecked(s.Conn(), shape.SoSet, shape.SkBounding, win, 0, 0, 0).Check(); err != nil {
		log.Printf("xserver: clearing shape mask: %v", err)
	}
}

// RectShapeMask applies a single rectangular bounding mask equal to the
// window's full size. This is the only Shape usage gowm performs: the
// optional "shaped borders" feature is out of scope, but the extension
// itself is exercised so a monitor that lacks it degrades gracefully
// rather than the dependency sitting unused.
func (s *Server) RectShapeMask(win xproto.Window, w, h int) {
	if !s.HasShape {
		return
	}
	rects := []xproto.Rectangle{{X: 0, Y: 0, Width: uint16(w), Height: uint16(h)}}
	if err := shape.RectanglesChecked(s.Conn(), shape.SoSet, shape.SkBounding,
		xproto.ClipOrderingUnsorted, win, 0, 0, rects).Check(); err != nil {
		log.Printf("xserver: applying shape rectangles: %v", err)
	}
}
