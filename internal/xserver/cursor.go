package xserver

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// Cursors holds the handles used during normal operation and during the
// interactive move/resize nested event pump.
type Cursors struct {
	Normal xproto.Cursor
	Move   xproto.Cursor
	Resize xproto.Cursor
}

// LoadCursors creates the cursor glyphs gowm needs from the core X cursor
// font via xgbutil/xcursor.
func (s *Server) LoadCursors() (*Cursors, error) {
	normal, err := xcursor.CreateCursor(s.XU, xcursor.LeftPtr)
	if err != nil {
		return nil, err
	}
	move, err := xcursor.CreateCursor(s.XU, xcursor.Fleur)
	if err != nil {
		return nil, err
	}
	resize, err := xcursor.CreateCursor(s.XU, xcursor.BottomRightCorner)
	if err != nil {
		return nil, err
	}
	return &Cursors{Normal: normal, Move: move, Resize: resize}, nil
}

// SetRootCursor installs the normal cursor on the root window, the
// default pointer shape when no interactive operation is in progress.
func (s *Server) SetRootCursor(c xproto.Cursor) error {
	return xproto.ChangeWindowAttributesChecked(s.Conn(), s.Root, xproto.CwCursor, []uint32{uint32(c)}).Check()
}
