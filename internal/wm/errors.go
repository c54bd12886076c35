package wm

import (
	"log"

	"github.com/BurntSushi/xgb/xproto"
)

// LogXError is the dispatcher's fallback for the error half of
// WaitForEvent's (Event, error) pair. BadWindow, BadAccess, BadMatch and
// BadDrawable are tolerated silently: they arise from an ordinary race
// between a client disappearing and gowm's own already-queued requests
// against it (ConfigureWindow, ChangeWindowAttributes, SetInputFocus after
// the window is already gone). Anything else means gowm issued a request
// the server rejected for a reason it has no way to recover from, so it's
// fatal.
func LogXError(err error) {
	switch err.(type) {
	case xproto.WindowError, xproto.AccessError, xproto.MatchError, xproto.DrawableError:
		return
	default:
		log.Fatalf("wm: X error: %v", err)
	}
}
