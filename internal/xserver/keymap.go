package xserver

import (
	"github.com/BurntSushi/xgb/xproto"
)

// updateNumlockMask scans the modifier map for whichever modifier bit
// Num_Lock (keysym 0xFF7F) has been bound to, so CleanMask (below) can
// strip it the way dwm's updatenumlockmask() does. Layouts vary, so this
// can't be a constant.
func (s *Server) updateNumlockMask() {
	const numLockKeysym = 0xff7f

	modMap, err := xproto.GetModifierMapping(s.Conn()).Reply()
	if err != nil {
		return
	}
	first, last := s.keycodeRange()
	mapping, err := xproto.GetKeyboardMapping(s.Conn(), first, byte(int(last-first)+1)).Reply()
	if err != nil {
		return
	}

	perModifier := int(modMap.KeycodesPerModifier)
	for mod := 0; mod < 8; mod++ {
		for i := 0; i < perModifier; i++ {
			kc := modMap.Keycodes[mod*perModifier+i]
			if kc == 0 {
				continue
			}
			if s.keycodeHasKeysym(mapping, first, kc, numLockKeysym) {
				s.numlockMask = 1 << uint(mod)
				return
			}
		}
	}
}

func (s *Server) keycodeRange() (xproto.Keycode, xproto.Keycode) {
	setup := s.XU.Conn().Setup()
	return setup.MinKeycode, setup.MaxKeycode
}

func (s *Server) keycodeHasKeysym(mapping *xproto.GetKeyboardMappingReply, first, kc xproto.Keycode, sym xproto.Keysym) bool {
	perKc := int(mapping.KeysymsPerKeycode)
	idx := (int(kc) - int(first)) * perKc
	if idx < 0 || idx+perKc > len(mapping.Keysyms) {
		return false
	}
	for i := 0; i < perKc; i++ {
		if mapping.Keysyms[idx+i] == sym {
			return true
		}
	}
	return false
}

// CleanMask strips Lock and the detected numlock modifier from a key
// or button event's state, the cleaned modifier mask ButtonPress/KeyPress
// dispatch matches bindings against.
func (s *Server) CleanMask(state uint16) uint16 {
	const ignored = xproto.ModMaskLock
	return state &^ (ignored | s.numlockMask) &
		(xproto.ModMaskShift | xproto.ModMaskControl |
			xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 |
			xproto.ModMask4 | xproto.ModMask5)
}

// KeysymToKeycodes maps a keysym to every physical keycode that produces
// it under the current keyboard mapping, for grabbing and for translating
// a KeyPress event's Detail back to a symbol.
func (s *Server) KeysymToKeycodes(sym xproto.Keysym) ([]xproto.Keycode, error) {
	first, last := s.keycodeRange()
	mapping, err := xproto.GetKeyboardMapping(s.Conn(), first, byte(int(last-first)+1)).Reply()
	if err != nil {
		return nil, err
	}
	perKc := int(mapping.KeysymsPerKeycode)
	var codes []xproto.Keycode
	for kc := first; kc <= last; kc++ {
		idx := (int(kc) - int(first)) * perKc
		for i := 0; i < perKc; i++ {
			if idx+i < len(mapping.Keysyms) && mapping.Keysyms[idx+i] == sym {
				codes = append(codes, kc)
				break
			}
		}
	}
	return codes, nil
}

// KeycodeToKeysym is the inverse lookup used when dispatching a KeyPress.
func (s *Server) KeycodeToKeysym(kc xproto.Keycode) (xproto.Keysym, error) {
	first, last := s.keycodeRange()
	mapping, err := xproto.GetKeyboardMapping(s.Conn(), first, byte(int(last-first)+1)).Reply()
	if err != nil {
		return 0, err
	}
	perKc := int(mapping.KeysymsPerKeycode)
	idx := (int(kc) - int(first)) * perKc
	if idx < 0 || idx >= len(mapping.Keysyms) {
		return 0, nil
	}
	return mapping.Keysyms[idx], nil
}

// GrabKey grabs a single (modifiers, keycode) combination on the root
// window, plus the numlock/capslock variants so the binding still fires
// regardless of lock state, mirroring dwm's grabkeys().
func (s *Server) GrabKey(mods uint16, code xproto.Keycode) error {
	lockVariants := []uint16{0, xproto.ModMaskLock, s.numlockMask, xproto.ModMaskLock | s.numlockMask}
	for _, lv := range lockVariants {
		err := xproto.GrabKeyChecked(s.Conn(), true, s.Root, mods|lv, code,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// UngrabAllKeys releases every key grab on the root window, used before
// re-grabbing on a MappingNotify keyboard-mapping change.
func (s *Server) UngrabAllKeys() error {
	return xproto.UngrabKeyChecked(s.Conn(), xproto.GrabAny, s.Root, xproto.ModMaskAny).Check()
}

// GrabButton grabs a pointer button combination on win, either in the
// unfocused (sync, passed through only when clicked) or focused (async,
// always available) mode manage() distinguishes.
func (s *Server) GrabButton(win xproto.Window, button xproto.Button, mods uint16, ownerEvents bool) error {
	var mode byte = xproto.GrabModeSync
	if ownerEvents {
		mode = xproto.GrabModeAsync
	}
	lockVariants := []uint16{0, xproto.ModMaskLock, s.numlockMask, xproto.ModMaskLock | s.numlockMask}
	for _, lv := range lockVariants {
		err := xproto.GrabButtonChecked(s.Conn(), ownerEvents, win,
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
			byte(mode), xproto.GrabModeAsync, 0, 0, button, mods|lv).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// UngrabButtons releases every button grab installed on win.
func (s *Server) UngrabButtons(win xproto.Window) error {
	return xproto.UngrabButtonChecked(s.Conn(), xproto.ButtonIndexAny, win, xproto.ModMaskAny).Check()
}
