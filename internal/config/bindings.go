package config

import "github.com/BurntSushi/xgb/xproto"

// ArgKind tags which field of Arg is meaningful: a binding's action
// argument can be an int, an unsigned bitmask, or a float, and ArgKind
// picks which one without resorting to an untyped union.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgInt
	ArgUint
	ArgFloat
)

// Arg is the single argument an action receives. Exactly one field is
// meaningful, selected by Kind, which the IntArg/UintArg/FloatArg
// constructors below set. Each action reads the field it uses directly;
// Kind is not checked against the action.
type Arg struct {
	Kind  ArgKind
	Int   int
	Uint  uint32
	Float float64
}

func IntArg(v int) Arg       { return Arg{Kind: ArgInt, Int: v} }
func UintArg(v uint32) Arg   { return Arg{Kind: ArgUint, Uint: v} }
func FloatArg(v float64) Arg { return Arg{Kind: ArgFloat, Float: v} }

// KeyBinding maps a (modifier mask, keysym) pair to an action and its
// argument.
type KeyBinding struct {
	Mod    uint16
	Sym    xproto.Keysym
	Action string
	Arg    Arg
}

// ButtonBinding is the button-table analog: a click on a managed
// client's window (or the bar) matching this modifier and button fires
// the action.
type ButtonBinding struct {
	Mod    uint16
	Button xproto.Button
	Action string
	Arg    Arg
}

// Modifier masks, named the way dwm's config.h does.
const (
	ModShift = xproto.ModMaskShift
	ModCtrl  = xproto.ModMaskControl
	ModAlt   = xproto.ModMask1
	ModSuper = xproto.ModMask4
)

// Keysyms used by DefaultKeys. Spelled out as constants rather than
// pulled from an X keysym header, since gowm has no generated keysymdef
// table.
const (
	XKReturn = 0xff0d
	XKj      = 0x006a
	XKk      = 0x006b
	XKh      = 0x0068
	XKl      = 0x006c
	XKTab    = 0xff09
	XKq      = 0x0071
	XKc      = 0x0063
	XKspace  = 0x0020
	XKt      = 0x0074
	XKf      = 0x0066
	XKm      = 0x006d
	XKcomma  = 0x002c
	XKperiod = 0x002e
	XKi      = 0x0069
	XKd      = 0x0064
	XK0      = 0x0030
	XK1      = 0x0031
	XK2      = 0x0032
	XK3      = 0x0033
	XK4      = 0x0034
	XK5      = 0x0035
	XK6      = 0x0036
	XK7      = 0x0037
	XK8      = 0x0038
	XK9      = 0x0039
)

// Action name constants, matched against internal/wm's action registry.
// Keeping them as strings (rather than function values) in this package
// is what keeps config dependency-free of wm: wm consults config, never
// the other way round.
const (
	ActFocusStack     = "focus-stack"
	ActFocusMonitor   = "focus-monitor"
	ActTagMonitor     = "tag-monitor"
	ActMoveStack      = "move-stack"
	ActZoom           = "zoom"
	ActView           = "view"
	ActToggleView     = "toggle-view"
	ActTag            = "tag"
	ActToggleTag      = "toggle-tag"
	ActToggleFloating = "toggle-floating"
	ActSetMFact       = "set-mfact"
	ActIncNMaster     = "inc-nmaster"
	ActSetLayout      = "set-layout"
	ActKillClient     = "kill-client"
	ActQuit           = "quit"
	ActMoveMouse      = "move-mouse"
	ActResizeMouse    = "resize-mouse"
)

// DefaultKeys is a conventional dwm-style binding set: Mod4 (Super) as
// the primary modifier, vim-style hjkl for focus/stack movement, and
// Mod4+[1-9] for tag selection.
func DefaultKeys() []KeyBinding {
	keys := []KeyBinding{
		{Mod: ModSuper, Sym: XKj, Action: ActFocusStack, Arg: IntArg(1)},
		{Mod: ModSuper, Sym: XKk, Action: ActFocusStack, Arg: IntArg(-1)},
		{Mod: ModSuper | ModShift, Sym: XKj, Action: ActMoveStack, Arg: IntArg(1)},
		{Mod: ModSuper | ModShift, Sym: XKk, Action: ActMoveStack, Arg: IntArg(-1)},
		{Mod: ModSuper, Sym: XKReturn, Action: ActZoom},
		{Mod: ModSuper, Sym: XKTab, Action: ActView, Arg: UintArg(0)}, // 0 means "toggle to last view"
		{Mod: ModSuper, Sym: XKPeriodComma(1), Action: ActFocusMonitor, Arg: IntArg(1)},
		{Mod: ModSuper, Sym: XKPeriodComma(-1), Action: ActFocusMonitor, Arg: IntArg(-1)},
		{Mod: ModSuper | ModShift, Sym: XKPeriodComma(1), Action: ActTagMonitor, Arg: IntArg(1)},
		{Mod: ModSuper | ModShift, Sym: XKPeriodComma(-1), Action: ActTagMonitor, Arg: IntArg(-1)},
		{Mod: ModSuper, Sym: XKh, Action: ActSetMFact, Arg: FloatArg(-0.05)},
		{Mod: ModSuper, Sym: XKl, Action: ActSetMFact, Arg: FloatArg(0.05)},
		{Mod: ModSuper, Sym: XKi, Action: ActIncNMaster, Arg: IntArg(1)},
		{Mod: ModSuper, Sym: XKd, Action: ActIncNMaster, Arg: IntArg(-1)},
		{Mod: ModSuper, Sym: XKt, Action: ActSetLayout, Arg: IntArg(0)},
		{Mod: ModSuper, Sym: XKf, Action: ActSetLayout, Arg: IntArg(1)},
		{Mod: ModSuper, Sym: XKm, Action: ActSetLayout, Arg: IntArg(2)},
		{Mod: ModSuper, Sym: XKspace, Action: ActToggleFloating},
		{Mod: ModSuper | ModShift, Sym: XKc, Action: ActKillClient},
		{Mod: ModSuper | ModShift, Sym: XKq, Action: ActQuit},
	}
	for i := 0; i < TagCount; i++ {
		sym := xproto.Keysym(XK1 + i)
		keys = append(keys,
			KeyBinding{Mod: ModSuper, Sym: sym, Action: ActView, Arg: UintArg(1 << uint(i))},
			KeyBinding{Mod: ModSuper | ModShift, Sym: sym, Action: ActTag, Arg: UintArg(1 << uint(i))},
			KeyBinding{Mod: ModSuper | ModCtrl, Sym: sym, Action: ActToggleView, Arg: UintArg(1 << uint(i))},
			KeyBinding{Mod: ModSuper | ModCtrl | ModShift, Sym: sym, Action: ActToggleTag, Arg: UintArg(1 << uint(i))},
		)
	}
	return keys
}

// XKPeriodComma picks the comma/period keysym for monitor-cycling
// bindings; kept as a helper so DefaultKeys reads as "previous/next"
// rather than raw keysym values.
func XKPeriodComma(dir int) xproto.Keysym {
	if dir < 0 {
		return XKcomma
	}
	return XKperiod
}

// DefaultButtons: click-to-focus plus modifier-drag move/resize, the
// button table every dwm config.h defines.
func DefaultButtons() []ButtonBinding {
	return []ButtonBinding{
		{Mod: ModSuper, Button: xproto.ButtonIndex1, Action: ActMoveMouse},
		{Mod: ModSuper, Button: xproto.ButtonIndex3, Action: ActResizeMouse},
	}
}
