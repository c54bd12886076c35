// Package xatom is the atom registry (spec component 1): it interns and
// caches the fixed set of protocol/ICCCM/EWMH atoms the rest of the window
// manager needs, resolved once at startup rather than re-requested on
// every property access.
package xatom

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Names of every atom gowm ever looks up by name. Keeping them as a single
// ordered list lets Registry.Init warm the whole cache in one pass at
// startup instead of lazily stalling the event loop on first use.
var Names = []string{
	"WM_PROTOCOLS",
	"WM_DELETE_WINDOW",
	"WM_TAKE_FOCUS",
	"WM_STATE",
	"WM_CHANGE_STATE",
	"WM_NAME",
	"WM_CLASS",
	"WM_TRANSIENT_FOR",
	"WM_NORMAL_HINTS",
	"WM_HINTS",
	"_NET_SUPPORTED",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_SUPPORTING_WM_CHECK",
	"UTF8_STRING",
	"GOWM_CONFIG_RELOAD",
}

// Registry caches symbolic-name -> protocol-atom resolutions.
type Registry struct {
	xu    *xgbutil.XUtil
	cache map[string]xproto.Atom
}

// New creates an empty registry bound to an X connection.
func New(xu *xgbutil.XUtil) *Registry {
	return &Registry{xu: xu, cache: make(map[string]xproto.Atom, len(Names))}
}

// Init resolves every name in Names up front. Failure to resolve a
// well-known atom is startup-fatal: the server just isn't one we can
// manage.
func (r *Registry) Init() error {
	for _, name := range Names {
		if _, err := r.Atom(name); err != nil {
			return fmt.Errorf("xatom: resolving %s: %w", name, err)
		}
	}
	return nil
}

// Atom returns the protocol atom for name, resolving and caching it on
// first use if Init wasn't called with it (e.g. an EWMH type name no
// client ever sends until runtime).
func (r *Registry) Atom(name string) (xproto.Atom, error) {
	if a, ok := r.cache[name]; ok {
		return a, nil
	}
	a, err := xprop.Atm(r.xu, name)
	if err != nil {
		return 0, err
	}
	r.cache[name] = a
	return a, nil
}

// MustAtom is Atom for names known to be in Names and therefore resolved
// during Init; a miss here is a programming error, not a runtime fault.
func (r *Registry) MustAtom(name string) xproto.Atom {
	a, ok := r.cache[name]
	if !ok {
		panic("xatom: " + name + " was never interned")
	}
	return a
}
