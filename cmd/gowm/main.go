package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gowm/internal/bar"
	"gowm/internal/config"
	"gowm/internal/wm"
	"gowm/internal/xatom"
	"gowm/internal/xserver"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/gofrs/flock"
)

var version = "unknown" // set by build

type cliOpts struct {
	verbose bool
}

func parseCLIOpts() cliOpts {
	var opt cliOpts
	flag.BoolVar(&opt.verbose, "v", false, "verbose output (print logs to stderr)")
	flag.Parse()
	return opt
}

func main() {
	opt := parseCLIOpts()
	if opt.verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("gowm starting. Version: %s\n", version)

	lockPath, err := lockFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gowm: resolving lock path: %v\n", err)
		os.Exit(1)
	}
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil || !locked {
		fmt.Fprintln(os.Stderr, "gowm: another instance is already running")
		os.Exit(1)
	}
	defer fl.Unlock()

	srv, err := xserver.Connect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gowm: %v\n", err)
		os.Exit(1)
	}
	if err := srv.BecomeWM(); err != nil {
		fmt.Fprintf(os.Stderr, "gowm: %v\n", err)
		os.Exit(1)
	}

	atoms := xatom.New(srv.XU)
	if err := atoms.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "gowm: %v\n", err)
		os.Exit(1)
	}
	if err := publishSupported(srv, atoms); err != nil {
		log.Printf("gowm: publishing _NET_SUPPORTED: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gowm: loading config: %v\n", err)
		os.Exit(1)
	}

	cursors, err := srv.LoadCursors()
	if err != nil {
		log.Printf("gowm: loading cursors: %v\n", err)
		cursors = &xserver.Cursors{}
	}
	if cursors.Normal != 0 {
		if err := srv.SetRootCursor(cursors.Normal); err != nil {
			log.Printf("gowm: setting root cursor: %v\n", err)
		}
	}

	world := wm.NewWorld(srv, atoms, cfg, cursors, nil)

	barHeight := 0
	if cfg.Appearance.ShowBar {
		barHeight = int(cfg.Appearance.FontSize) + 8
	}
	if _, err := world.UpdateGeom(barHeight); err != nil {
		fmt.Fprintf(os.Stderr, "gowm: %v\n", err)
		os.Exit(1)
	}

	ap := cfg.Appearance
	colors := bar.Colors{
		NormFG: hexColor(ap.BarNormFG),
		NormBG: hexColor(ap.BarNormBG),
		SelFG:  hexColor(ap.BarSelFG),
		SelBG:  hexColor(ap.BarSelBG),
		UrgFG:  hexColor(ap.BarUrgFG),
		UrgBG:  hexColor(ap.BarUrgBG),
	}
	bars := map[*wm.Monitor]*bar.XGraphicsBar{}
	if cfg.Appearance.ShowBar {
		if err := createBars(world, bars, colors); err != nil {
			log.Printf("gowm: creating status bar(s): %v\n", err)
		} else {
			world.OnBarRedraw(func(m *wm.Monitor) { redrawBar(world, bars, m) })
			world.Bar = bars[world.Monitors[0]]
		}
	}

	watcher, err := config.Watch(world.PostConfigReload)
	if err != nil {
		log.Printf("gowm: watching config for changes: %v\n", err)
	} else {
		defer watcher.Close()
	}

	world.Sel = world.Monitors[0]
	scan(world)
	installKeyAndButtonGrabs(world)

	world.Run()

	cleanup(world)
}

// lockFilePath resolves the single-instance advisory lock path under
// XDG_RUNTIME_DIR (falling back to /tmp), the same spot a compositor's
// socket would live.
func lockFilePath() (string, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "gowm.lock"), nil
}

// publishSupported writes _NET_SUPPORTED and _NET_SUPPORTING_WM_CHECK: a
// 1x1 InputOnly window owned by gowm, named as the supporting WM check on
// both itself and the root, so EWMH-aware clients can confirm a
// compliant WM is present.
func publishSupported(srv *xserver.Server, atoms *xatom.Registry) error {
	checkWin, err := xproto.NewWindowId(srv.Conn())
	if err != nil {
		return err
	}
	scr := srv.Screen
	if err := xproto.CreateWindowChecked(srv.Conn(), scr.RootDepth, checkWin, srv.Root,
		-1, -1, 1, 1, 0, xproto.WindowClassInputOnly, scr.RootVisual, 0, nil).Check(); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(srv.XU, srv.Root, checkWin); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(srv.XU, checkWin, checkWin); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(srv.XU, checkWin, "gowm"); err != nil {
		return err
	}
	return ewmh.SupportedSet(srv.XU, xatom.Names)
}

// scan discovers and manages every pre-existing top-level window at
// startup: one that survived a previous WM, or was mapped before gowm
// connected.
func scan(world *wm.World) {
	tree, err := xproto.QueryTree(world.Srv.Conn(), world.Srv.Root).Reply()
	if err != nil {
		log.Printf("gowm: scanning existing windows: %v\n", err)
		return
	}
	for _, win := range tree.Children {
		attrs, err := world.Srv.WindowAttributes(win)
		if err != nil || attrs.OverrideRedirect || attrs.MapState == xproto.MapStateUnmapped {
			continue
		}
		geo, err := world.Srv.Geometry(win)
		if err != nil {
			continue
		}
		if _, err := world.Manage(win, geo); err != nil {
			log.Printf("gowm: managing pre-existing window %d: %v\n", win, err)
		}
	}
	world.ArrangeAll()
}

// installKeyAndButtonGrabs grabs every configured binding on the root
// window, mirroring what onMappingNotify re-does after a keymap change.
func installKeyAndButtonGrabs(world *wm.World) {
	for _, k := range world.Cfg.Keys {
		codes, err := world.Srv.KeysymToKeycodes(k.Sym)
		if err != nil {
			continue
		}
		for _, code := range codes {
			if err := world.Srv.GrabKey(k.Mod, code); err != nil {
				log.Printf("gowm: grabbing key: %v\n", err)
			}
		}
	}
	for _, b := range world.Cfg.Buttons {
		if err := world.Srv.GrabButton(world.Srv.Root, b.Button, b.Mod, false); err != nil {
			log.Printf("gowm: grabbing button: %v\n", err)
		}
	}
}

// cleanup releases the X connection's window-manager role so a
// subsequently-started WM (or a plain X session teardown) isn't left
// fighting over stale grabs: every client gets its border width and
// button grabs restored before the connection goes away, the same
// teardown Unmanage already does for a single client leaving on its own.
func cleanup(world *wm.World) {
	for _, m := range world.Monitors {
		for _, c := range append([]*wm.Client(nil), m.Clients...) {
			world.Unmanage(c, false)
		}
		world.Srv.DestroyBarriers(m.Barriers)
	}
	world.Srv.Conn().Close()
}
