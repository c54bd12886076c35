// Package config holds gowm's external configuration: the static
// appearance/tag/layout/rule/binding tables compiled in as defaults, with
// an optional TOML file in the XDG config directory overriding appearance
// at load time or on a later reload.
package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
)

// TagCount is the number of user-assignable tags, capped at 31 to
// leave tag bit 31 unused as a sign-bit margin against the tag bitmask
// arithmetic.
const TagCount = 9

// TagMask is the bitmask covering all valid tags.
const TagMask = (1 << TagCount) - 1

// Appearance holds the numeric/visual part of the configuration
// surface.
type Appearance struct {
	BorderWidth int
	GapPx       int
	SnapPx      int
	MFact       float64
	NMaster     int
	ShowBar     bool
	TopBar      bool
	FontName    string
	FontSize    float64

	// BorderColorNorm/Sel are 0xRRGGBB window border colors.
	BorderColorNorm uint32
	BorderColorSel  uint32

	// Bar colors: normal/selected/urgent foreground and background
	// pairs, all 0xRRGGBB.
	BarNormFG, BarNormBG uint32
	BarSelFG, BarSelBG   uint32
	BarUrgFG, BarUrgBG   uint32
}

// DefaultAppearance uses a 0.55 master-area fraction, with conventional
// dwm defaults elsewhere.
func DefaultAppearance() Appearance {
	return Appearance{
		BorderWidth: 1,
		GapPx:       0,
		SnapPx:      32,
		MFact:       0.55,
		NMaster:     1,
		ShowBar:     true,
		TopBar:      true,
		FontName:    "monospace",
		FontSize:    13,

		BorderColorNorm: 0x222222,
		BorderColorSel:  0x4477aa,

		BarNormFG: 0xbbbbbb,
		BarNormBG: 0x222222,
		BarSelFG:  0xeeeeee,
		BarSelBG:  0x4477aa,
		BarUrgFG:  0x222222,
		BarUrgBG:  0xcc4444,
	}
}

// LayoutName is one entry in the ordered layout list. The arrange
// function itself lives in internal/wm/layout.go and is looked up by
// this symbol at startup — keeping config a leaf package with no
// dependency on wm.
type LayoutName struct {
	Symbol string
}

// DefaultLayouts is dwm's familiar ordering: tile first, then
// monocle, then floating (the null arrangement).
func DefaultLayouts() []LayoutName {
	return []LayoutName{{Symbol: "[]="}, {Symbol: "[M]"}, {Symbol: "><>"}}
}

// Config is the full external configuration surface.
type Config struct {
	Appearance   Appearance
	TagNames     [TagCount]string
	InitialTags  uint32
	HiddenTags   uint32
	Layouts      []LayoutName
	Rules        []Rule
	Keys         []KeyBinding
	Buttons      []ButtonBinding
}

// Default builds the compiled-in configuration table — the config.h
// analog every dwm-family WM ships, expressed as Go literals rather
// than a C header.
func Default() *Config {
	names := [TagCount]string{}
	for i := range names {
		names[i] = fmt.Sprintf("%d", i+1)
	}
	return &Config{
		Appearance:  DefaultAppearance(),
		TagNames:    names,
		InitialTags: 1,
		HiddenTags:  0,
		Layouts:     DefaultLayouts(),
		Rules:       DefaultRules(),
		Keys:        DefaultKeys(),
		Buttons:     DefaultButtons(),
	}
}

// overlay is the subset of Config a user may override via the optional
// TOML file: Appearance fields only, one pointer per field so an absent
// key in the file leaves the compiled-in default untouched.
type overlay struct {
	BorderWidth *int     `toml:"border_width"`
	GapPx       *int     `toml:"gap_px"`
	SnapPx      *int     `toml:"snap_px"`
	MFact       *float64 `toml:"mfact"`
	NMaster     *int     `toml:"nmaster"`
	ShowBar     *bool    `toml:"show_bar"`
	TopBar      *bool    `toml:"top_bar"`
	FontName    *string  `toml:"font_name"`
	FontSize    *float64 `toml:"font_size"`

	BorderColorNorm *uint32 `toml:"border_color_norm"`
	BorderColorSel  *uint32 `toml:"border_color_sel"`

	BarNormFG *uint32 `toml:"bar_norm_fg"`
	BarNormBG *uint32 `toml:"bar_norm_bg"`
	BarSelFG  *uint32 `toml:"bar_sel_fg"`
	BarSelBG  *uint32 `toml:"bar_sel_bg"`
	BarUrgFG  *uint32 `toml:"bar_urg_fg"`
	BarUrgBG  *uint32 `toml:"bar_urg_bg"`
}

const overlayFile = "config.toml"

// Dir resolves gowm's config directory under $XDG_CONFIG_HOME (or its
// platform default when unset).
func Dir() (string, error) {
	dir, err := xdg.ConfigFile(filepath.Join("gowm", overlayFile))
	if err != nil {
		return "", fmt.Errorf("config: resolving config dir: %w", err)
	}
	return filepath.Dir(dir), nil
}

// Load returns the compiled-in defaults with any user TOML overlay
// applied. A missing overlay file is not an error — it's the common case
// on first run, and gowm runs fine indefinitely on pure defaults.
func Load() (*Config, error) {
	cfg := Default()
	dir, err := Dir()
	if err != nil {
		log.Printf("config: %v, using built-in defaults", err)
		return cfg, nil
	}
	path := filepath.Join(dir, overlayFile)
	applyOverlayFile(cfg, path)
	return cfg, nil
}

func applyOverlayFile(cfg *Config, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	var ov overlay
	if _, err := toml.DecodeFile(path, &ov); err != nil {
		log.Printf("config: malformed %s, ignoring: %v", path, err)
		return
	}
	ov.apply(&cfg.Appearance)
}

func (ov overlay) apply(a *Appearance) {
	if ov.BorderWidth != nil {
		a.BorderWidth = *ov.BorderWidth
	}
	if ov.GapPx != nil {
		a.GapPx = *ov.GapPx
	}
	if ov.SnapPx != nil {
		a.SnapPx = *ov.SnapPx
	}
	if ov.MFact != nil && *ov.MFact >= 0.05 && *ov.MFact <= 0.95 {
		a.MFact = *ov.MFact
	}
	if ov.NMaster != nil && *ov.NMaster >= 0 {
		a.NMaster = *ov.NMaster
	}
	if ov.ShowBar != nil {
		a.ShowBar = *ov.ShowBar
	}
	if ov.TopBar != nil {
		a.TopBar = *ov.TopBar
	}
	if ov.FontName != nil {
		a.FontName = *ov.FontName
	}
	if ov.FontSize != nil && *ov.FontSize > 0 {
		a.FontSize = *ov.FontSize
	}
	if ov.BorderColorNorm != nil {
		a.BorderColorNorm = *ov.BorderColorNorm
	}
	if ov.BorderColorSel != nil {
		a.BorderColorSel = *ov.BorderColorSel
	}
	if ov.BarNormFG != nil {
		a.BarNormFG = *ov.BarNormFG
	}
	if ov.BarNormBG != nil {
		a.BarNormBG = *ov.BarNormBG
	}
	if ov.BarSelFG != nil {
		a.BarSelFG = *ov.BarSelFG
	}
	if ov.BarSelBG != nil {
		a.BarSelBG = *ov.BarSelBG
	}
	if ov.BarUrgFG != nil {
		a.BarUrgFG = *ov.BarUrgFG
	}
	if ov.BarUrgBG != nil {
		a.BarUrgBG = *ov.BarUrgBG
	}
}

// WriteDefault persists cfg's appearance settings to the overlay file.
// Runtime adjustments made by setmfact/incnmaster live on each monitor,
// not in cfg, so they are not written.
func WriteDefault(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("config: creating config dir: %w", err)
	}
	ov := overlay{
		BorderWidth: &cfg.Appearance.BorderWidth,
		GapPx:       &cfg.Appearance.GapPx,
		SnapPx:      &cfg.Appearance.SnapPx,
		MFact:       &cfg.Appearance.MFact,
		NMaster:     &cfg.Appearance.NMaster,
		ShowBar:     &cfg.Appearance.ShowBar,
		TopBar:      &cfg.Appearance.TopBar,
		FontName:    &cfg.Appearance.FontName,
		FontSize:    &cfg.Appearance.FontSize,

		BorderColorNorm: &cfg.Appearance.BorderColorNorm,
		BorderColorSel:  &cfg.Appearance.BorderColorSel,
		BarNormFG:       &cfg.Appearance.BarNormFG,
		BarNormBG:       &cfg.Appearance.BarNormBG,
		BarSelFG:        &cfg.Appearance.BarSelFG,
		BarSelBG:        &cfg.Appearance.BarSelBG,
		BarUrgFG:        &cfg.Appearance.BarUrgFG,
		BarUrgBG:        &cfg.Appearance.BarUrgBG,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&ov); err != nil {
		return fmt.Errorf("config: encoding overlay: %w", err)
	}
	path := filepath.Join(dir, overlayFile)
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Watch calls onChange with a freshly reloaded Config whenever the
// overlay file is written, letting appearance edits take effect without
// restarting gowm. onChange runs on Watch's own goroutine, not the
// caller's — it must only hand the new Config off somewhere safe (e.g.
// post it to whatever goroutine actually owns the state it affects),
// never apply it directly itself.
func Watch(onChange func(*Config)) (*fsnotify.Watcher, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: starting watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("config: watching %s: %w", dir, err)
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != overlayFile {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load()
				if err != nil {
					log.Printf("config: reload failed: %v", err)
					continue
				}
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			}
		}
	}()
	return w, nil
}
