// Package bar renders the per-monitor status bar: tag occupancy, the
// active layout symbol, and the selected client's title. It's
// deliberately shallow, not a full status-bar renderer.
package bar

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Model is the read-only snapshot of a monitor's bar content. It's a
// standalone struct (not the wm package's Monitor) so this package stays
// a leaf with no dependency on window-management state.
type Model struct {
	X, Y, W, H int
	Tags       []TagState
	LayoutSym  string
	Title      string
	Selected   bool // whether this monitor currently holds input focus
}

// TagState is one tag's render state on a bar.
type TagState struct {
	Name     string
	Occupied bool // at least one client carries this tag
	Selected bool // part of the monitor's current tag-set
	Urgent   bool
}

// Colors is the appearance configuration the bar needs: one
// foreground/background pair per state.
type Colors struct {
	NormFG, NormBG color.RGBA
	SelFG, SelBG   color.RGBA
	UrgFG, UrgBG   color.RGBA
}

// Drawer draws a bar's content and measures rendered text width.
type Drawer interface {
	MeasureText(s string) int
	DrawBar(m Model) error
}

// XGraphicsBar renders the bar into an xgraphics pixmap backing the
// bar window, which is how every xgbutil-based status bar in the wild
// draws text (no separate font-rendering dependency needed for the
// pixmap/XDraw plumbing).
type XGraphicsBar struct {
	xu     *xgbutil.XUtil
	win    xproto.Window
	image  *xgraphics.Image
	colors Colors
	glyphW int // fixed advance width of the fallback bitmap font
	glyphH int
}

// NewXGraphicsBar creates a bar renderer bound to an already-created bar
// window of size (w, h).
func NewXGraphicsBar(xu *xgbutil.XUtil, win xproto.Window, w, h int, colors Colors) *XGraphicsBar {
	img := xgraphics.New(xu, image.Rect(0, 0, w, h))
	img.XSurfaceSet(win)
	face := basicfont.Face7x13
	return &XGraphicsBar{
		xu: xu, win: win, image: img, colors: colors,
		glyphW: face.Advance, glyphH: face.Height,
	}
}

// MeasureText returns the pixel width s will occupy, using rune display
// width (go-runewidth) so wide CJK runes in window titles measure as two
// cells rather than the one a naive len(s) would give, avoiding the
// truncated-title look that plain byte counting produces.
func (b *XGraphicsBar) MeasureText(s string) int {
	return runewidth.StringWidth(s)*b.glyphW + 4
}

// DrawBar repaints the bar pixmap for one monitor and flushes it to the
// bar window. Resizing-aware callers (ConfigureNotify on root resize,
// §4.1) are expected to recreate the XGraphicsBar rather than reuse one
// sized for a different monitor.
func (b *XGraphicsBar) DrawBar(m Model) error {
	bg := b.colors.NormBG
	if m.Selected {
		bg = b.colors.SelBG
	}
	draw.Draw(b.image, b.image.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	x := 2
	for _, t := range m.Tags {
		fg, tagBg := b.colors.NormFG, b.colors.NormBG
		switch {
		case t.Urgent:
			fg, tagBg = b.colors.UrgFG, b.colors.UrgBG
		case t.Selected:
			fg, tagBg = b.colors.SelFG, b.colors.SelBG
		}
		w := b.MeasureText(t.Name)
		rect := image.Rect(x, 0, x+w, b.image.Bounds().Dy())
		draw.Draw(b.image, rect, &image.Uniform{C: tagBg}, image.Point{}, draw.Src)
		b.drawString(x+2, 2, fg, t.Name)
		x += w
	}

	sym := m.LayoutSym
	if sym == "" {
		sym = "[?]"
	}
	b.drawString(x+2, 2, b.colors.NormFG, sym)
	x += b.MeasureText(sym)

	if m.Title != "" {
		b.drawString(x+6, 2, b.colors.NormFG, m.Title)
	}

	if err := b.image.XDraw(); err != nil {
		return err
	}
	return b.image.XPaint(b.win)
}

// drawString is the fallback glyph-rasterizer: a fixed-width bitmap font
// so the bar has legible text even with no user-supplied font file
// configured. The face is always basicfont.Face7x13; the configured
// FontName is not used here and there is no way to swap the face.
func (b *XGraphicsBar) drawString(x, y int, fg color.RGBA, s string) {
	d := &textDrawer{dst: b.image, fg: fg}
	d.point = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + b.glyphH)}
	d.drawString(s)
}

type textDrawer struct {
	dst   draw.Image
	fg    color.RGBA
	point fixed.Point26_6
}

func (d *textDrawer) drawString(s string) {
	face := basicfont.Face7x13
	for _, r := range s {
		dr, mask, maskp, advance, ok := face.Glyph(d.point, r)
		if ok {
			draw.DrawMask(d.dst, dr, &image.Uniform{C: d.fg}, image.Point{}, mask, maskp, draw.Over)
		}
		d.point.X += advance
	}
}
