package main

import (
	"fmt"
	"image/color"

	"gowm/internal/bar"
	"gowm/internal/wm"

	"github.com/BurntSushi/xgb/xproto"
)

// hexColor builds an opaque color.RGBA from a 0xRRGGBB packed value, the
// shape bar.Colors' fields need and the shape config.Appearance's color
// fields store.
func hexColor(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}

// createBars creates one bar window per monitor and its XGraphicsBar
// renderer, populating bars and each Monitor's BarWin. Only monitors with
// ShowBar set (BH > 0 after recomputeBar) get one.
func createBars(world *wm.World, bars map[*wm.Monitor]*bar.XGraphicsBar, colors bar.Colors) error {
	conn := world.Srv.Conn()
	scr := world.Srv.Screen
	for _, m := range world.Monitors {
		if m.BH == 0 {
			continue
		}
		win, err := xproto.NewWindowId(conn)
		if err != nil {
			return err
		}
		mask := uint32(xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
		values := []uint32{
			uint32(rgbToPixel(colors.NormBG)),
			1, // override-redirect: bars aren't managed windows
			uint32(xproto.EventMaskExposure),
		}
		if err := xproto.CreateWindowChecked(conn, scr.RootDepth, win, world.Srv.Root,
			int16(m.BX), int16(m.BY), uint16(m.BW), uint16(m.BH), 0,
			xproto.WindowClassInputOutput, scr.RootVisual, mask, values).Check(); err != nil {
			return err
		}
		if err := world.Srv.Map(win); err != nil {
			return err
		}
		m.BarWin = uint32(win)
		bars[m] = bar.NewXGraphicsBar(world.Srv.XU, win, m.BW, m.BH, colors)
		redrawBar(world, bars, m)
	}
	return nil
}

// rgbToPixel packs a color.RGBA into the 24-bit pixel value
// CreateWindow's CwBackPixel value list entry expects on a truecolor
// visual, the only kind gowm supports.
func rgbToPixel(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// redrawBar is World's onBarRedraw callback: it assembles a bar.Model
// from m's current tag occupancy/selection/urgency, layout symbol and
// selected client title, then hands it to m's renderer.
func redrawBar(world *wm.World, bars map[*wm.Monitor]*bar.XGraphicsBar, m *wm.Monitor) {
	b, ok := bars[m]
	if !ok {
		return
	}
	occupied, urgent := uint32(0), uint32(0)
	for _, c := range m.Clients {
		occupied |= c.Tags
		if c.IsUrgent {
			urgent |= c.Tags
		}
	}
	tags := make([]bar.TagState, len(world.Cfg.TagNames))
	for i, name := range world.Cfg.TagNames {
		bit := uint32(1) << uint(i)
		tags[i] = bar.TagState{
			Name:     name,
			Occupied: occupied&bit != 0,
			Selected: m.Cur()&bit != 0,
			Urgent:   urgent&bit != 0,
		}
	}
	title := ""
	if m.Sel != nil {
		title = m.Sel.Name
	}
	sym := world.Cfg.Layouts[m.LayoutIdx].Symbol
	if sym == "[M]" {
		sym = fmt.Sprintf("[%d]", len(m.VisibleClients()))
	}
	model := bar.Model{
		X: m.BX, Y: m.BY, W: m.BW, H: m.BH,
		Tags:      tags,
		LayoutSym: sym,
		Title:     title,
		Selected:  m == world.Sel,
	}
	if err := b.DrawBar(model); err != nil {
		return
	}
}
