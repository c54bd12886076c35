package xserver

import (
	"log"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
)

// PointerBarrier is an active Xfixes barrier handle, or the zero value
// when Xfixes isn't available.
type PointerBarrier struct {
	id      xfixes.Barrier
	present bool
}

// CreateWorkAreaBarriers pins the pointer to a monitor's work-area edges
// so it can't be flung past the bar into an adjacent monitor by accident.
// Non-fatal and a no-op when Xfixes is unavailable; gowm degrades to no
// pointer barriers rather than refusing to start.
func (s *Server) CreateWorkAreaBarriers(x, y, w, h int) []PointerBarrier {
	if !s.HasXfixes {
		return nil
	}
	edges := []struct{ x1, y1, x2, y2 int16 }{
		{int16(x), int16(y), int16(x + w), int16(y)},         // top
		{int16(x), int16(y + h), int16(x + w), int16(y + h)}, // bottom
		{int16(x), int16(y), int16(x), int16(y + h)},         // left
		{int16(x + w), int16(y), int16(x + w), int16(y + h)}, // right
	}
	barriers := make([]PointerBarrier, 0, len(edges))
	for _, e := range edges {
		id, err := s.nextBarrierID()
		if err != nil {
			log.Printf("xserver: allocating barrier id: %v", err)
			continue
		}
		err = xfixes.CreatePointerBarrierChecked(s.Conn(), id, s.Root,
			e.x1, e.y1, e.x2, e.y2, 0, 0, nil).Check()
		if err != nil {
			log.Printf("xserver: creating pointer barrier: %v", err)
			continue
		}
		barriers = append(barriers, PointerBarrier{id: id, present: true})
	}
	return barriers
}

// DestroyBarriers releases previously created barriers, e.g. when a
// monitor's work area is recomputed after a geometry change.
func (s *Server) DestroyBarriers(barriers []PointerBarrier) {
	if !s.HasXfixes {
		return
	}
	for _, b := range barriers {
		if !b.present {
			continue
		}
		if err := xfixes.DeletePointerBarrierChecked(s.Conn(), b.id).Check(); err != nil {
			log.Printf("xserver: deleting pointer barrier: %v", err)
		}
	}
}

func (s *Server) nextBarrierID() (xfixes.Barrier, error) {
	id, err := xproto.NewId(s.Conn())
	if err != nil {
		return 0, err
	}
	return xfixes.Barrier(id), nil
}
