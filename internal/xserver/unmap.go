package xserver

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// UnmapNotifyEvent extends xproto's generated UnmapNotifyEvent with the
// event header's send_event bit. xgbgen builds each event struct purely
// from the protocol's per-event field list, so the synthetic bit — a
// property of every event's header, not a named field of any one event
// type — never makes it onto xproto.UnmapNotifyEvent. ICCCM's withdrawal
// convention (unmap, then send a synthetic UnmapNotify to root) depends on
// telling the two apart, so gowm wraps the stock unmarshaler to carry it.
type UnmapNotifyEvent struct {
	xproto.UnmapNotifyEvent
	Synthetic bool
}

func (e UnmapNotifyEvent) Bytes() []byte { return e.UnmapNotifyEvent.Bytes() }

func (e UnmapNotifyEvent) String() string {
	return fmt.Sprintf("%s (synthetic=%v)", e.UnmapNotifyEvent.String(), e.Synthetic)
}

// registerSyntheticUnmapNotify wraps the UnmapNotify entry in xgb's
// exported event-unmarshaler table so WaitForEvent returns UnmapNotifyEvent
// above instead of the stock xproto type. Must run once before the first
// WaitForEvent call; xproto's own init() has already populated the table
// by the time any of this package's code runs.
func registerSyntheticUnmapNotify() {
	orig := xgb.NewEventFuncs[xproto.UnmapNotify]
	xgb.NewEventFuncs[xproto.UnmapNotify] = func(buf []byte) xgb.Event {
		base := orig(buf).(xproto.UnmapNotifyEvent)
		return UnmapNotifyEvent{UnmapNotifyEvent: base, Synthetic: buf[0]&0x80 != 0}
	}
}
