package translator

import "github.com/vitaoxipad/vitaoxipad-go/sink"

// touchSlots is the per-surface multi-touch tracking-ID memory from
// spec.md §3: a fixed-length array of optional tracking IDs, one per slot.
type touchSlots struct {
	ids [6]trackingID // sized for the larger (front) surface; rear only uses [0:4]
}

// trackingID is an Option<uint8> tracking id: present=false means the slot
// is empty (no previous finger), matching spec.md's invariant that a
// Some -> None transition must emit a -1 tracking id before going empty.
type trackingID struct {
	present bool
	id      uint8
}

func (s *touchSlots) get(slot int) (trackingID, bool) {
	if slot < 0 || slot >= len(s.ids) {
		return trackingID{}, false
	}
	t := s.ids[slot]
	return t, t.present
}

func (s *touchSlots) set(slot int, id uint8) {
	s.ids[slot] = trackingID{present: true, id: id}
}

func (s *touchSlots) clear(slot int) {
	s.ids[slot] = trackingID{}
}

// state is the translator's exclusively-owned state tracker (spec.md §3):
// touch-slot memory, previous button set, previous hat, touch-aggregate
// state, and the monotone timestamp filter.
type state struct {
	frontTouches touchSlots
	rearTouches  touchSlots

	previousButtons map[sink.Button]struct{}
	previousHatX    int8
	previousHatY    int8

	touchState bool

	lastTimestamp    uint64
	haveLastTimestamp bool
}

func newState() *state {
	return &state{previousButtons: make(map[sink.Button]struct{})}
}
