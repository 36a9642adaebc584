package tilt

import (
	"github.com/poltergeist/reflector/pkg/types"
)

// Place assigns every marker to the slot its distance falls into and bumps
// that slot's counter. The counters must be clear on entry, i.e. every Place
// is followed by a Reconstruct before the table is placed into again.
//
// A marker outside the grid, resting on an obstacle, or overfilling a slot
// means the partition or the marker set is corrupt; Place panics with an
// *InvariantError in that case.
func (t *SlotTable) Place(markers []types.Position) {
	d := t.frame.dir
	if len(t.touched) != 0 {
		violate(d, types.Position{}, "placement into a table with %d pending slots", len(t.touched))
	}

	for _, p := range markers {
		if !t.frame.contains(p) {
			violate(d, p, "marker outside %d lanes of length %d", t.frame.lanes, t.frame.length)
		}

		lane := t.frame.lane(p)
		dist := t.frame.distance(p)
		id, ok := t.find(lane, dist)
		if !ok {
			violate(d, p, "distance %d of lane %d falls in no slot", dist, lane)
		}

		if t.occupancy[id] == 0 {
			t.touched = append(t.touched, id)
		}
		t.occupancy[id]++
		if t.occupancy[id] > t.slots[id].Length {
			violate(d, p, "slot %d holds %d markers but has length %d", id, t.occupancy[id], t.slots[id].Length)
		}
	}
}

// Reconstruct appends the packed marker positions of every occupied slot to
// dst and clears the counters, leaving the table ready for the next Place.
// Markers of a slot occupy its first cells, flush against the obstacle or
// edge on its near side.
func (t *SlotTable) Reconstruct(dst []types.Position) []types.Position {
	for _, id := range t.touched {
		s := t.slots[id]
		n := t.occupancy[id]
		for k := uint32(0); k < n; k++ {
			dst = append(dst, t.frame.position(s.Lane, s.Start+k))
		}
		t.occupancy[id] = 0
	}
	t.touched = t.touched[:0]
	return dst
}

// discard clears counters left behind by a Place that did not reach its
// Reconstruct.
func (t *SlotTable) discard() {
	for _, id := range t.touched {
		t.occupancy[id] = 0
	}
	t.touched = t.touched[:0]
}

// Tilt moves markers as far as they roll in the table's direction. The
// result is appended to dst, which must not alias markers.
func (t *SlotTable) Tilt(markers, dst []types.Position) []types.Position {
	t.Place(markers)
	return t.Reconstruct(dst)
}

func (f frame) contains(p types.Position) bool {
	if f.dir.Vertical() {
		return p.X < f.lanes && p.Y < f.length
	}
	return p.Y < f.lanes && p.X < f.length
}
