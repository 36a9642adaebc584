package tilt

import (
	"encoding/binary"
	"slices"
	"sort"

	"github.com/poltergeist/reflector/pkg/types"
)

// Slot is a maximal run of free cells inside one lane, bounded by obstacles
// or the grid edge. Start is the distance of its first cell from the edge
// the table's direction moves toward.
type Slot struct {
	Lane   uint32
	Start  uint32
	Length uint32
}

// End returns the first distance past the slot.
func (s Slot) End() uint32 {
	return s.Start + s.Length
}

// Contains reports whether a marker at distance d rests inside the slot.
func (s Slot) Contains(d uint32) bool {
	return d >= s.Start && d < s.End()
}

// SlotTable holds every slot of one direction in a flat arena. The slots of
// lane i are slots[offsets[i]:offsets[i+1]], ordered by Start. Occupancy
// counters are indexed by slot id and are only non-zero between a Place and
// the Reconstruct that follows it.
type SlotTable struct {
	frame     frame
	slots     []Slot
	offsets   []uint32
	occupancy []uint32
	touched   []uint32
}

// Partition builds the slot table of the grid for direction d.
func Partition(g *Grid, d types.Direction) *SlotTable {
	f := g.frame(d)

	// Counting sort of obstacle distances into lanes.
	bounds := make([]uint32, f.lanes+1)
	for _, p := range g.obstacles {
		bounds[f.lane(p)+1]++
	}
	for i := 1; i < len(bounds); i++ {
		bounds[i] += bounds[i-1]
	}
	next := make([]uint32, f.lanes)
	copy(next, bounds[:f.lanes])
	distances := make([]uint32, len(g.obstacles))
	for _, p := range g.obstacles {
		lane := f.lane(p)
		distances[next[lane]] = f.distance(p)
		next[lane]++
	}

	t := &SlotTable{
		frame:   f,
		slots:   make([]Slot, 0, len(g.obstacles)+int(f.lanes)),
		offsets: make([]uint32, f.lanes+1),
	}

	for lane := uint32(0); lane < f.lanes; lane++ {
		blockers := distances[bounds[lane]:bounds[lane+1]]
		slices.Sort(blockers)

		start := uint32(0)
		for _, b := range blockers {
			if b > start {
				t.slots = append(t.slots, Slot{Lane: lane, Start: start, Length: b - start})
			}
			start = b + 1
		}
		if f.length > start {
			t.slots = append(t.slots, Slot{Lane: lane, Start: start, Length: f.length - start})
		}
		t.offsets[lane+1] = uint32(len(t.slots))
	}

	t.occupancy = make([]uint32, len(t.slots))
	return t
}

// Direction returns the tilt direction the table was built for.
func (t *SlotTable) Direction() types.Direction {
	return t.frame.dir
}

// Lanes returns the number of lanes in the table.
func (t *SlotTable) Lanes() uint32 {
	return t.frame.lanes
}

// Len returns the total number of slots.
func (t *SlotTable) Len() int {
	return len(t.slots)
}

// Lane returns the ordered slots of one lane. The returned slice must not
// be modified.
func (t *SlotTable) Lane(lane uint32) []Slot {
	if lane >= t.frame.lanes {
		return nil
	}
	return t.slots[t.offsets[lane]:t.offsets[lane+1]]
}

// Slots returns a copy of every slot in arena order.
func (t *SlotTable) Slots() []Slot {
	return slices.Clone(t.slots)
}

// Occupancy returns the current counter of slot id.
func (t *SlotTable) Occupancy(id int) uint32 {
	return t.occupancy[id]
}

// find returns the id of the slot in lane that contains distance d.
func (t *SlotTable) find(lane, d uint32) (uint32, bool) {
	lo := t.offsets[lane]
	run := t.slots[lo:t.offsets[lane+1]]
	i := sort.Search(len(run), func(i int) bool { return run[i].End() > d })
	if i == len(run) || run[i].Start > d {
		return 0, false
	}
	return lo + uint32(i), true
}

// appendFingerprint appends the occupancy vector to b. Two placements with
// equal fingerprints reconstruct to the same marker set.
func (t *SlotTable) appendFingerprint(b []byte) []byte {
	for _, n := range t.occupancy {
		b = binary.AppendUvarint(b, uint64(n))
	}
	return b
}
