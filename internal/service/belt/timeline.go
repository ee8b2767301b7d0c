package belt

import (
	"sort"
	"time"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

// occupancy is one committed interval on a belt within the current pass.
type occupancy struct {
	flightID string
	start    time.Time
	end      time.Time
}

// usageTimeline tracks committed intervals per general-purpose belt for a
// single allocation pass. It is created fresh per call and never shared.
// Reserved belts are not tracked; their capacity sits outside cross-flow
// conflict checking.
type usageTimeline struct {
	entries map[int][]occupancy
}

func newUsageTimeline(pool []int) *usageTimeline {
	entries := make(map[int][]occupancy, len(pool))
	for _, id := range pool {
		entries[id] = nil
	}
	return &usageTimeline{entries: entries}
}

func (t *usageTimeline) tracks(beltID int) bool {
	_, ok := t.entries[beltID]
	return ok
}

// record appends the flight's interval to the belt's list and keeps the list
// sorted ascending by start. Untracked (reserved) belts are ignored.
func (t *usageTimeline) record(beltID int, f *domain.Flight) {
	if !t.tracks(beltID) {
		return
	}
	t.entries[beltID] = append(t.entries[beltID], occupancy{
		flightID: f.ID,
		start:    f.Start,
		end:      f.End,
	})
	committed := t.entries[beltID]
	sort.SliceStable(committed, func(i, j int) bool {
		return committed[i].start.Before(committed[j].start)
	})
}

// fits reports whether the interval can join the belt without conflicting
// with any committed interval. An untracked belt always fits.
func (t *usageTimeline) fits(beltID int, start, end time.Time, minGap time.Duration) bool {
	for _, occ := range t.entries[beltID] {
		if conflicts(start, end, occ.start, occ.end, minGap) {
			return false
		}
	}
	return true
}

// earliestClearing picks, from the candidate belts, the one whose most recent
// committed interval ends soonest. An empty belt clears at time zero and
// always wins. The pool stays small, so a linear scan is enough.
func (t *usageTimeline) earliestClearing(candidates []int) int {
	best := candidates[0]
	bestEnd := t.lastEnd(best)
	for _, id := range candidates[1:] {
		if end := t.lastEnd(id); end.Before(bestEnd) {
			best, bestEnd = id, end
		}
	}
	return best
}

// lastEnd returns the end of the belt's most recently committed interval, or
// the zero time when nothing is committed.
func (t *usageTimeline) lastEnd(beltID int) time.Time {
	committed := t.entries[beltID]
	if len(committed) == 0 {
		return time.Time{}
	}
	return committed[len(committed)-1].end
}

// conflicts reports whether two occupancy windows overlap, or sit closer than
// minGap at either boundary. The gap is measured in both directions and the
// tightest one decides, so the test is symmetric.
func conflicts(aStart, aEnd, bStart, bEnd time.Time, minGap time.Duration) bool {
	if aStart.Before(bEnd) && bStart.Before(aEnd) {
		return true
	}
	gap := bStart.Sub(aEnd)
	if other := aStart.Sub(bEnd); other > gap {
		gap = other
	}
	return gap < minGap
}
