// Package lanes packs timed schedule events into parallel display tracks.
//
// Overlapping events must never share a lane; back-to-back events may.
// Assignment is greedy and deterministic so the grid renders identically
// on every refresh.
package lanes

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/greenroom/internal/domain/wallclock"
)

// Event is one time-boxed block on a schedule grid. It occupies the
// half-open interval [start, start+duration); the kind of event is
// irrelevant here.
type Event struct {
	ID          string `json:"id"`
	Start       string `json:"start"`
	DurationMin int    `json:"duration_min"`
}

// Assignment is an event plus its computed display lane.
type Assignment struct {
	Event
	Lane int `json:"lane"`
}

// Allocator assigns lanes to events such that no two events sharing a
// lane overlap in time.
type Allocator interface {
	// Assign computes lane indexes for events. The result is ordered by
	// start time (stable for equal starts); callers needing input order
	// must re-sort by their own key.
	Assign(ctx context.Context, events []Event) ([]Assignment, error)
}

// GreedyAllocator implements Allocator with first-free-lane packing.
type GreedyAllocator struct {
	maxLanes int
}

// NewGreedyAllocator creates a greedy allocator with configuration options.
func NewGreedyAllocator(opts ...Option) *GreedyAllocator {
	a := &GreedyAllocator{
		maxLanes: 0, // unbounded
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assign packs events into the minimum number of lanes the greedy
// earliest-available strategy yields:
//
//  1. Sort by start minute, stable, so equal starts keep input order.
//  2. Walk lanes from index 0; the first lane whose occupant has ended
//     at or before this event's start is reused. Equality means
//     back-to-back events share a lane (half-open intervals).
//  3. No free lane means a new one opens at the end.
//
// Durations must be positive; zero or negative durations are rejected
// rather than producing degenerate intervals.
func (a *GreedyAllocator) Assign(_ context.Context, events []Event) ([]Assignment, error) {
	if len(events) == 0 {
		return []Assignment{}, nil
	}

	type timed struct {
		ev    Event
		start int
		end   int
	}
	sorted := make([]timed, 0, len(events))
	for _, ev := range events {
		if ev.DurationMin <= 0 {
			return nil, fmt.Errorf("%w: event %q has duration %d", ErrBadDuration, ev.ID, ev.DurationMin)
		}
		start, err := wallclock.ParseMinutes(ev.Start)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ev.ID, err)
		}
		sorted = append(sorted, timed{ev: ev, start: start, end: start + ev.DurationMin})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start < sorted[j].start
	})

	// laneEnds[i] is the end minute of lane i's current occupant.
	laneEnds := make([]int, 0, len(sorted))
	out := make([]Assignment, 0, len(sorted))
	for _, t := range sorted {
		lane := -1
		for i, end := range laneEnds {
			if end <= t.start {
				lane = i
				break
			}
		}
		if lane < 0 {
			if a.maxLanes > 0 && len(laneEnds) >= a.maxLanes {
				return nil, fmt.Errorf("%w: event %q needs lane %d", ErrLaneOverflow, t.ev.ID, len(laneEnds))
			}
			laneEnds = append(laneEnds, 0)
			lane = len(laneEnds) - 1
		}
		laneEnds[lane] = t.end
		out = append(out, Assignment{Event: t.ev, Lane: lane})
	}
	return out, nil
}

// LaneCount reports how many lanes a set of assignments occupies.
func LaneCount(assignments []Assignment) int {
	max := -1
	for _, a := range assignments {
		if a.Lane > max {
			max = a.Lane
		}
	}
	return max + 1
}
