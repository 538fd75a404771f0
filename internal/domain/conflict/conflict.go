// Package conflict finds scenes that need the same performer at the same
// time.
//
// A role is staffed by one performer per run, but one performer may hold
// several roles. Grouping scenes by performer across all of their roles
// and scanning same-day pairs surfaces every double-booking, including
// self-overlaps within a single role (rare, almost always a data-entry
// mistake, still worth flagging).
package conflict

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/internal/domain/wallclock"
)

// Detector reports overlapping same-performer scene pairs.
type Detector interface {
	// Detect returns one record per conflicting unordered pair. Output
	// order is deterministic: performers by name, pairs by scene order
	// (day, then start, then input position).
	Detect(ctx context.Context, scenes []model.Scene, assignments []model.RoleAssignment) ([]model.PerformerConflict, error)
}

// PairwiseDetector implements Detector with a per-performer pair scan.
// Per-run scene counts are tens, not thousands, so the quadratic scan
// beats an interval tree on both clarity and constant factors.
type PairwiseDetector struct {
	includePreShow bool
}

// NewPairwiseDetector creates a detector with configuration options.
func NewPairwiseDetector(opts ...Option) *PairwiseDetector {
	d := &PairwiseDetector{
		includePreShow: false, // pre-show scenes are rehearsal-only
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// timedScene carries a scene with its parsed interval and input position.
type timedScene struct {
	scene model.Scene
	pos   int
	start int
	end   int
}

// Detect groups scenes by resolved performer and reports every
// overlapping same-day pair.
//
// Resolution rules:
//   - duplicate assignments for a role: first occurrence in input order
//     wins, later records are ignored;
//   - blank or whitespace-only performer names count as unassigned, so
//     distinct unassigned roles never pair with each other;
//   - scenes whose role has no assignment are dropped, not an error;
//   - pre-show scenes are dropped unless WithPreShow was set.
//
// Intervals are half-open: a scene ending 14:30 never conflicts with one
// starting 14:30.
func (d *PairwiseDetector) Detect(_ context.Context, scenes []model.Scene, assignments []model.RoleAssignment) ([]model.PerformerConflict, error) {
	performerByRole := make(map[string]string, len(assignments))
	for _, a := range assignments {
		name := strings.TrimSpace(a.Performer)
		if name == "" {
			continue
		}
		if _, dup := performerByRole[a.RoleID]; dup {
			continue // first record wins
		}
		performerByRole[a.RoleID] = name
	}

	grouped := make(map[string][]timedScene)
	for i, s := range scenes {
		if s.PreShow && !d.includePreShow {
			continue
		}
		performer, ok := performerByRole[s.RoleID]
		if !ok {
			continue
		}
		if s.DurationMin <= 0 {
			return nil, fmt.Errorf("%w: scene %q has duration %d", ErrBadDuration, s.ID, s.DurationMin)
		}
		start, err := wallclock.ParseMinutes(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", s.ID, err)
		}
		grouped[performer] = append(grouped[performer], timedScene{
			scene: s,
			pos:   i,
			start: start,
			end:   start + s.DurationMin,
		})
	}

	performers := make([]string, 0, len(grouped))
	for name := range grouped {
		performers = append(performers, name)
	}
	sort.Strings(performers)

	var out []model.PerformerConflict
	for _, name := range performers {
		group := grouped[name]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].scene.DayNumber != group[j].scene.DayNumber {
				return group[i].scene.DayNumber < group[j].scene.DayNumber
			}
			if group[i].start != group[j].start {
				return group[i].start < group[j].start
			}
			return group[i].pos < group[j].pos
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.scene.DayNumber != b.scene.DayNumber {
					continue
				}
				if a.start < b.end && b.start < a.end {
					out = append(out, newConflict(name, a, b))
				}
			}
		}
	}
	return out, nil
}

func newConflict(performer string, a, b timedScene) model.PerformerConflict {
	return model.PerformerConflict{
		Performer: performer,
		DayNumber: a.scene.DayNumber,
		RoleA:     a.scene.RoleID,
		RoleB:     b.scene.RoleID,
		SceneA:    a.scene.ID,
		SceneB:    b.scene.ID,
		StartA:    wallclock.FormatMinutes(a.start),
		EndA:      wallclock.FormatMinutes(a.end),
		StartB:    wallclock.FormatMinutes(b.start),
		EndB:      wallclock.FormatMinutes(b.end),
	}
}

// RoleBadges reduces a conflict list to the set of role ids that appear
// in at least one conflict, the shape the warning-badge display needs.
func RoleBadges(conflicts []model.PerformerConflict) map[string]bool {
	badges := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		badges[c.RoleA] = true
		badges[c.RoleB] = true
	}
	return badges
}
