package seeder

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

// verifyRuns fetches every run's schedule grids and conflict report and
// checks the service's two core guarantees: no two events share a lane
// slot, and every reported conflict is a genuine overlap.
func verifyRuns(ctx context.Context, config *Config, seeded []SeededLarp, stats *Stats) error {
	log.Println("Verifying schedule grids and conflict reports...")

	client := newHTTPClient(config.Timeout)

	for _, sl := range seeded {
		for _, run := range sl.Runs {
			for day := 1; day <= config.Days; day++ {
				grid, err := fetchGrid(ctx, client, config.BaseURL, run.ID, day)
				if err != nil {
					return fmt.Errorf("fetch grid for run %s day %d: %w", run.ID, day, err)
				}
				if err := verifyGrid(grid); err != nil {
					return fmt.Errorf("grid for run %s day %d: %w", run.ID, day, err)
				}
				stats.GridsVerified++
			}

			conflicts, err := fetchConflicts(ctx, client, config.BaseURL, run.ID)
			if err != nil {
				return fmt.Errorf("fetch conflicts for run %s: %w", run.ID, err)
			}
			if err := verifyConflicts(conflicts); err != nil {
				return fmt.Errorf("conflicts for run %s: %w", run.ID, err)
			}
			stats.ConflictsFound += len(conflicts)

			if config.Verbose {
				for _, c := range conflicts {
					log.Printf("  conflict: %s holds %q and %q on day %d (%s-%s vs %s-%s)",
						c.Performer, c.RoleA, c.RoleB, c.DayNumber,
						c.StartA, c.EndA, c.StartB, c.EndB)
				}
			}
		}
	}

	log.Printf("Verified %d grids; service reported %d double-bookings",
		stats.GridsVerified, stats.ConflictsFound)
	return nil
}

// fetchGrid gets one run day's lane-packed schedule.
func fetchGrid(ctx context.Context, client *HTTPClient, baseURL, runID string, day int) (*Grid, error) {
	url := fmt.Sprintf("%s/runs/%s/schedule?day=%d", baseURL, runID, day)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var grid Grid
	if err := unmarshalJSON(body, &grid); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &grid, nil
}

// fetchConflicts gets one run's double-booking report.
func fetchConflicts(ctx context.Context, client *HTTPClient, baseURL, runID string) ([]Conflict, error) {
	url := fmt.Sprintf("%s/runs/%s/conflicts", baseURL, runID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var conflicts []Conflict
	if err := unmarshalJSON(body, &conflicts); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return conflicts, nil
}

// laneSlot is one placed event with its start resolved to minutes.
type laneSlot struct {
	id       string
	startMin int
	endMin   int
}

// verifyGrid checks that no two events placed in the same lane overlap.
func verifyGrid(grid *Grid) error {
	byLane := make(map[int][]laneSlot)
	for _, cell := range grid.Cells {
		if cell.Lane < 0 || cell.Lane >= grid.LaneCount {
			return fmt.Errorf("cell %s assigned lane %d outside 0..%d",
				cell.Event.ID, cell.Lane, grid.LaneCount-1)
		}
		start, err := clockMinutes(cell.Event.StartTime)
		if err != nil {
			return fmt.Errorf("cell %s: %w", cell.Event.ID, err)
		}
		byLane[cell.Lane] = append(byLane[cell.Lane], laneSlot{
			id:       cell.Event.ID,
			startMin: start,
			endMin:   start + cell.Event.DurationMin,
		})
	}

	for lane, slots := range byLane {
		sort.Slice(slots, func(i, j int) bool {
			return slots[i].startMin < slots[j].startMin
		})
		for i := 1; i < len(slots); i++ {
			prev, cur := slots[i-1], slots[i]
			if cur.startMin < prev.endMin {
				return fmt.Errorf("lane %d events %s and %s overlap",
					lane, prev.id, cur.id)
			}
		}
	}
	return nil
}

// verifyConflicts checks that each reported pair genuinely overlaps.
func verifyConflicts(conflicts []Conflict) error {
	for _, c := range conflicts {
		startA, endA, err := conflictWindow(c.StartA, c.EndA)
		if err != nil {
			return fmt.Errorf("conflict for %s: %w", c.Performer, err)
		}
		startB, endB, err := conflictWindow(c.StartB, c.EndB)
		if err != nil {
			return fmt.Errorf("conflict for %s: %w", c.Performer, err)
		}
		if startA >= endB || startB >= endA {
			return fmt.Errorf("reported conflict for %s does not overlap (%s-%s vs %s-%s)",
				c.Performer, c.StartA, c.EndA, c.StartB, c.EndB)
		}
	}
	return nil
}

// verifyPortal spot-checks one role's performer portal by token.
func verifyPortal(ctx context.Context, config *Config, seeded []SeededLarp) error {
	if len(seeded) == 0 || len(seeded[0].Roles) == 0 {
		return nil
	}
	role := seeded[0].Roles[0]

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/portal/" + role.Token

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("portal request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read portal response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("portal HTTP %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("Portal for role %q reachable via token", role.Name)
	return nil
}

// conflictWindow resolves a reported start/end label pair to minutes.
// End labels wrap at midnight; unwrap for the interval check.
func conflictWindow(startClock, endClock string) (int, int, error) {
	start, err := clockMinutes(startClock)
	if err != nil {
		return 0, 0, err
	}
	end, err := clockMinutes(endClock)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		end += 24 * 60
	}
	return start, end, nil
}

// clockMinutes parses HH:MM output the service formats itself. A label
// that does not parse means the response body was malformed, so the
// verifier must fail rather than treat it as midnight.
func clockMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed clock %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", clock, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", clock, err)
	}
	return h*60 + m, nil
}
