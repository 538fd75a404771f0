package seeder

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/okian/greenroom/pkg/logger"
)

// Schedule generation ranges, in minutes after midnight.
const (
	earliestStart = 9 * 60
	latestStart   = 21 * 60
	slotMinutes   = 15
	preShowOdds   = 8 // roughly one scene in eight is pre-show
)

// durationChoices are the scene lengths the generator picks from.
var durationChoices = []int{30, 45, 60, 90, 120}

// larpTitles seeds larp names; overflow falls back to numbered titles.
var larpTitles = []string{
	"Winter Court",
	"The Drowned City",
	"Embassy of Thorns",
	"Last Train North",
}

// roleNames seeds role names; overflow falls back to numbered names.
var roleNames = []string{
	"The Herald",
	"The Regent",
	"The Smuggler",
	"The Archivist",
	"The Physician",
	"The Envoy",
	"The Deserter",
	"The Cartographer",
	"The Widow",
	"The Gravedigger",
	"The Chronicler",
	"The Gatekeeper",
}

// sceneTitles seeds scene names.
var sceneTitles = []string{
	"Council session",
	"Secret meeting",
	"Duel at dawn",
	"The trial",
	"Masquerade",
	"Interrogation",
	"Funeral rites",
	"Border crossing",
}

// Plan is the full demo fixture generated before any HTTP call.
type Plan struct {
	Larps []LarpPlan
}

// LarpPlan describes one larp with its cast and runs.
type LarpPlan struct {
	Title string
	Runs  []RunPlan
	Roles []RolePlan
}

// RunPlan describes one run of a larp.
type RunPlan struct {
	Title string
	Date  string
}

// RolePlan describes one role, its performer and its scenes. The same
// performer and scene set is used for every run of the larp.
type RolePlan struct {
	Name      string
	Performer string
	Scenes    []ScenePlan
}

// ScenePlan describes one scheduled scene.
type ScenePlan struct {
	Day         int
	StartTime   string
	DurationMin int
	Title       string
	PreShow     bool
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generatePlan builds the demo fixture. The performer pool is smaller
// than the cast by default, so some performers hold two roles and
// random scene times produce genuine double-bookings.
func generatePlan(ctx context.Context, config *Config) *Plan {
	logger.Get().Info(ctx, "generating demo fixture",
		logger.Int("larps", config.Larps),
		logger.Int("rolesPerLarp", config.RolesPerLarp),
		logger.Int("scenesPerRole", config.ScenesPerRole),
		logger.Int("performers", config.Performers),
	)

	plan := &Plan{Larps: make([]LarpPlan, config.Larps)}
	for l := 0; l < config.Larps; l++ {
		larp := LarpPlan{
			Title: pick(larpTitles, l),
			Runs:  make([]RunPlan, config.RunsPerLarp),
			Roles: make([]RolePlan, config.RolesPerLarp),
		}
		for r := 0; r < config.RunsPerLarp; r++ {
			larp.Runs[r] = RunPlan{
				Title: "Run " + strconv.Itoa(r+1),
				Date:  fmt.Sprintf("2026-10-%02d", 2+r*7),
			}
		}
		for i := 0; i < config.RolesPerLarp; i++ {
			role := RolePlan{
				Name:      pick(roleNames, i),
				Performer: "performer-" + strconv.Itoa(randomInt(config.Performers)),
				Scenes:    make([]ScenePlan, config.ScenesPerRole),
			}
			for s := 0; s < config.ScenesPerRole; s++ {
				role.Scenes[s] = generateScene(config.Days)
			}
			larp.Roles[i] = role
		}
		plan.Larps[l] = larp
	}
	return plan
}

// generateScene picks a random day, slot-aligned start and duration.
func generateScene(days int) ScenePlan {
	slots := (latestStart-earliestStart)/slotMinutes + 1
	start := earliestStart + randomInt(slots)*slotMinutes
	return ScenePlan{
		Day:         1 + randomInt(days),
		StartTime:   fmt.Sprintf("%02d:%02d", start/60, start%60),
		DurationMin: durationChoices[randomInt(len(durationChoices))],
		Title:       sceneTitles[randomInt(len(sceneTitles))],
		PreShow:     randomInt(preShowOdds) == 0,
	}
}

// pick returns names[i] while the list lasts, then numbered fallbacks.
func pick(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return names[i%len(names)] + " " + strconv.Itoa(i/len(names)+1)
}
