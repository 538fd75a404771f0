package seeder

import (
	"context"
	"testing"

	"github.com/okian/greenroom/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestGeneratePlan(t *testing.T) {
	convey.Convey("Given a seed configuration", t, func() {
		config := &Config{
			Larps:         2,
			RunsPerLarp:   2,
			RolesPerLarp:  15,
			ScenesPerRole: 3,
			Days:          2,
			Performers:    5,
		}

		convey.Convey("When generating the plan", func() {
			plan := generatePlan(context.Background(), config)

			convey.Convey("Then it should have the requested shape", func() {
				convey.So(plan.Larps, convey.ShouldHaveLength, 2)
				for _, lp := range plan.Larps {
					convey.So(lp.Runs, convey.ShouldHaveLength, 2)
					convey.So(lp.Roles, convey.ShouldHaveLength, 15)
					for _, role := range lp.Roles {
						convey.So(role.Scenes, convey.ShouldHaveLength, 3)
						convey.So(role.Performer, convey.ShouldStartWith, "performer-")
					}
				}
			})

			convey.Convey("And every scene should be inside the day window", func() {
				for _, lp := range plan.Larps {
					for _, role := range lp.Roles {
						for _, scene := range role.Scenes {
							start, err := clockMinutes(scene.StartTime)
							convey.So(err, convey.ShouldBeNil)
							convey.So(start, convey.ShouldBeGreaterThanOrEqualTo, earliestStart)
							convey.So(start, convey.ShouldBeLessThanOrEqualTo, latestStart)
							convey.So(start%slotMinutes, convey.ShouldEqual, 0)
							convey.So(scene.Day, convey.ShouldBeBetweenOrEqual, 1, 2)
							convey.So(scene.DurationMin, convey.ShouldBeGreaterThan, 0)
						}
					}
				}
			})
		})
	})
}

func TestPick(t *testing.T) {
	convey.Convey("Given a name list", t, func() {
		names := []string{"a", "b", "c"}

		convey.Convey("Then indexes inside the list return the name", func() {
			convey.So(pick(names, 0), convey.ShouldEqual, "a")
			convey.So(pick(names, 2), convey.ShouldEqual, "c")
		})

		convey.Convey("And overflow indexes get numbered suffixes", func() {
			convey.So(pick(names, 3), convey.ShouldEqual, "a 2")
			convey.So(pick(names, 7), convey.ShouldEqual, "b 3")
		})
	})
}

func TestVerifyGrid(t *testing.T) {
	convey.Convey("Given a schedule grid", t, func() {
		cell := func(id, start string, dur, lane int) GridCell {
			var c GridCell
			c.Event.ID = id
			c.Event.StartTime = start
			c.Event.DurationMin = dur
			c.Lane = lane
			return c
		}

		convey.Convey("When lanes contain only back-to-back events", func() {
			grid := &Grid{
				LaneCount: 2,
				Cells: []GridCell{
					cell("a", "10:00", 60, 0),
					cell("b", "11:00", 60, 0),
					cell("c", "10:30", 30, 1),
				},
			}

			convey.Convey("Then verification should pass", func() {
				convey.So(verifyGrid(grid), convey.ShouldBeNil)
			})
		})

		convey.Convey("When two events share a lane slot", func() {
			grid := &Grid{
				LaneCount: 1,
				Cells: []GridCell{
					cell("a", "10:00", 60, 0),
					cell("b", "10:30", 60, 0),
				},
			}

			convey.Convey("Then verification should fail", func() {
				convey.So(verifyGrid(grid), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a lane index exceeds the lane count", func() {
			grid := &Grid{
				LaneCount: 1,
				Cells:     []GridCell{cell("a", "10:00", 60, 3)},
			}

			convey.Convey("Then verification should fail", func() {
				convey.So(verifyGrid(grid), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When an event carries a malformed start label", func() {
			grid := &Grid{
				LaneCount: 1,
				Cells:     []GridCell{cell("a", "", 60, 0)},
			}

			convey.Convey("Then verification should fail instead of treating it as midnight", func() {
				convey.So(verifyGrid(grid), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestVerifyConflicts(t *testing.T) {
	convey.Convey("Given a conflict report", t, func() {
		convey.Convey("When every pair genuinely overlaps", func() {
			conflicts := []Conflict{
				{Performer: "p", StartA: "14:00", EndA: "15:00", StartB: "14:30", EndB: "15:00"},
			}

			convey.Convey("Then verification should pass", func() {
				convey.So(verifyConflicts(conflicts), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a reported pair only touches at the boundary", func() {
			conflicts := []Conflict{
				{Performer: "p", StartA: "14:00", EndA: "15:00", StartB: "15:00", EndB: "16:00"},
			}

			convey.Convey("Then verification should fail", func() {
				convey.So(verifyConflicts(conflicts), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When an end label wraps past midnight", func() {
			conflicts := []Conflict{
				{Performer: "p", StartA: "23:30", EndA: "00:30", StartB: "23:45", EndB: "00:45"},
			}

			convey.Convey("Then the wrapped window should still count as overlap", func() {
				convey.So(verifyConflicts(conflicts), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a clock label is malformed", func() {
			conflicts := []Conflict{
				{Performer: "p", StartA: "later", EndA: "15:00", StartB: "14:30", EndB: "15:00"},
			}

			convey.Convey("Then verification should fail", func() {
				convey.So(verifyConflicts(conflicts), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestBuildSceneJobs(t *testing.T) {
	convey.Convey("Given a plan and its seeded IDs", t, func() {
		plan := &Plan{Larps: []LarpPlan{{
			Roles: []RolePlan{
				{Name: "r1", Scenes: []ScenePlan{{Day: 1}, {Day: 2}}},
				{Name: "r2", Scenes: []ScenePlan{{Day: 1}}},
			},
		}}}
		seeded := []SeededLarp{{
			Runs:  []RunInfo{{ID: "run-a"}, {ID: "run-b"}},
			Roles: []Role{{ID: "role-1"}, {ID: "role-2"}},
		}}

		convey.Convey("When flattening into jobs", func() {
			jobs := buildSceneJobs(plan, seeded)

			convey.Convey("Then each scene appears once per run", func() {
				convey.So(jobs, convey.ShouldHaveLength, 6)
				convey.So(jobs[0].runID, convey.ShouldEqual, "run-a")
				convey.So(jobs[0].roleID, convey.ShouldEqual, "role-1")
				convey.So(jobs[len(jobs)-1].runID, convey.ShouldEqual, "run-b")
				convey.So(jobs[len(jobs)-1].roleID, convey.ShouldEqual, "role-2")
			})
		})
	})
}
