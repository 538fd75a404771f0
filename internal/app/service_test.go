package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/greenroom/internal/app"
	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithMaxLanes(4),
			service.WithPreShow(true),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(64))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

// fixture seeds one larp with two roles sharing a performer whose
// scenes overlap on day one.
type fixture struct {
	larp  model.Larp
	run   model.Run
	roleA model.Role
	roleB model.Role
}

func seedFixture(ctx context.Context, svc *service.Service) fixture {
	larp, err := svc.CreateLarp(ctx, model.Larp{Title: "Winter Court"})
	So(err, ShouldBeNil)
	run, err := svc.CreateRun(ctx, model.Run{LarpID: larp.ID, Title: "Run 1", Date: "2026-10-02"})
	So(err, ShouldBeNil)
	roleA, err := svc.CreateRole(ctx, model.Role{LarpID: larp.ID, Name: "The Herald"})
	So(err, ShouldBeNil)
	roleB, err := svc.CreateRole(ctx, model.Role{LarpID: larp.ID, Name: "The Regent"})
	So(err, ShouldBeNil)

	_, err = svc.CreateScene(ctx, model.Scene{
		RunID: run.ID, RoleID: roleA.ID, DayNumber: 1,
		StartTime: "14:00", DurationMin: 60, Title: "Council session",
	})
	So(err, ShouldBeNil)
	_, err = svc.CreateScene(ctx, model.Scene{
		RunID: run.ID, RoleID: roleB.ID, DayNumber: 1,
		StartTime: "14:30", DurationMin: 30, Title: "Secret meeting",
	})
	So(err, ShouldBeNil)

	So(svc.PutAssignment(ctx, model.RoleAssignment{RunID: run.ID, RoleID: roleA.ID, Performer: "Jana"}), ShouldBeNil)
	So(svc.PutAssignment(ctx, model.RoleAssignment{RunID: run.ID, RoleID: roleB.ID, Performer: "Jana"}), ShouldBeNil)

	return fixture{larp: larp, run: run, roleA: roleA, roleB: roleB}
}

func TestService_ScheduleGrid(t *testing.T) {
	Convey("Given a started service with schedule events", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		fx := seedFixture(ctx, svc)

		_, err := svc.CreateScheduleEvent(ctx, model.ScheduleEvent{
			RunID: fx.run.ID, DayNumber: 1, StartTime: "10:00", DurationMin: 60, Kind: "workshop", Title: "Safety brief",
		})
		So(err, ShouldBeNil)
		_, err = svc.CreateScheduleEvent(ctx, model.ScheduleEvent{
			RunID: fx.run.ID, DayNumber: 1, StartTime: "10:30", DurationMin: 60, Kind: "scene", Title: "Opening",
		})
		So(err, ShouldBeNil)
		_, err = svc.CreateScheduleEvent(ctx, model.ScheduleEvent{
			RunID: fx.run.ID, DayNumber: 1, StartTime: "11:00", DurationMin: 30, Kind: "meal", Title: "Lunch",
		})
		So(err, ShouldBeNil)

		Convey("When computing the day's grid", func() {
			grid, err := svc.ScheduleGrid(ctx, fx.run.ID, 1)

			Convey("Then overlapping events land on separate lanes", func() {
				So(err, ShouldBeNil)
				So(grid.LaneCount, ShouldEqual, 2)
				So(grid.Cells, ShouldHaveLength, 3)
				So(grid.Cells[0].Lane, ShouldEqual, 0)
				So(grid.Cells[1].Lane, ShouldEqual, 1)
				// 11:00 fits back into lane 0 freed at 11:00.
				So(grid.Cells[2].Lane, ShouldEqual, 0)
			})
		})

		Convey("When computing a day with no events", func() {
			grid, err := svc.ScheduleGrid(ctx, fx.run.ID, 2)

			Convey("Then the grid is empty", func() {
				So(err, ShouldBeNil)
				So(grid.LaneCount, ShouldEqual, 0)
				So(grid.Cells, ShouldBeEmpty)
			})
		})

		Convey("When the run does not exist", func() {
			_, err := svc.ScheduleGrid(ctx, "missing", 1)

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_Conflicts(t *testing.T) {
	Convey("Given a started service with a double-booked performer", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		fx := seedFixture(ctx, svc)

		Convey("When scanning for conflicts", func() {
			conflicts, err := svc.Conflicts(ctx, fx.run.ID)

			Convey("Then the overlap is reported once", func() {
				So(err, ShouldBeNil)
				So(conflicts, ShouldHaveLength, 1)
				So(conflicts[0].Performer, ShouldEqual, "Jana")
				So(conflicts[0].DayNumber, ShouldEqual, 1)
				So(conflicts[0].StartB, ShouldEqual, "14:30")
				So(conflicts[0].EndB, ShouldEqual, "15:00")
			})
		})

		Convey("When a role is unstaffed", func() {
			So(svc.PutAssignment(ctx, model.RoleAssignment{
				RunID: fx.run.ID, RoleID: fx.roleB.ID, Performer: "",
			}), ShouldBeNil)
			conflicts, err := svc.Conflicts(ctx, fx.run.ID)

			Convey("Then the conflict disappears", func() {
				So(err, ShouldBeNil)
				So(conflicts, ShouldBeEmpty)
			})
		})
	})
}

func TestService_RolesWithBadges(t *testing.T) {
	Convey("Given a started service with a double-booked performer", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		fx := seedFixture(ctx, svc)

		Convey("When listing roles with badges", func() {
			badges, err := svc.RolesWithBadges(ctx, fx.run.ID)

			Convey("Then both conflicting roles are flagged", func() {
				So(err, ShouldBeNil)
				So(badges, ShouldHaveLength, 2)
				flagged := map[string]bool{}
				for _, b := range badges {
					flagged[b.Role.ID] = b.HasConflict
				}
				So(flagged[fx.roleA.ID], ShouldBeTrue)
				So(flagged[fx.roleB.ID], ShouldBeTrue)
			})
		})

		Convey("When the worker pipeline refreshes the snapshot after unstaffing", func() {
			So(svc.PutAssignment(ctx, model.RoleAssignment{
				RunID: fx.run.ID, RoleID: fx.roleB.ID, Performer: "",
			}), ShouldBeNil)

			Convey("Then badges eventually clear", func() {
				cleared := false
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) {
					badges, err := svc.RolesWithBadges(ctx, fx.run.ID)
					So(err, ShouldBeNil)
					cleared = true
					for _, b := range badges {
						if b.HasConflict {
							cleared = false
						}
					}
					if cleared {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}
				So(cleared, ShouldBeTrue)
			})
		})
	})
}

func TestService_Portal(t *testing.T) {
	Convey("Given a started service with documents and scenes", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		fx := seedFixture(ctx, svc)

		_, err := svc.CreateDocument(ctx, model.Document{
			RoleID: fx.roleA.ID, Title: "Character sheet", Body: "You know too much.",
		})
		So(err, ShouldBeNil)

		// Warm the badge snapshot so the portal flag is deterministic.
		_, err = svc.RolesWithBadges(ctx, fx.run.ID)
		So(err, ShouldBeNil)

		Convey("When resolving the portal by token", func() {
			view, err := svc.Portal(ctx, fx.roleA.Token)

			Convey("Then it returns the role's package", func() {
				So(err, ShouldBeNil)
				So(view.Role.ID, ShouldEqual, fx.roleA.ID)
				So(view.Documents, ShouldHaveLength, 1)
				So(view.Scenes, ShouldHaveLength, 1)
				So(view.HasConflict, ShouldBeTrue)
			})
		})

		Convey("When the token is unknown", func() {
			_, err := svc.Portal(ctx, "bogus")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_Validation(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		fx := seedFixture(ctx, svc)

		Convey("When creating a scene with a malformed clock", func() {
			_, err := svc.CreateScene(ctx, model.Scene{
				RunID: fx.run.ID, RoleID: fx.roleA.ID, DayNumber: 1,
				StartTime: "25:61", DurationMin: 30,
			})

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When creating a scene with zero duration", func() {
			_, err := svc.CreateScene(ctx, model.Scene{
				RunID: fx.run.ID, RoleID: fx.roleA.ID, DayNumber: 1,
				StartTime: "14:00", DurationMin: 0,
			})

			Convey("Then it should wrap the duration error", func() {
				So(err, ShouldWrap, service.ErrBadDuration)
			})
		})

		Convey("When creating a schedule event on day zero", func() {
			_, err := svc.CreateScheduleEvent(ctx, model.ScheduleEvent{
				RunID: fx.run.ID, DayNumber: 0, StartTime: "14:00", DurationMin: 30,
			})

			Convey("Then it should wrap the day error", func() {
				So(err, ShouldWrap, service.ErrBadDay)
			})
		})
	})
}

func TestService_SeedFile(t *testing.T) {
	Convey("Given a seed fixture on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "fixture.json")
		data := `{
  "larps": [{"id": "l1", "title": "Winter Court"}],
  "runs": [{"id": "r1", "larp_id": "l1", "title": "Run 1", "date": "2026-10-02"}],
  "roles": [{"id": "c1", "larp_id": "l1", "name": "The Herald"}],
  "documents": [{"role_id": "c1", "title": "Sheet", "body": "text"}],
  "scenes": [{"run_id": "r1", "role_id": "c1", "day_number": 1, "start_time": "14:00", "duration_min": 60, "title": "Council"}],
  "schedule_events": [{"run_id": "r1", "day_number": 1, "start_time": "10:00", "duration_min": 60, "kind": "workshop", "title": "Brief"}],
  "assignments": [{"run_id": "r1", "role_id": "c1", "performer": "Jana"}]
}`
		So(os.WriteFile(path, []byte(data), 0o600), ShouldBeNil)

		Convey("When starting a service pointed at it", func() {
			ctx := context.Background()
			svc := service.New(
				service.WithWorkerCount(1),
				service.WithQueueSize(16),
				service.WithSeedFile(path),
			)
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then the fixture is loaded", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["roles"], ShouldEqual, 1)
				So(stats["scenes"], ShouldEqual, 1)
				So(stats["assignments"], ShouldEqual, 1)
			})
		})
	})
}
