package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/greenroom/internal/adapters/http/api"
	repository "github.com/okian/greenroom/internal/adapters/repository"
	service "github.com/okian/greenroom/internal/app"
	"github.com/okian/greenroom/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	larps       map[string]model.Larp
	runs        map[string]model.Run
	roles       map[string]model.Role
	rolesByTok  map[string]model.Role
	grid        service.Grid
	conflicts   []model.PerformerConflict
	badges      []service.RoleBadge
	portal      service.PortalView
	assignments []model.RoleAssignment
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		larps:      make(map[string]model.Larp),
		runs:       make(map[string]model.Run),
		roles:      make(map[string]model.Role),
		rolesByTok: make(map[string]model.Role),
	}
}

func (m *mockDependencies) CreateLarp(ctx context.Context, l model.Larp) (model.Larp, error) {
	l.ID = "larp-1"
	m.larps[l.ID] = l
	return l, nil
}

func (m *mockDependencies) CreateRun(ctx context.Context, r model.Run) (model.Run, error) {
	if _, ok := m.larps[r.LarpID]; !ok {
		return model.Run{}, repository.ErrBadReference
	}
	r.ID = "run-1"
	m.runs[r.ID] = r
	return r, nil
}

func (m *mockDependencies) CreateRole(ctx context.Context, r model.Role) (model.Role, error) {
	r.ID = "role-1"
	r.Token = "token-1"
	m.roles[r.ID] = r
	m.rolesByTok[r.Token] = r
	return r, nil
}

func (m *mockDependencies) CreateDocument(ctx context.Context, d model.Document) (model.Document, error) {
	d.ID = "doc-1"
	return d, nil
}

func (m *mockDependencies) CreateScene(ctx context.Context, s model.Scene) (model.Scene, error) {
	s.ID = "scene-1"
	return s, nil
}

func (m *mockDependencies) CreateScheduleEvent(ctx context.Context, e model.ScheduleEvent) (model.ScheduleEvent, error) {
	e.ID = "event-1"
	return e, nil
}

func (m *mockDependencies) PutAssignment(ctx context.Context, a model.RoleAssignment) error {
	if _, ok := m.runs[a.RunID]; !ok {
		return repository.ErrBadReference
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *mockDependencies) ScheduleGrid(ctx context.Context, runID string, day int) (service.Grid, error) {
	if _, ok := m.runs[runID]; !ok {
		return service.Grid{}, repository.ErrNotFound
	}
	return m.grid, nil
}

func (m *mockDependencies) Conflicts(ctx context.Context, runID string) ([]model.PerformerConflict, error) {
	if _, ok := m.runs[runID]; !ok {
		return nil, repository.ErrNotFound
	}
	return m.conflicts, nil
}

func (m *mockDependencies) RolesWithBadges(ctx context.Context, runID string) ([]service.RoleBadge, error) {
	if _, ok := m.runs[runID]; !ok {
		return nil, repository.ErrNotFound
	}
	return m.badges, nil
}

func (m *mockDependencies) Portal(ctx context.Context, token string) (service.PortalView, error) {
	if _, ok := m.rolesByTok[token]; !ok {
		return service.PortalView{}, repository.ErrNotFound
	}
	return m.portal, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	statsProvider := &mockStatsProvider{stats: map[string]interface{}{"runs": 1}}
	server := api.NewServer(deps, statsProvider, 14)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("Then health endpoint should be accessible", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats endpoint should return the provider's map", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "runs")
		})

		Convey("And dashboard endpoint should serve HTML", func() {
			w := get(mux, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Greenroom Dashboard")
		})
	})
}

func TestAdminEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When posting a larp", func() {
			w := postJSON(mux, "POST", "/larps", `{"title":"Winter Court"}`)

			Convey("Then it should return 201 with an ID", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var larp model.Larp
				So(json.Unmarshal(w.Body.Bytes(), &larp), ShouldBeNil)
				So(larp.ID, ShouldEqual, "larp-1")
			})
		})

		Convey("When posting a larp without a title", func() {
			w := postJSON(mux, "POST", "/larps", `{}`)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting malformed JSON", func() {
			w := postJSON(mux, "POST", "/larps", `{"title":`)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting a run for an unknown larp", func() {
			w := postJSON(mux, "POST", "/runs", `{"larp_id":"nope","title":"Run 1"}`)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting a role", func() {
			w := postJSON(mux, "POST", "/roles", `{"larp_id":"larp-1","name":"Jana"}`)

			Convey("Then the response should include the portal token", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var role model.Role
				So(json.Unmarshal(w.Body.Bytes(), &role), ShouldBeNil)
				So(role.Token, ShouldEqual, "token-1")
			})
		})

		Convey("When posting a scene with a malformed start time", func() {
			w := postJSON(mux, "POST", "/scenes",
				`{"run_id":"r","role_id":"x","day_number":1,"start_time":"25:99","duration_min":30}`)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting a scene with a non-positive duration", func() {
			w := postJSON(mux, "POST", "/scenes",
				`{"run_id":"r","role_id":"x","day_number":1,"start_time":"14:00","duration_min":0}`)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting a valid scene", func() {
			w := postJSON(mux, "POST", "/scenes",
				`{"run_id":"r","role_id":"x","day_number":1,"start_time":"14:00:30","duration_min":60,"title":"Duel"}`)

			Convey("Then it should return 201", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When posting a schedule event", func() {
			w := postJSON(mux, "POST", "/schedule-events",
				`{"run_id":"r","day_number":2,"start_time":"09:00","duration_min":45,"kind":"workshop","title":"Safety brief"}`)

			Convey("Then it should return 201", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
			})
		})
	})
}

func TestAssignmentEndpoint(t *testing.T) {
	Convey("Given a server with an existing run", t, func() {
		deps := newMockDependencies()
		deps.runs["run-1"] = model.Run{ID: "run-1"}
		mux := newTestMux(deps)

		Convey("When staffing a role", func() {
			w := postJSON(mux, "PUT", "/assignments",
				`{"run_id":"run-1","role_id":"role-1","performer":"Jana"}`)

			Convey("Then the assignment should be stored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.assignments, ShouldHaveLength, 1)
				So(deps.assignments[0].Performer, ShouldEqual, "Jana")
			})
		})

		Convey("When unstaffing with a blank performer", func() {
			w := postJSON(mux, "PUT", "/assignments",
				`{"run_id":"run-1","role_id":"role-1","performer":""}`)

			Convey("Then it should still return 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When omitting the role", func() {
			w := postJSON(mux, "PUT", "/assignments", `{"run_id":"run-1"}`)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRunViews(t *testing.T) {
	Convey("Given a server with an existing run", t, func() {
		deps := newMockDependencies()
		deps.runs["run-1"] = model.Run{ID: "run-1"}
		deps.grid = service.Grid{RunID: "run-1", DayNumber: 1, LaneCount: 2}
		deps.conflicts = []model.PerformerConflict{{Performer: "Jana", DayNumber: 1}}
		deps.badges = []service.RoleBadge{{Role: model.Role{ID: "role-1", Name: "Jana's role"}, HasConflict: true}}
		mux := newTestMux(deps)

		Convey("When fetching the schedule grid", func() {
			w := get(mux, "/runs/run-1/schedule?day=1")

			Convey("Then it should return the grid", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var grid service.Grid
				So(json.Unmarshal(w.Body.Bytes(), &grid), ShouldBeNil)
				So(grid.LaneCount, ShouldEqual, 2)
			})
		})

		Convey("When fetching the schedule without a day", func() {
			w := get(mux, "/runs/run-1/schedule")

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching a day past the cap", func() {
			w := get(mux, "/runs/run-1/schedule?day=99")

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching conflicts", func() {
			w := get(mux, "/runs/run-1/conflicts")

			Convey("Then it should return the conflict list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Jana")
			})
		})

		Convey("When fetching role badges", func() {
			w := get(mux, "/runs/run-1/roles")

			Convey("Then it should return badge entries", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "has_conflict")
			})
		})

		Convey("When fetching views of an unknown run", func() {
			w := get(mux, "/runs/missing/conflicts")

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When fetching an unknown subresource", func() {
			w := get(mux, "/runs/run-1/unknown")

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestResponseWireFormat(t *testing.T) {
	Convey("Given a server with populated run views", t, func() {
		deps := newMockDependencies()
		deps.runs["run-1"] = model.Run{ID: "run-1"}
		deps.rolesByTok["token-1"] = model.Role{ID: "role-1", Token: "token-1"}
		deps.grid = service.Grid{
			RunID:     "run-1",
			DayNumber: 1,
			LaneCount: 1,
			Cells: []service.GridCell{{
				Event: model.ScheduleEvent{
					ID:          "event-1",
					RunID:       "run-1",
					DayNumber:   1,
					StartTime:   "09:00",
					DurationMin: 30,
					Kind:        "workshop",
					Title:       "Safety brief",
				},
				Lane: 0,
			}},
		}
		deps.conflicts = []model.PerformerConflict{{
			Performer: "Jana", DayNumber: 1,
			RoleA: "role-1", RoleB: "role-2",
			SceneA: "scene-1", SceneB: "scene-2",
			StartA: "14:00", EndA: "15:00", StartB: "14:30", EndB: "15:00",
		}}
		deps.portal = service.PortalView{
			Role:      model.Role{ID: "role-1", LarpID: "larp-1", Name: "The Herald", Token: "token-1"},
			Documents: []model.Document{{ID: "doc-1", RoleID: "role-1", Title: "Brief", Body: "text"}},
			Scenes: []model.Scene{{
				ID: "scene-1", RunID: "run-1", RoleID: "role-1",
				DayNumber: 1, StartTime: "14:00", DurationMin: 60, Title: "Duel",
			}},
			HasConflict: true,
		}
		mux := newTestMux(deps)

		Convey("When fetching the schedule grid", func() {
			w := get(mux, "/runs/run-1/schedule?day=1")
			body := w.Body.String()

			Convey("Then event fields should serialize as snake_case keys", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, `"run_id"`)
				So(body, ShouldContainSubstring, `"day_number"`)
				So(body, ShouldContainSubstring, `"lane_count"`)
				So(body, ShouldContainSubstring, `"start_time":"09:00"`)
				So(body, ShouldContainSubstring, `"duration_min":30`)
				So(body, ShouldContainSubstring, `"kind":"workshop"`)
				So(body, ShouldNotContainSubstring, `"StartTime"`)
				So(body, ShouldNotContainSubstring, `"DurationMin"`)
			})
		})

		Convey("When fetching conflicts", func() {
			w := get(mux, "/runs/run-1/conflicts")
			body := w.Body.String()

			Convey("Then pair fields should serialize as snake_case keys", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, `"role_a":"role-1"`)
				So(body, ShouldContainSubstring, `"scene_b":"scene-2"`)
				So(body, ShouldContainSubstring, `"start_a":"14:00"`)
				So(body, ShouldContainSubstring, `"end_b":"15:00"`)
			})
		})

		Convey("When fetching the portal", func() {
			w := get(mux, "/portal/token-1")
			body := w.Body.String()

			Convey("Then role, document, and scene fields should serialize as snake_case keys", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, `"larp_id":"larp-1"`)
				So(body, ShouldContainSubstring, `"role_id":"role-1"`)
				So(body, ShouldContainSubstring, `"start_time":"14:00"`)
				So(body, ShouldContainSubstring, `"has_conflict":true`)
				So(body, ShouldNotContainSubstring, `"LarpID"`)
				So(body, ShouldNotContainSubstring, `"RoleID"`)
			})
		})
	})
}

func TestPortalEndpoint(t *testing.T) {
	Convey("Given a server with a tokened role", t, func() {
		deps := newMockDependencies()
		deps.rolesByTok["token-1"] = model.Role{ID: "role-1", Token: "token-1"}
		deps.portal = service.PortalView{
			Role:        model.Role{ID: "role-1", Name: "Jana's role"},
			HasConflict: true,
		}
		mux := newTestMux(deps)

		Convey("When fetching the portal by token", func() {
			w := get(mux, "/portal/token-1")

			Convey("Then it should return the view", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view service.PortalView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.HasConflict, ShouldBeTrue)
			})
		})

		Convey("When fetching with an unknown token", func() {
			w := get(mux, "/portal/bogus")

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the token is empty", func() {
			w := get(mux, "/portal/")

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
