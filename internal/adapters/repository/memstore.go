package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/pkg/metrics"
)

// MemStore is an in-memory Store implementation. Insertion order is kept
// per collection so list reads are deterministic without timestamps.
type MemStore struct {
	mu sync.RWMutex

	larps map[string]model.Larp
	runs  map[string]model.Run
	roles map[string]model.Role

	roleByToken map[string]string // token -> role id

	documents      []model.Document
	scenes         []model.Scene
	scheduleEvents []model.ScheduleEvent
	assignments    []model.RoleAssignment

	badges map[string]map[string]bool // run id -> conflicted role ids
}

// NewMemStore creates an empty in-memory store with configuration options.
func NewMemStore(opts ...StoreOption) *MemStore {
	s := &MemStore{
		larps:       make(map[string]model.Larp),
		runs:        make(map[string]model.Run),
		roles:       make(map[string]model.Role),
		roleByToken: make(map[string]string),
		badges:      make(map[string]map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLarp stores a LARP definition, minting an id when absent.
func (s *MemStore) CreateLarp(_ context.Context, l model.Larp) (model.Larp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(l.Title) == "" {
		return model.Larp{}, ErrInvalidRecord
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.larps[l.ID] = l
	return l, nil
}

// Larp returns a LARP by id.
func (s *MemStore) Larp(_ context.Context, id string) (model.Larp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.larps[id]
	if !ok {
		return model.Larp{}, ErrNotFound
	}
	return l, nil
}

// CreateRun stores a run under an existing LARP.
func (s *MemStore) CreateRun(_ context.Context, r model.Run) (model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.larps[r.LarpID]; !ok {
		return model.Run{}, ErrBadReference
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.runs[r.ID] = r
	s.updateCounts()
	return r, nil
}

// Run returns a run by id.
func (s *MemStore) Run(_ context.Context, id string) (model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return model.Run{}, ErrNotFound
	}
	return r, nil
}

// CreateRole stores a role under an existing LARP, minting a portal token
// when absent.
func (s *MemStore) CreateRole(_ context.Context, r model.Role) (model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.larps[r.LarpID]; !ok {
		return model.Role{}, ErrBadReference
	}
	if strings.TrimSpace(r.Name) == "" {
		return model.Role{}, ErrInvalidRecord
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Token == "" {
		r.Token = uuid.NewString()
	}
	if owner, taken := s.roleByToken[r.Token]; taken && owner != r.ID {
		return model.Role{}, ErrTokenTaken
	}
	s.roles[r.ID] = r
	s.roleByToken[r.Token] = r.ID
	s.updateCounts()
	return r, nil
}

// RolesByLarp lists a LARP's roles sorted by name.
func (s *MemStore) RolesByLarp(_ context.Context, larpID string) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Role, 0)
	for _, r := range s.roles {
		if r.LarpID == larpID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// RoleByToken resolves a portal access token.
func (s *MemStore) RoleByToken(_ context.Context, token string) (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.roleByToken[token]
	if !ok {
		return model.Role{}, ErrNotFound
	}
	return s.roles[id], nil
}

// CreateDocument stores a document under an existing role.
func (s *MemStore) CreateDocument(_ context.Context, d model.Document) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[d.RoleID]; !ok {
		return model.Document{}, ErrBadReference
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.documents = append(s.documents, d)
	return d, nil
}

// DocumentsByRole lists a role's documents in insertion order.
func (s *MemStore) DocumentsByRole(_ context.Context, roleID string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0)
	for _, d := range s.documents {
		if d.RoleID == roleID {
			out = append(out, d)
		}
	}
	return out, nil
}

// CreateScene stores a scene under an existing run and role.
func (s *MemStore) CreateScene(_ context.Context, sc model.Scene) (model.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[sc.RunID]; !ok {
		return model.Scene{}, ErrBadReference
	}
	if _, ok := s.roles[sc.RoleID]; !ok {
		return model.Scene{}, ErrBadReference
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	s.scenes = append(s.scenes, sc)
	s.updateCounts()
	return sc, nil
}

// ScenesByRun lists a run's scenes in insertion order.
func (s *MemStore) ScenesByRun(_ context.Context, runID string) ([]model.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Scene, 0)
	for _, sc := range s.scenes {
		if sc.RunID == runID {
			out = append(out, sc)
		}
	}
	return out, nil
}

// ScenesByRole lists a role's scenes in insertion order.
func (s *MemStore) ScenesByRole(_ context.Context, roleID string) ([]model.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Scene, 0)
	for _, sc := range s.scenes {
		if sc.RoleID == roleID {
			out = append(out, sc)
		}
	}
	return out, nil
}

// CreateScheduleEvent stores a display event under an existing run.
func (s *MemStore) CreateScheduleEvent(_ context.Context, e model.ScheduleEvent) (model.ScheduleEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[e.RunID]; !ok {
		return model.ScheduleEvent{}, ErrBadReference
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.scheduleEvents = append(s.scheduleEvents, e)
	return e, nil
}

// EventsByRunDay lists one day of a run's schedule events in insertion order.
func (s *MemStore) EventsByRunDay(_ context.Context, runID string, day int) ([]model.ScheduleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ScheduleEvent, 0)
	for _, e := range s.scheduleEvents {
		if e.RunID == runID && e.DayNumber == day {
			out = append(out, e)
		}
	}
	return out, nil
}

// PutAssignment staffs a role for a run. An existing record for the same
// run and role is replaced in place so insertion order stays stable.
func (s *MemStore) PutAssignment(_ context.Context, a model.RoleAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[a.RunID]; !ok {
		return ErrBadReference
	}
	if _, ok := s.roles[a.RoleID]; !ok {
		return ErrBadReference
	}
	for i, existing := range s.assignments {
		if existing.RunID == a.RunID && existing.RoleID == a.RoleID {
			s.assignments[i] = a
			return nil
		}
	}
	s.assignments = append(s.assignments, a)
	s.updateCounts()
	return nil
}

// AssignmentsByRun lists a run's role assignments in insertion order.
func (s *MemStore) AssignmentsByRun(_ context.Context, runID string) ([]model.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RoleAssignment, 0)
	for _, a := range s.assignments {
		if a.RunID == runID {
			out = append(out, a)
		}
	}
	return out, nil
}

// SetConflictBadges replaces the cached badge set for a run.
func (s *MemStore) SetConflictBadges(_ context.Context, runID string, roleIDs map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[string]bool, len(roleIDs))
	for id, v := range roleIDs {
		copied[id] = v
	}
	s.badges[runID] = copied
}

// ConflictBadges returns the cached badge set for a run.
func (s *MemStore) ConflictBadges(_ context.Context, runID string) (map[string]bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.badges[runID]
	if !ok {
		return nil, false
	}
	copied := make(map[string]bool, len(set))
	for id, v := range set {
		copied[id] = v
	}
	return copied, true
}

// Counts reports stored entity totals: runs, roles, scenes, assignments.
func (s *MemStore) Counts(_ context.Context) (int, int, int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.runs), len(s.roles), len(s.scenes), len(s.assignments)
}

// updateCounts refreshes entity gauges. Must be called with s.mu held.
func (s *MemStore) updateCounts() {
	metrics.UpdateStoreCounts(len(s.runs), len(s.roles), len(s.scenes), len(s.assignments))
}
