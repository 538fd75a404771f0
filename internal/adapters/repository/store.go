// Package repository defines the portal content store interface and errors.
package repository

import (
	"context"

	"github.com/okian/greenroom/internal/domain/model"
)

// Store provides read/write access to portal content. The core domain
// computations never touch it; callers fetch plain data here and hand it
// to the pure functions.
type Store interface {
	// CreateLarp stores a LARP definition, minting an id when absent.
	CreateLarp(ctx context.Context, l model.Larp) (model.Larp, error)
	// Larp returns a LARP by id. Returns ErrNotFound if unknown.
	Larp(ctx context.Context, id string) (model.Larp, error)

	// CreateRun stores a run under an existing LARP.
	CreateRun(ctx context.Context, r model.Run) (model.Run, error)
	// Run returns a run by id. Returns ErrNotFound if unknown.
	Run(ctx context.Context, id string) (model.Run, error)

	// CreateRole stores a role under an existing LARP. A portal token is
	// minted when absent.
	CreateRole(ctx context.Context, r model.Role) (model.Role, error)
	// RolesByLarp lists a LARP's roles sorted by name.
	RolesByLarp(ctx context.Context, larpID string) ([]model.Role, error)
	// RoleByToken resolves a portal access token. Returns ErrNotFound for
	// unknown tokens.
	RoleByToken(ctx context.Context, token string) (model.Role, error)

	// CreateDocument stores a document under an existing role.
	CreateDocument(ctx context.Context, d model.Document) (model.Document, error)
	// DocumentsByRole lists a role's documents in insertion order.
	DocumentsByRole(ctx context.Context, roleID string) ([]model.Document, error)

	// CreateScene stores a scene under an existing run and role.
	CreateScene(ctx context.Context, s model.Scene) (model.Scene, error)
	// ScenesByRun lists a run's scenes in insertion order.
	ScenesByRun(ctx context.Context, runID string) ([]model.Scene, error)
	// ScenesByRole lists a role's scenes in insertion order.
	ScenesByRole(ctx context.Context, roleID string) ([]model.Scene, error)

	// CreateScheduleEvent stores a display event under an existing run.
	CreateScheduleEvent(ctx context.Context, e model.ScheduleEvent) (model.ScheduleEvent, error)
	// EventsByRunDay lists one day of a run's schedule events in
	// insertion order.
	EventsByRunDay(ctx context.Context, runID string, day int) ([]model.ScheduleEvent, error)

	// PutAssignment staffs a role for a run, replacing any existing
	// performer for that role and run.
	PutAssignment(ctx context.Context, a model.RoleAssignment) error
	// AssignmentsByRun lists a run's role assignments in insertion order.
	AssignmentsByRun(ctx context.Context, runID string) ([]model.RoleAssignment, error)

	// SetConflictBadges replaces the cached badge set for a run.
	SetConflictBadges(ctx context.Context, runID string, roleIDs map[string]bool)
	// ConflictBadges returns the cached badge set for a run; the second
	// result is false when no snapshot has been computed yet.
	ConflictBadges(ctx context.Context, runID string) (map[string]bool, bool)

	// Counts reports stored entity totals: runs, roles, scenes, assignments.
	Counts(ctx context.Context) (int, int, int, int)
}
