// Package model contains domain models passed between layers.
package model

// Larp is an event definition owned by an organizer.
type Larp struct {
	ID    string `json:"id"`    // unique id
	Title string `json:"title"` // display title
}

// Run is one dated instance of a LARP.
type Run struct {
	ID     string `json:"id"`      // unique id
	LarpID string `json:"larp_id"` // owning LARP
	Title  string `json:"title"`   // e.g., "Spring run 2026"
	Date   string `json:"date"`    // ISO date of day 1, informational only
}

// Document is a piece of per-role reading material.
type Document struct {
	ID     string `json:"id"`
	RoleID string `json:"role_id"`
	Title  string `json:"title"`
	Body   string `json:"body"` // plain text; rendering is out of scope
}

// Role is a player-character or performer slot ("CP") within a LARP.
// Token gates the read-only portal view for whoever plays the role.
type Role struct {
	ID     string `json:"id"`
	LarpID string `json:"larp_id"`
	Name   string `json:"name"`
	Token  string `json:"token"` // opaque portal access token
}

// Scene is a time-boxed in-game appearance of one role within a run.
// StartTime is wall-clock "HH:MM" or "HH:MM:SS"; DayNumber partitions the
// timeline so scenes on different days never interact.
type Scene struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	RoleID      string `json:"role_id"`
	DayNumber   int    `json:"day_number"`
	StartTime   string `json:"start_time"`
	DurationMin int    `json:"duration_min"`
	Title       string `json:"title"`
	PreShow     bool   `json:"pre_show"` // pre-show scenes are excluded from conflict detection
}

// ScheduleEvent is a generic timed display block on a run's schedule grid:
// an entrance, a meal, a transition, an announcement. The kind is opaque to
// lane allocation, which only needs start and duration.
type ScheduleEvent struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	DayNumber   int    `json:"day_number"`
	StartTime   string `json:"start_time"`
	DurationMin int    `json:"duration_min"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
}

// RoleAssignment staffs one role with one performer for one run.
type RoleAssignment struct {
	RunID     string `json:"run_id"`
	RoleID    string `json:"role_id"`
	Performer string `json:"performer"`
}

// PerformerConflict reports one overlapping pair of scenes played by the
// same performer on the same day. Both role ids are carried so callers can
// reduce the list to a badge set without re-joining scenes.
type PerformerConflict struct {
	Performer string `json:"performer"`
	DayNumber int    `json:"day_number"`
	RoleA     string `json:"role_a"`
	RoleB     string `json:"role_b"`
	SceneA    string `json:"scene_a"`
	SceneB    string `json:"scene_b"`
	StartA    string `json:"start_a"`
	EndA      string `json:"end_a"`
	StartB    string `json:"start_b"`
	EndB      string `json:"end_b"`
}

// RecomputeJob asks the worker pipeline to refresh a run's conflict badges.
type RecomputeJob struct {
	RunID string
}
