package seeder

import "time"

// Config holds configuration for the demo seed run
type Config struct {
	BaseURL       string        // Base URL of the service
	Larps         int           // Number of larps to create
	RunsPerLarp   int           // Number of runs per larp
	RolesPerLarp  int           // Number of roles per larp
	ScenesPerRole int           // Number of scenes per role per run
	Days          int           // Number of schedule days per run
	Performers    int           // Size of the performer pool
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for the generated fixture
	LogFile       string        // Log file for seed output
	Verbose       bool          // Enable verbose logging
}

// Larp mirrors the service's larp resource.
type Larp struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RunInfo mirrors the service's run resource.
type RunInfo struct {
	ID     string `json:"id"`
	LarpID string `json:"larp_id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
}

// Role mirrors the service's role resource.
type Role struct {
	ID     string `json:"id"`
	LarpID string `json:"larp_id"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// Scene mirrors the service's scene resource.
type Scene struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	RoleID      string `json:"role_id"`
	DayNumber   int    `json:"day_number"`
	StartTime   string `json:"start_time"`
	DurationMin int    `json:"duration_min"`
	Title       string `json:"title"`
	PreShow     bool   `json:"pre_show"`
}

// Assignment mirrors the service's role assignment resource.
type Assignment struct {
	RunID     string `json:"run_id"`
	RoleID    string `json:"role_id"`
	Performer string `json:"performer"`
}

// GridCell mirrors one placed event in the schedule grid response.
type GridCell struct {
	Event struct {
		ID          string `json:"id"`
		StartTime   string `json:"start_time"`
		DurationMin int    `json:"duration_min"`
		Title       string `json:"title"`
	} `json:"event"`
	Lane int `json:"lane"`
}

// Grid mirrors the schedule grid response.
type Grid struct {
	RunID     string     `json:"run_id"`
	DayNumber int        `json:"day_number"`
	LaneCount int        `json:"lane_count"`
	Cells     []GridCell `json:"cells"`
}

// Conflict mirrors one double-booking record.
type Conflict struct {
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

// Stats holds seed run statistics
type Stats struct {
	LarpsCreated       int
	RunsCreated        int
	RolesCreated       int
	ScenesCreated      int
	ScenesFailed       int
	AssignmentsStaffed int
	GridsVerified      int
	ConflictsFound     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
