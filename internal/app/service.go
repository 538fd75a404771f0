// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/okian/greenroom/internal/adapters/mq/queue"
	workerpool "github.com/okian/greenroom/internal/adapters/mq/worker"
	repository "github.com/okian/greenroom/internal/adapters/repository"
	"github.com/okian/greenroom/internal/domain/conflict"
	"github.com/okian/greenroom/internal/domain/dedupe"
	"github.com/okian/greenroom/internal/domain/lanes"
	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/internal/domain/wallclock"
	"github.com/okian/greenroom/pkg/logger"
	"github.com/okian/greenroom/pkg/metrics"
)

// GridCell is one schedule event placed on its display lane.
type GridCell struct {
	Event model.ScheduleEvent `json:"event"`
	Lane  int                 `json:"lane"`
}

// Grid is one day of a run's schedule, packed into lanes.
type Grid struct {
	RunID     string     `json:"run_id"`
	DayNumber int        `json:"day_number"`
	LaneCount int        `json:"lane_count"`
	Cells     []GridCell `json:"cells"`
}

// RoleBadge is a role plus its conflict warning flag.
type RoleBadge struct {
	Role        model.Role `json:"role"`
	HasConflict bool       `json:"has_conflict"`
}

// PortalView is the token-gated read-only package for one role.
type PortalView struct {
	Role        model.Role       `json:"role"`
	Documents   []model.Document `json:"documents"`
	Scenes      []model.Scene    `json:"scenes"`
	HasConflict bool             `json:"has_conflict"`
}

// Service implements the API dependencies for the portal.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	allocator lanes.Allocator
	detector  conflict.Detector
	coalescer dedupe.Coalescer
	jobQueue  jobqueue.Queue
	pool      *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	maxLanes       int
	includePreShow bool
	seedFile       string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  4096,
		maxLanes:    0,
		logger:      nil, // resolved on Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting portal service...")

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	detectorOpts := []conflict.Option{}
	if s.includePreShow {
		detectorOpts = append(detectorOpts, conflict.WithPreShow())
	}
	s.detector = conflict.NewPairwiseDetector(detectorOpts...)
	allocatorOpts := []lanes.Option{}
	if s.maxLanes > 0 {
		allocatorOpts = append(allocatorOpts, lanes.WithMaxLanes(s.maxLanes))
	}
	s.allocator = lanes.NewGreedyAllocator(allocatorOpts...)
	s.coalescer = dedupe.NewInMemoryCoalescer(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, s.store, s.detector, s.store, s.coalescer)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "portal service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	if s.seedFile != "" {
		if err := s.loadSeed(ctx, s.seedFile); err != nil {
			return fmt.Errorf("load seed file %s: %w", s.seedFile, err)
		}
	}

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping portal service...")

	// Close the queue first so workers drain and exit.
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "portal service stopped")
}

// CreateLarp stores a new LARP definition.
func (s *Service) CreateLarp(ctx context.Context, l model.Larp) (model.Larp, error) {
	return s.store.CreateLarp(ctx, l)
}

// CreateRun stores a new run.
func (s *Service) CreateRun(ctx context.Context, r model.Run) (model.Run, error) {
	return s.store.CreateRun(ctx, r)
}

// CreateRole stores a new role.
func (s *Service) CreateRole(ctx context.Context, r model.Role) (model.Role, error) {
	return s.store.CreateRole(ctx, r)
}

// CreateDocument stores a new role document.
func (s *Service) CreateDocument(ctx context.Context, d model.Document) (model.Document, error) {
	return s.store.CreateDocument(ctx, d)
}

// CreateScene validates and stores a scene, then queues a badge
// recompute for its run.
func (s *Service) CreateScene(ctx context.Context, sc model.Scene) (model.Scene, error) {
	if err := validateTimed(sc.StartTime, sc.DurationMin, sc.DayNumber); err != nil {
		return model.Scene{}, err
	}
	created, err := s.store.CreateScene(ctx, sc)
	if err != nil {
		return model.Scene{}, err
	}
	s.queueRecompute(ctx, created.RunID)
	return created, nil
}

// CreateScheduleEvent validates and stores a display event.
func (s *Service) CreateScheduleEvent(ctx context.Context, e model.ScheduleEvent) (model.ScheduleEvent, error) {
	if err := validateTimed(e.StartTime, e.DurationMin, e.DayNumber); err != nil {
		return model.ScheduleEvent{}, err
	}
	return s.store.CreateScheduleEvent(ctx, e)
}

// PutAssignment staffs a role for a run, then queues a badge recompute.
func (s *Service) PutAssignment(ctx context.Context, a model.RoleAssignment) error {
	if err := s.store.PutAssignment(ctx, a); err != nil {
		return err
	}
	s.queueRecompute(ctx, a.RunID)
	return nil
}

// ScheduleGrid computes the lane layout for one day of a run's schedule.
// Nothing is cached: every read repacks from the stored events.
func (s *Service) ScheduleGrid(ctx context.Context, runID string, day int) (Grid, error) {
	if _, err := s.store.Run(ctx, runID); err != nil {
		return Grid{}, err
	}
	events, err := s.store.EventsByRunDay(ctx, runID, day)
	if err != nil {
		return Grid{}, err
	}

	laneEvents := make([]lanes.Event, len(events))
	byID := make(map[string]model.ScheduleEvent, len(events))
	for i, e := range events {
		laneEvents[i] = lanes.Event{ID: e.ID, Start: e.StartTime, DurationMin: e.DurationMin}
		byID[e.ID] = e
	}

	start := time.Now()
	assignments, err := s.allocator.Assign(ctx, laneEvents)
	if err != nil {
		return Grid{}, err
	}
	metrics.RecordLaneGrid(lanes.LaneCount(assignments), float64(time.Since(start).Microseconds())/1000.0)

	cells := make([]GridCell, len(assignments))
	for i, a := range assignments {
		cells[i] = GridCell{Event: byID[a.ID], Lane: a.Lane}
	}
	return Grid{
		RunID:     runID,
		DayNumber: day,
		LaneCount: lanes.LaneCount(assignments),
		Cells:     cells,
	}, nil
}

// Conflicts runs the detector over a run's current scenes and staffing.
func (s *Service) Conflicts(ctx context.Context, runID string) ([]model.PerformerConflict, error) {
	if _, err := s.store.Run(ctx, runID); err != nil {
		return nil, err
	}
	scenes, err := s.store.ScenesByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.AssignmentsByRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	conflicts, err := s.detector.Detect(ctx, scenes, assignments)
	if err != nil {
		return nil, err
	}
	metrics.RecordConflictScan(len(conflicts), float64(time.Since(start).Microseconds())/1000.0)
	return conflicts, nil
}

// RolesWithBadges lists a run's LARP roles with their conflict warning
// flags. The badge snapshot is served when the worker pipeline has
// produced one; a cold read computes it inline.
func (s *Service) RolesWithBadges(ctx context.Context, runID string) ([]RoleBadge, error) {
	run, err := s.store.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	roles, err := s.store.RolesByLarp(ctx, run.LarpID)
	if err != nil {
		return nil, err
	}

	badges, ok := s.store.ConflictBadges(ctx, runID)
	if !ok {
		conflicts, cerr := s.Conflicts(ctx, runID)
		if cerr != nil {
			return nil, cerr
		}
		badges = conflict.RoleBadges(conflicts)
		s.store.SetConflictBadges(ctx, runID, badges)
	}

	out := make([]RoleBadge, len(roles))
	for i, r := range roles {
		out[i] = RoleBadge{Role: r, HasConflict: badges[r.ID]}
	}
	return out, nil
}

// Portal resolves a token-gated read-only view for one role.
func (s *Service) Portal(ctx context.Context, token string) (PortalView, error) {
	role, err := s.store.RoleByToken(ctx, token)
	if err != nil {
		return PortalView{}, err
	}
	docs, err := s.store.DocumentsByRole(ctx, role.ID)
	if err != nil {
		return PortalView{}, err
	}
	scenes, err := s.store.ScenesByRole(ctx, role.ID)
	if err != nil {
		return PortalView{}, err
	}

	hasConflict := false
	seenRuns := make(map[string]bool)
	for _, sc := range scenes {
		if seenRuns[sc.RunID] {
			continue
		}
		seenRuns[sc.RunID] = true
		if badges, ok := s.store.ConflictBadges(ctx, sc.RunID); ok && badges[role.ID] {
			hasConflict = true
			break
		}
	}

	return PortalView{
		Role:        role,
		Documents:   docs,
		Scenes:      scenes,
		HasConflict: hasConflict,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		runs, roles, scenes, assignments := s.store.Counts(ctx)

		stats["queueLength"] = queueLen
		stats["pendingRecomputes"] = s.coalescer.Size()
		stats["runs"] = runs
		stats["roles"] = roles
		stats["scenes"] = scenes
		stats["assignments"] = assignments

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
		metrics.UpdateStoreCounts(runs, roles, scenes, assignments)
	}

	return stats
}

// queueRecompute schedules a badge refresh for a run, coalescing with
// any job already pending for it.
func (s *Service) queueRecompute(ctx context.Context, runID string) {
	if s.coalescer.SeenAndRecord(ctx, runID) {
		metrics.RecordRecomputeCoalesced()
		return
	}
	if !s.jobQueue.Enqueue(ctx, model.RecomputeJob{RunID: runID}) {
		// Roll back the pending mark so a later mutation can retry.
		s.coalescer.Unrecord(ctx, runID)
		s.logger.Warn(ctx, "recompute queue full; badge refresh skipped",
			logger.String("run_id", runID),
		)
		return
	}
	metrics.RecordRecomputeQueued()
}

// validateTimed rejects malformed timed records at the boundary so the
// pure core can assume well-formed input.
func validateTimed(start string, durationMin, day int) error {
	if _, err := wallclock.ParseMinutes(start); err != nil {
		return err
	}
	if durationMin <= 0 {
		return fmt.Errorf("%w: duration %d", ErrBadDuration, durationMin)
	}
	if day < 1 {
		return fmt.Errorf("%w: day number %d", ErrBadDay, day)
	}
	return nil
}
