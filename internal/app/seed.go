package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/greenroom/internal/domain/model"
	"github.com/okian/greenroom/pkg/logger"
)

// seedFixture mirrors the JSON shape of a seed file: a full portal
// snapshot inserted in dependency order.
type seedFixture struct {
	Larps          []model.Larp           `json:"larps"`
	Runs           []model.Run            `json:"runs"`
	Roles          []model.Role           `json:"roles"`
	Documents      []model.Document       `json:"documents"`
	Scenes         []model.Scene          `json:"scenes"`
	ScheduleEvents []model.ScheduleEvent  `json:"schedule_events"`
	Assignments    []model.RoleAssignment `json:"assignments"`
}

// loadSeed inserts a JSON fixture through the normal create paths so all
// validation and recompute triggers apply.
func (s *Service) loadSeed(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var fixture seedFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, l := range fixture.Larps {
		if _, err := s.store.CreateLarp(ctx, l); err != nil {
			return fmt.Errorf("seed larp %q: %w", l.Title, err)
		}
	}
	for _, r := range fixture.Runs {
		if _, err := s.store.CreateRun(ctx, r); err != nil {
			return fmt.Errorf("seed run %q: %w", r.Title, err)
		}
	}
	for _, r := range fixture.Roles {
		if _, err := s.store.CreateRole(ctx, r); err != nil {
			return fmt.Errorf("seed role %q: %w", r.Name, err)
		}
	}
	for _, d := range fixture.Documents {
		if _, err := s.store.CreateDocument(ctx, d); err != nil {
			return fmt.Errorf("seed document %q: %w", d.Title, err)
		}
	}
	for _, sc := range fixture.Scenes {
		if _, err := s.CreateScene(ctx, sc); err != nil {
			return fmt.Errorf("seed scene %q: %w", sc.Title, err)
		}
	}
	for _, e := range fixture.ScheduleEvents {
		if _, err := s.CreateScheduleEvent(ctx, e); err != nil {
			return fmt.Errorf("seed schedule event %q: %w", e.Title, err)
		}
	}
	for _, a := range fixture.Assignments {
		if err := s.PutAssignment(ctx, a); err != nil {
			return fmt.Errorf("seed assignment %s/%s: %w", a.RunID, a.RoleID, err)
		}
	}

	s.logger.Info(ctx, "seed fixture loaded",
		logger.String("path", path),
		logger.Int("larps", len(fixture.Larps)),
		logger.Int("runs", len(fixture.Runs)),
		logger.Int("roles", len(fixture.Roles)),
		logger.Int("scenes", len(fixture.Scenes)),
	)
	return nil
}
