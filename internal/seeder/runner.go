package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/greenroom/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seed-and-verify cycle.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting greenroom demo seed",
		logger.String("baseURL", config.BaseURL),
		logger.Int("larps", config.Larps),
		logger.Int("rolesPerLarp", config.RolesPerLarp),
		logger.Int("scenesPerRole", config.ScenesPerRole),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the fixture plan
	plan := generatePlan(ctx, config)

	// Step 3: Create larps, runs and roles
	seeded, err := seedStructure(ctx, config, plan, stats)
	if err != nil {
		return fmt.Errorf("structure seeding failed: %w", err)
	}

	// Step 4: Create scenes concurrently
	if err := seedScenes(ctx, config, plan, seeded, stats); err != nil {
		return fmt.Errorf("scene seeding failed: %w", err)
	}

	// Step 5: Staff the cast
	if err := seedAssignments(ctx, config, plan, seeded, stats); err != nil {
		return fmt.Errorf("assignment seeding failed: %w", err)
	}

	// Step 6: Let the badge recompute pipeline settle
	logger.Get().Info(ctx, "waiting for badge recomputes to settle")
	time.Sleep(RecomputeSettleDelay)

	// Step 7: Verify grids and conflict reports
	if err := verifyRuns(ctx, config, seeded, stats); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	// Step 8: Spot-check the performer portal
	if err := verifyPortal(ctx, config, seeded); err != nil {
		return fmt.Errorf("portal check failed: %w", err)
	}

	// Step 9: Save the plan to file
	if err := savePlanToFile(ctx, config, plan); err != nil {
		logger.Get().Warn(ctx, "failed to save fixture to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePlanToFile saves the generated fixture plan to a JSON file.
func savePlanToFile(ctx context.Context, config *Config, plan *Plan) error {
	if len(plan.Larps) == 0 {
		return fmt.Errorf("no fixture to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "seed_fixture_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	logger.Get().Info(ctx, "fixture saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final seed statistics.
func displayFinalStats(stats *Stats) {
	var scenesPerSecond float64
	if stats.Duration > 0 {
		scenesPerSecond = float64(stats.ScenesCreated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("larpsCreated", stats.LarpsCreated),
		logger.Int("runsCreated", stats.RunsCreated),
		logger.Int("rolesCreated", stats.RolesCreated),
		logger.Int("scenesCreated", stats.ScenesCreated),
		logger.Int("scenesFailed", stats.ScenesFailed),
		logger.Int("assignmentsStaffed", stats.AssignmentsStaffed),
		logger.Int("gridsVerified", stats.GridsVerified),
		logger.Int("conflictsFound", stats.ConflictsFound),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("scenesPerSecond", scenesPerSecond))
}
