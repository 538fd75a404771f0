package seeder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/greenroom/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Greenroom Demo Seeder
=====================

Populates a running greenroom portal with demo larps, runs, roles,
scenes and performer assignments, then verifies the computed schedule
grids and conflict reports.

Usage:
  go run cmd/seed/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -larps int
        Number of larps to create (default 2)
  -runs int
        Number of runs per larp (default 1)
  -roles int
        Number of roles per larp (default 12)
  -scenes int
        Number of scenes per role per run (default 3)
  -days int
        Number of schedule days per run (default 2)
  -performers int
        Size of the performer pool; fewer performers than roles
        forces double-bookings (default roles/2)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the generated fixture (default: seed_fixture_TIMESTAMP.json)
  -log string
        Log file for seed output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed/main.go

  # Larger cast against a remote instance
  go run cmd/seed/main.go -roles 40 -scenes 5 -url http://staging:9080

  # Conflict-free staffing (one performer per role)
  go run cmd/seed/main.go -roles 10 -performers 10
`)
}
