package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/greenroom/internal/seeder"
)

// Default configuration constants.
const (
	defaultLarps         = 2
	defaultRunsPerLarp   = 1
	defaultRolesPerLarp  = 12
	defaultScenesPerRole = 3
	defaultDays          = 2
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultSeedTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		larps      = flag.Int("larps", defaultLarps, "Number of larps to create")
		runs       = flag.Int("runs", defaultRunsPerLarp, "Number of runs per larp")
		roles      = flag.Int("roles", defaultRolesPerLarp, "Number of roles per larp")
		scenes     = flag.Int("scenes", defaultScenesPerRole, "Number of scenes per role per run")
		days       = flag.Int("days", defaultDays, "Number of schedule days per run")
		performers = flag.Int("performers", 0, "Performer pool size (default roles/2)")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for the generated fixture (default: seed_fixture_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for seed output (default: seed_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp()
		return
	}

	// Setup logging
	if err := seeder.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// A pool half the size of the cast forces double-bookings.
	pool := *performers
	if pool <= 0 {
		pool = *roles / 2
		if pool < 1 {
			pool = 1
		}
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	// Create seed configuration
	config := &seeder.Config{
		BaseURL:       *baseURL,
		Larps:         *larps,
		RunsPerLarp:   *runs,
		RolesPerLarp:  *roles,
		ScenesPerRole: *scenes,
		Days:          *days,
		Performers:    pool,
		Workers:       *workers,
		Timeout:       *timeout,
		OutputFile:    *outputFile,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	// Run the seed
	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		return
	}
}
