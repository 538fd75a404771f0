package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Send performs a request with a JSON body using the given method
func (c *HTTPClient) Send(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// createResource POSTs a body and decodes the created resource into out.
func createResource(ctx context.Context, client *HTTPClient, url string, body, out interface{}) error {
	resp, err := client.Send(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusCreated {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := unmarshalJSON(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// SeededLarp tracks the server-assigned IDs for one larp of the plan.
type SeededLarp struct {
	Larp  Larp
	Runs  []RunInfo
	Roles []Role
}

// seedStructure creates larps, runs and roles sequentially. These are
// small in number and later steps need their server-assigned IDs.
func seedStructure(ctx context.Context, config *Config, plan *Plan, stats *Stats) ([]SeededLarp, error) {
	client := newHTTPClient(config.Timeout)
	seeded := make([]SeededLarp, 0, len(plan.Larps))

	for _, lp := range plan.Larps {
		var larp Larp
		if err := createResource(ctx, client, config.BaseURL+"/larps",
			map[string]string{"title": lp.Title}, &larp); err != nil {
			return nil, fmt.Errorf("create larp %q: %w", lp.Title, err)
		}
		stats.LarpsCreated++

		sl := SeededLarp{Larp: larp}
		for _, rp := range lp.Runs {
			var run RunInfo
			if err := createResource(ctx, client, config.BaseURL+"/runs",
				map[string]string{"larp_id": larp.ID, "title": rp.Title, "date": rp.Date}, &run); err != nil {
				return nil, fmt.Errorf("create run %q: %w", rp.Title, err)
			}
			stats.RunsCreated++
			sl.Runs = append(sl.Runs, run)
		}
		for _, role := range lp.Roles {
			var created Role
			if err := createResource(ctx, client, config.BaseURL+"/roles",
				map[string]string{"larp_id": larp.ID, "name": role.Name}, &created); err != nil {
				return nil, fmt.Errorf("create role %q: %w", role.Name, err)
			}
			stats.RolesCreated++
			sl.Roles = append(sl.Roles, created)
		}
		seeded = append(seeded, sl)
	}

	log.Printf("Seeded %d larps, %d runs, %d roles",
		stats.LarpsCreated, stats.RunsCreated, stats.RolesCreated)
	return seeded, nil
}

// sceneJob is one scene create request for the worker pool.
type sceneJob struct {
	runID  string
	roleID string
	scene  ScenePlan
}

// seedScenes creates all scenes concurrently using a worker pool.
func seedScenes(ctx context.Context, config *Config, plan *Plan, seeded []SeededLarp, stats *Stats) error {
	jobs := buildSceneJobs(plan, seeded)
	log.Printf("Creating %d scenes with %d workers...", len(jobs), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/scenes"

	var (
		created int64
		failed  int64
	)

	jobChan := make(chan sceneJob, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					body := map[string]interface{}{
						"run_id":       job.runID,
						"role_id":      job.roleID,
						"day_number":   job.scene.Day,
						"start_time":   job.scene.StartTime,
						"duration_min": job.scene.DurationMin,
						"title":        job.scene.Title,
						"pre_show":     job.scene.PreShow,
					}
					if err := createResource(ctx, client, url, body, nil); err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("scene create failed: %v", err)
						}
						continue
					}
					atomic.AddInt64(&created, 1)
				}
			}
		}()
	}

	// Send jobs to workers
	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()

	stats.ScenesCreated = int(atomic.LoadInt64(&created))
	stats.ScenesFailed = int(atomic.LoadInt64(&failed))
	log.Printf("Scene creation completed: created %d, failed %d",
		stats.ScenesCreated, stats.ScenesFailed)

	if stats.ScenesFailed > 0 {
		return fmt.Errorf("%d scene creates failed", stats.ScenesFailed)
	}
	return nil
}

// buildSceneJobs flattens the plan into one job per scene per run.
func buildSceneJobs(plan *Plan, seeded []SeededLarp) []sceneJob {
	var jobs []sceneJob
	for li, lp := range plan.Larps {
		for _, run := range seeded[li].Runs {
			for ri, role := range lp.Roles {
				for _, scene := range role.Scenes {
					jobs = append(jobs, sceneJob{
						runID:  run.ID,
						roleID: seeded[li].Roles[ri].ID,
						scene:  scene,
					})
				}
			}
		}
	}
	return jobs
}

// seedAssignments staffs every role on every run with its planned performer.
func seedAssignments(ctx context.Context, config *Config, plan *Plan, seeded []SeededLarp, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/assignments"

	for li, lp := range plan.Larps {
		for _, run := range seeded[li].Runs {
			for ri, role := range lp.Roles {
				body := Assignment{
					RunID:     run.ID,
					RoleID:    seeded[li].Roles[ri].ID,
					Performer: role.Performer,
				}
				resp, err := client.Send(ctx, http.MethodPut, url, body)
				if err != nil {
					return fmt.Errorf("staff role %q: %w", role.Name, err)
				}
				data, err := readResponseBody(resp)
				if err != nil {
					return fmt.Errorf("staff role %q: %w", role.Name, err)
				}
				if resp.StatusCode != StatusOK {
					return fmt.Errorf("staff role %q: HTTP %d: %s", role.Name, resp.StatusCode, string(data))
				}
				stats.AssignmentsStaffed++
			}
		}
	}

	log.Printf("Staffed %d role assignments", stats.AssignmentsStaffed)
	return nil
}
