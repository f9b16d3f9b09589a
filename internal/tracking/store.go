package tracking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/evaluation"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/features"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/persistence"
)

const (
	statusRunning  = "running"
	statusFinished = "finished"
	statusFailed   = "failed"
)

// Store is a file-backed experiment tracker. Each run gets its own directory
// under <root>/<experiment>/<run_id> holding meta, params, metrics and
// artifacts. The registry guards concurrent access the same way the training
// CLI and any future server share it.
type Store struct {
	root   string
	logger *slog.Logger

	mu   sync.RWMutex
	runs map[string]*Run
}

func NewStore(trackingDir, experiment string, logger *slog.Logger) (*Store, error) {
	if experiment == "" {
		return nil, fmt.Errorf("experiment name must not be empty")
	}
	root := filepath.Join(trackingDir, experiment)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating tracking dir %s: %w", root, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		root:   root,
		logger: logger,
		runs:   make(map[string]*Run),
	}, nil
}

// Run is one tracked execution. Logged params and metrics accumulate in
// memory and flush to YAML when the run closes; figures, JSON blobs and the
// model write through to the artifacts directory immediately.
type Run struct {
	ID   string
	Name string

	dir     string
	started time.Time

	mu      sync.Mutex
	status  string
	params  map[string]any
	metrics map[string]float64
}

type runMeta struct {
	ID        string `yaml:"run_id"`
	Name      string `yaml:"name"`
	Status    string `yaml:"status"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time,omitempty"`
}

func (s *Store) StartRun(name string) (*Run, error) {
	run := &Run{
		ID:      uuid.NewString(),
		Name:    name,
		started: time.Now().UTC(),
		status:  statusRunning,
		params:  make(map[string]any),
		metrics: make(map[string]float64),
	}
	run.dir = filepath.Join(s.root, run.ID)

	if err := os.MkdirAll(filepath.Join(run.dir, "artifacts"), 0o755); err != nil {
		return nil, fmt.Errorf("creating run dir: %w", err)
	}
	if err := run.writeMeta(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	s.logger.Info("run started", "run_id", run.ID, "name", name)
	return run, nil
}

func (s *Store) GetRun(id string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok
}

// WithRun opens a run scope, invokes fn and finalizes the run on every exit
// path, panics included. The returned id identifies the run even when fn
// failed.
func (s *Store) WithRun(name string, fn func(*Run) error) (runID string, err error) {
	run, err := s.StartRun(name)
	if err != nil {
		return "", err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = run.close(statusFailed)
			s.logger.Error("run panicked", "run_id", run.ID, "name", name)
			panic(p)
		}
		status := statusFinished
		if err != nil {
			status = statusFailed
		}
		if closeErr := run.close(status); closeErr != nil && err == nil {
			err = closeErr
		}
		s.logger.Info("run closed", "run_id", run.ID, "status", status)
	}()

	return run.ID, fn(run)
}

func (r *Run) LogParams(params map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range params {
		r.params[key] = value
	}
}

func (r *Run) LogMetrics(metrics map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range metrics {
		r.metrics[key] = value
	}
}

// LogFigure writes the rendered image under artifacts and returns its path.
func (r *Run) LogFigure(fig *evaluation.Figure) (string, error) {
	path := filepath.Join(r.dir, "artifacts", fig.Name+".png")
	if err := os.WriteFile(path, fig.PNG, 0o644); err != nil {
		return "", fmt.Errorf("writing figure %s: %w", fig.Name, err)
	}
	return path, nil
}

// LogJSON stores an arbitrary value as a named JSON artifact.
func (r *Run) LogJSON(name string, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", name, err)
	}
	path := filepath.Join(r.dir, "artifacts", name+".json")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// LogModel serializes the fitted pipeline under the standard model path.
func (r *Run) LogModel(pipeline *features.Pipeline) error {
	modelDir := filepath.Join(r.dir, "artifacts", "model")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}
	bundle := persistence.NewModelBundle(pipeline, r.ID)
	return bundle.Save(filepath.Join(modelDir, "model.gob"))
}

func (r *Run) Dir() string {
	return r.dir
}

func (r *Run) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Run) close(status string) error {
	r.mu.Lock()
	r.status = status
	params := r.params
	metrics := r.metrics
	r.mu.Unlock()

	if err := writeYAML(filepath.Join(r.dir, "params.yaml"), params); err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(r.dir, "metrics.yaml"), metrics); err != nil {
		return err
	}
	return r.writeMeta()
}

func (r *Run) writeMeta() error {
	meta := runMeta{
		ID:        r.ID,
		Name:      r.Name,
		Status:    r.Status(),
		StartTime: r.started.Format(time.RFC3339),
	}
	if meta.Status != statusRunning {
		meta.EndTime = time.Now().UTC().Format(time.RFC3339)
	}
	return writeYAML(filepath.Join(r.dir, "meta.yaml"), meta)
}

func writeYAML(path string, v any) error {
	blob, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
