package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/features"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/tracking"
)

// LoadedModel is an immutable model-plus-metadata bundle. Handlers read it
// without locking; reloads swap the whole value.
type LoadedModel struct {
	Pipeline *features.Pipeline
	Meta     tracking.ExportMetadata
	LoadedAt time.Time
}

// ModelState owns the process-wide model reference behind an atomic pointer.
type ModelState struct {
	current atomic.Pointer[LoadedModel]
	logger  *slog.Logger
}

func NewModelState(logger *slog.Logger) *ModelState {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelState{logger: logger}
}

// Current returns the loaded model, or nil before the first successful load.
func (s *ModelState) Current() *LoadedModel {
	return s.current.Load()
}

// LoadFrom reads the export directory and swaps the model in. A failed load
// keeps the previous model serving.
func (s *ModelState) LoadFrom(dir string) error {
	bundle, meta, err := tracking.LoadExportedModel(dir)
	if err != nil {
		return fmt.Errorf("loading model from %s: %w", dir, err)
	}

	s.current.Store(&LoadedModel{
		Pipeline: bundle.Pipeline,
		Meta:     *meta,
		LoadedAt: time.Now().UTC(),
	})
	s.logger.Info("model loaded", "dir", dir,
		"model_name", meta.ModelName, "run_id", meta.RunID)
	return nil
}

const reloadDebounce = 500 * time.Millisecond

// Watch hot-reloads the model whenever the export directory changes. Events
// are debounced because an export rewrites several files in a burst. Returns
// when ctx is done.
func (s *ModelState) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// The export directory is removed and recreated on every training run,
	// so watch its parent and filter.
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}
	if err := watcher.Add(parent); err != nil {
		return fmt.Errorf("watching %s: %w", parent, err)
	}
	if _, err := os.Stat(dir); err == nil {
		if err := watcher.Add(dir); err != nil {
			s.logger.Warn("watching export dir", "dir", dir, "error", err)
		}
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(event.Name, dir) {
				continue
			}
			if event.Op.Has(fsnotify.Create) && event.Name == dir {
				_ = watcher.Add(dir)
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.LoadFrom(dir); err != nil {
				s.logger.Warn("model reload failed", "dir", dir, "error", err)
			}
		}
	}
}
