package training

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/config"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/evaluation"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/features"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/logging"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/search"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/tracking"
)

// State names one phase of a training invocation.
type State string

const (
	StateLoading     State = "loading"
	StateSplitting   State = "splitting"
	StateSearching   State = "searching"
	StateEvaluating  State = "evaluating"
	StateLogging     State = "logging"
	StateSelecting   State = "selecting"
	StateExporting   State = "exporting"
	StateSummarizing State = "summarizing"
	StateDone        State = "done"
)

// SpecResult is the recorded outcome of one catalog spec; its JSON shape is
// the training summary entry.
type SpecResult struct {
	Name    string             `json:"name"`
	Metrics map[string]float64 `json:"metrics"`
	Params  map[string]any     `json:"params"`
	RunID   string             `json:"run_id"`
	Plots   []string           `json:"plots"`

	pipeline *features.Pipeline
}

// SpecFailure records a spec whose search or logging failed. Failures are
// isolated: the remaining specs still train and only an all-failed run
// errors out.
type SpecFailure struct {
	Name string
	Err  error
}

// Report is everything one training invocation produced.
type Report struct {
	Results     []SpecResult
	Failures    []SpecFailure
	BestIndex   int
	DataSource  string
	Export      *tracking.ExportMetadata
	SummaryPath string
}

// Best returns the winning result.
func (r *Report) Best() SpecResult {
	return r.Results[r.BestIndex]
}

// Trainer walks the catalog through load, split, per-spec search, evaluate
// and log, then selects, exports and summarizes.
type Trainer struct {
	Config  *config.Config
	Store   *tracking.Store
	Catalog []ModelSpec

	Quick    bool
	TestSize float64 // 0 falls back to the configured default
	Workers  int     // grid-search pool size, 0 means serial
	Logger   *slog.Logger
}

func (t *Trainer) Run() (*Report, error) {
	cfg := t.Config
	logger := logging.ForSubsystem(t.Logger, logging.Training)

	testSize := t.TestSize
	if testSize == 0 {
		testSize = cfg.TestSize
	}
	catalog := t.Catalog
	if catalog == nil {
		catalog = Catalog(t.Quick)
	}

	logger.Info("state", "state", StateLoading)
	ds, source, err := data.Load(cfg.ProcessedDataPath, cfg.RawDataPath, cfg.SampleDataPath)
	if err != nil {
		return nil, err
	}
	validator := data.NewDataValidator()
	if err := validator.ValidateDataset(ds); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}
	if err := validator.ValidateLabels(ds.Y); err != nil {
		return nil, fmt.Errorf("validating labels: %w", err)
	}
	logger.Info("dataset loaded", "source", source, "rows", ds.Len(),
		"class_distribution", data.ClassDistribution(ds.Y))

	logger.Info("state", "state", StateSplitting, "test_size", testSize)
	splitter := evaluation.NewTrainTestSplitter(testSize, cfg.Seed, true)
	train, test, err := splitter.StratifiedSplit(ds)
	if err != nil {
		return nil, fmt.Errorf("splitting dataset: %w", err)
	}

	report := &Report{DataSource: source, BestIndex: -1}
	for _, spec := range catalog {
		result, err := t.runSpec(spec, train, test, source, logger)
		if err != nil {
			logger.Error("spec failed", "spec", spec.Name, "error", err)
			report.Failures = append(report.Failures, SpecFailure{Name: spec.Name, Err: err})
			continue
		}
		report.Results = append(report.Results, *result)
	}

	if len(report.Results) == 0 {
		return nil, fmt.Errorf("all %d specs failed: %s",
			len(report.Failures), failureNames(report.Failures))
	}

	logger.Info("state", "state", StateSelecting)
	report.BestIndex = SelectBest(report.Results)
	best := report.Best()
	logger.Info("best model selected", "name", best.Name,
		"roc_auc", best.Metrics["roc_auc"], "accuracy", best.Metrics["accuracy"])

	logger.Info("state", "state", StateExporting, "dir", cfg.ModelDir)
	export, err := tracking.ExportModel(report.Results[report.BestIndex].pipeline,
		best.RunID, best.Name, cfg.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("exporting model: %w", err)
	}
	report.Export = export

	logger.Info("state", "state", StateSummarizing)
	summaryPath := filepath.Join(cfg.ArtifactsDir, "training_summary.json")
	if err := WriteSummary(summaryPath, report.Results); err != nil {
		return nil, err
	}
	report.SummaryPath = summaryPath

	logger.Info("state", "state", StateDone,
		"trained", len(report.Results), "failed", len(report.Failures))
	return report, nil
}

func (t *Trainer) runSpec(spec ModelSpec, train, test *data.Dataset, source string, logger *slog.Logger) (*SpecResult, error) {
	cfg := t.Config

	logger.Info("state", "state", StateSearching, "spec", spec.Name,
		"candidates", spec.Grid.Size(), "folds", cfg.Folds(t.Quick))
	gs := &search.GridSearch{
		Estimator: spec.Estimator,
		Grid:      spec.Grid,
		Folds:     cfg.Folds(t.Quick),
		Seed:      cfg.Seed,
		Workers:   t.Workers,
		Logger:    logging.ForSubsystem(t.Logger, logging.Search),
	}
	searchResult, err := gs.Run(train)
	if err != nil {
		return nil, fmt.Errorf("grid search: %w", err)
	}

	logger.Info("state", "state", StateEvaluating, "spec", spec.Name)
	preds, err := searchResult.BestPipeline.Predict(test)
	if err != nil {
		return nil, fmt.Errorf("predicting test split: %w", err)
	}
	scores, err := searchResult.BestPipeline.PositiveProba(test)
	if err != nil {
		return nil, fmt.Errorf("scoring test split: %w", err)
	}
	if scores == nil {
		scores = make([]float64, len(preds))
		for i, pred := range preds {
			scores[i] = float64(pred)
		}
	}

	metrics := evaluation.Evaluate(test.Y, preds, scores).Map()
	metrics["best_cv_score"] = searchResult.BestScore

	cmFig, err := evaluation.ConfusionMatrixFigure(test.Y, preds)
	if err != nil {
		return nil, err
	}
	rocFig, err := evaluation.ROCCurveFigure(test.Y, scores)
	if err != nil {
		return nil, err
	}

	logger.Info("state", "state", StateLogging, "spec", spec.Name)
	runID, err := t.Store.WithRun(spec.Name, func(run *tracking.Run) error {
		run.LogParams(searchResult.BestParams)
		run.LogMetrics(metrics)
		if err := run.LogJSON("run_details", map[string]any{
			"params":          searchResult.BestParams,
			"feature_columns": searchResult.BestPipeline.Transformer.FeatureNames(),
			"data_source":     source,
			"quick":           t.Quick,
		}); err != nil {
			return err
		}
		for _, fig := range []*evaluation.Figure{cmFig, rocFig} {
			if _, err := run.LogFigure(fig); err != nil {
				return err
			}
		}
		return run.LogModel(searchResult.BestPipeline)
	})
	if err != nil {
		return nil, fmt.Errorf("tracking run: %w", err)
	}

	plots, err := t.savePlots(spec.Name, cmFig, rocFig)
	if err != nil {
		return nil, err
	}

	return &SpecResult{
		Name:     spec.Name,
		Metrics:  metrics,
		Params:   searchResult.BestParams,
		RunID:    runID,
		Plots:    plots,
		pipeline: searchResult.BestPipeline,
	}, nil
}

// savePlots mirrors the run figures into the local plots directory as
// {spec}_{figure}.png for inspection outside the tracking store.
func (t *Trainer) savePlots(specName string, figures ...*evaluation.Figure) ([]string, error) {
	if err := os.MkdirAll(t.Config.PlotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating plots dir: %w", err)
	}
	paths := make([]string, 0, len(figures))
	for _, fig := range figures {
		path := filepath.Join(t.Config.PlotsDir, fmt.Sprintf("%s_%s.png", specName, fig.Name))
		if err := os.WriteFile(path, fig.PNG, 0o644); err != nil {
			return nil, fmt.Errorf("writing plot %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func failureNames(failures []SpecFailure) string {
	names := make([]string, len(failures))
	for i, failure := range failures {
		names[i] = failure.Name
	}
	return strings.Join(names, ", ")
}
