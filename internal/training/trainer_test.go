package training

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/config"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/search"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/tracking"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.RawDataPath = filepath.Join(root, "absent_raw.csv")
	cfg.ProcessedDataPath = filepath.Join(root, "absent_processed.csv")
	cfg.SampleDataPath = filepath.Join("..", "..", "data", "sample", "heart_sample.csv")
	cfg.ArtifactsDir = filepath.Join(root, "artifacts")
	cfg.ModelDir = filepath.Join(root, "artifacts", "model")
	cfg.PlotsDir = filepath.Join(root, "artifacts", "plots")
	cfg.TrackingDir = filepath.Join(root, "mlruns")
	return &cfg
}

func testStore(t *testing.T, cfg *config.Config) *tracking.Store {
	t.Helper()
	store, err := tracking.NewStore(cfg.TrackingDir, cfg.ExperimentName, nil)
	require.NoError(t, err)
	return store
}

func quickTrainer(t *testing.T, cfg *config.Config) *Trainer {
	t.Helper()
	return &Trainer{
		Config:   cfg,
		Store:    testStore(t, cfg),
		Quick:    true,
		TestSize: 0.25,
		Workers:  2,
	}
}

func TestTrainerQuickEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("trains the full quick catalog")
	}
	cfg := testConfig(t)
	trainer := quickTrainer(t, cfg)

	report, err := trainer.Run()
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Empty(t, report.Failures)
	assert.Equal(t, "sample", report.DataSource)

	best := report.Best()
	assert.NotEmpty(t, best.RunID)
	for _, result := range report.Results {
		assert.NotEmpty(t, result.RunID)
		assert.Contains(t, result.Metrics, "roc_auc")
		assert.Contains(t, result.Metrics, "accuracy")
		assert.Contains(t, result.Metrics, "best_cv_score")
		for _, plot := range result.Plots {
			assert.FileExists(t, plot)
		}
	}

	// The export directory holds the bundle plus its metadata.
	require.NotNil(t, report.Export)
	assert.Equal(t, best.RunID, report.Export.RunID)
	assert.Equal(t, best.Name, report.Export.ModelName)
	bundle, meta, err := tracking.LoadExportedModel(cfg.ModelDir)
	require.NoError(t, err)
	assert.Equal(t, best.Name, meta.ModelName)
	assert.Equal(t, best.Name, bundle.Pipeline.Name())

	// The summary round-trips as a non-empty result list.
	results, err := ReadSummary(report.SummaryPath)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, report.Results[0].Name, results[0].Name)
}

func TestTrainerReRunReplacesExport(t *testing.T) {
	if testing.Short() {
		t.Skip("trains the catalog twice")
	}
	cfg := testConfig(t)
	catalog := []ModelSpec{Catalog(true)[0]} // baseline only, keeps the runs cheap

	first, err := (&Trainer{Config: cfg, Store: testStore(t, cfg), Quick: true, Catalog: catalog}).Run()
	require.NoError(t, err)
	second, err := (&Trainer{Config: cfg, Store: testStore(t, cfg), Quick: true, Catalog: catalog}).Run()
	require.NoError(t, err)

	assert.NotEqual(t, first.Export.RunID, second.Export.RunID)

	meta, err := tracking.ReadExportMetadata(cfg.ModelDir)
	require.NoError(t, err)
	assert.Equal(t, second.Export.RunID, meta.RunID)
}

func TestTrainerIsolatesSpecFailures(t *testing.T) {
	cfg := testConfig(t)
	catalog := []ModelSpec{
		{Name: "broken", Algorithm: "svm", Grid: search.ParamGrid{"kernel": {"rbf"}}},
		{Name: "dummy", Algorithm: "dummy", Grid: search.ParamGrid{"strategy": {"most_frequent"}}},
	}

	report, err := (&Trainer{Config: cfg, Store: testStore(t, cfg), Quick: true, Catalog: catalog}).Run()
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "broken", report.Failures[0].Name)
	assert.Equal(t, "dummy", report.Best().Name)
	assert.NotNil(t, report.Export)
}

func TestTrainerErrorsWhenAllSpecsFail(t *testing.T) {
	cfg := testConfig(t)
	catalog := []ModelSpec{
		{Name: "broken", Algorithm: "svm", Grid: search.ParamGrid{"kernel": {"rbf"}}},
	}

	_, err := (&Trainer{Config: cfg, Store: testStore(t, cfg), Quick: true, Catalog: catalog}).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestTrainerErrorsWhenNoDataFound(t *testing.T) {
	cfg := testConfig(t)
	cfg.SampleDataPath = filepath.Join(t.TempDir(), "absent_sample.csv")

	_, err := quickTrainer(t, cfg).Run()
	assert.Error(t, err)
}
