package tracking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportModelWritesBundleAndMetadata(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model")
	pipeline := fittedPipeline(t)

	meta, err := ExportModel(pipeline, "run-123", "dummy", dir)
	require.NoError(t, err)

	assert.Equal(t, "run-123", meta.RunID)
	assert.Equal(t, "dummy", meta.ModelName)
	assert.FileExists(t, filepath.Join(dir, BundleFile))
	assert.FileExists(t, filepath.Join(dir, MetadataFile))

	read, err := ReadExportMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, meta, read)
}

func TestExportModelReplacesPriorContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "stale.bin")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := ExportModel(fittedPipeline(t), "run-456", "dummy", dir)
	require.NoError(t, err)

	assert.NoFileExists(t, stale, "previous export contents must not survive")
	assert.FileExists(t, filepath.Join(dir, BundleFile))
}

func TestLoadExportedModelRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model")
	pipeline := fittedPipeline(t)

	_, err := ExportModel(pipeline, "run-789", "dummy", dir)
	require.NoError(t, err)

	bundle, meta, err := LoadExportedModel(dir)
	require.NoError(t, err)
	assert.Equal(t, "run-789", meta.RunID)
	assert.Equal(t, "dummy", bundle.Pipeline.Name())

	// The reloaded pipeline still predicts.
	ds := sampleDataset(t)
	preds, err := bundle.Pipeline.Predict(ds)
	require.NoError(t, err)
	assert.Len(t, preds, ds.Len())
}

func TestReadExportMetadataMissingDir(t *testing.T) {
	_, err := ReadExportMetadata(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
