package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerlessRaw = "63.0,1.0,1.0,145.0,233.0,1.0,2.0,150.0,0.0,2.3,3.0,0.0,6.0,0\n" +
	"67.0,1.0,4.0,160.0,286.0,0.0,2.0,108.0,1.0,1.5,2.0,3.0,3.0,2\n" +
	"37.0,1.0,3.0,130.0,250.0,0.0,0.0,187.0,0.0,3.5,3.0,0.0,3.0,0\n" +
	"41.0,0.0,2.0,130.0,204.0,0.0,2.0,172.0,0.0,1.4,1.0,0.0,?,1\n"

func TestPrepareHeaderlessExport(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(rawPath, []byte(headerlessRaw), 0o644))

	processedPath := filepath.Join(dir, "processed", "heart.csv")
	result, err := Prepare(rawPath, processedPath)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, 3, result.Kept)
	assert.Equal(t, 1, result.Dropped)

	ds, err := LoadCSV(processedPath)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []int{0, 1, 0}, ds.Y)
}

func TestPrepareWithHeader(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.csv")
	content := "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,num\n" +
		"63,1,1,145,233,1,2,150,0,2.3,3,0,6,3\n"
	require.NoError(t, os.WriteFile(rawPath, []byte(content), 0o644))

	processedPath := filepath.Join(dir, "heart.csv")
	result, err := Prepare(rawPath, processedPath)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Kept)

	ds, err := LoadCSV(processedPath)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ds.Y)
}

func TestPrepareReplacesProcessedFile(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(rawPath, []byte(headerlessRaw), 0o644))

	processedPath := filepath.Join(dir, "heart.csv")
	require.NoError(t, os.WriteFile(processedPath, []byte("stale"), 0o644))

	_, err := Prepare(rawPath, processedPath)
	require.NoError(t, err)

	blob, err := os.ReadFile(processedPath)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "stale")
}

func TestPrepareMissingRaw(t *testing.T) {
	_, err := Prepare(filepath.Join(t.TempDir(), "absent.csv"), filepath.Join(t.TempDir(), "out.csv"))
	assert.Error(t, err)
}
