package data

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePath(t *testing.T) string {
	t.Helper()
	return filepath.Join("..", "..", "data", "sample", "heart_sample.csv")
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVCleansSample(t *testing.T) {
	ds, err := LoadCSV(samplePath(t))
	require.NoError(t, err)

	assert.Equal(t, FeatureColumns, ds.Columns)
	require.NotZero(t, ds.Len())

	for i, label := range ds.Y {
		assert.Contains(t, []int{0, 1}, label, "row %d target", i)
		assert.Len(t, ds.X[i], len(FeatureColumns), "row %d width", i)
	}

	// The sample carries both classes.
	dist := ClassDistribution(ds.Y)
	assert.Len(t, dist, 2)
}

func TestLoadCSVDropsPlaceholderRows(t *testing.T) {
	path := writeCSV(t, "heart.csv",
		"age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,num\n"+
			"63,1,1,145,233,1,2,150,0,2.3,3,0,6,0\n"+
			"67,1,4,160,286,0,2,108,1,1.5,2,3,?,2\n"+
			"41,0,2,130,204,0,2,172,0,1.4,1,0,3,1\n")

	ds, err := LoadCSV(path)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len(), "the ? row must be dropped")
	// num > 0 binarizes to 1.
	assert.Equal(t, []int{0, 1}, ds.Y)
}

func TestLoadCSVRenamesNumToTarget(t *testing.T) {
	withTarget := writeCSV(t, "target.csv",
		"age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,target\n"+
			"63,1,1,145,233,1,2,150,0,2.3,3,0,6,1\n")

	ds, err := LoadCSV(withTarget)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ds.Y)
}

func TestLoadCSVNormalizesHeader(t *testing.T) {
	path := writeCSV(t, "spaced.csv",
		" Age ,SEX,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,NUM\n"+
			"63,1,1,145,233,1,2,150,0,2.3,3,0,6,4\n")

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ds.Y)
}

func TestLoadCSVMissingColumns(t *testing.T) {
	path := writeCSV(t, "short.csv", "age,sex,num\n63,1,0\n")

	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "thal")
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join("data", "raw", "nonexistent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "want fs.ErrNotExist, got %v", err)
}

func TestLoadResolutionOrder(t *testing.T) {
	_, source, err := Load("", "", samplePath(t))
	require.NoError(t, err)
	assert.Equal(t, "sample", source)

	_, _, err = Load("missing-a.csv", "missing-b.csv", "missing-c.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "missing-b.csv")
}

func TestValidateDataset(t *testing.T) {
	ds, err := LoadCSV(samplePath(t))
	require.NoError(t, err)

	validator := NewDataValidator()
	require.NoError(t, validator.ValidateDataset(ds))
	require.NoError(t, validator.ValidateLabels(ds.Y))

	ds.Y[0] = 3
	assert.Error(t, validator.ValidateDataset(ds))
}

func TestSubset(t *testing.T) {
	ds, err := LoadCSV(samplePath(t))
	require.NoError(t, err)

	sub := ds.Subset([]int{0, 2, 4})
	require.Equal(t, 3, sub.Len())
	assert.Equal(t, ds.Y[2], sub.Y[1])
	assert.True(t, ds.X[4][0].Equal(sub.X[2][0]))
}
