package features

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
)

// miniDataset builds a two-column dataset (one numeric, one categorical) so
// the per-column-type behavior is easy to assert.
func miniDataset(numeric []float64, categorical []int64) *data.Dataset {
	ds := &data.Dataset{Columns: []string{"age", "cp"}}
	for i := range numeric {
		ds.X = append(ds.X, []decimal.Decimal{
			decimal.NewFromFloat(numeric[i]),
			decimal.NewFromInt(categorical[i]),
		})
		ds.Y = append(ds.Y, 0)
	}
	return ds
}

func miniTransformer() *ColumnTransformer {
	return &ColumnTransformer{
		NumericColumns:     []string{"age"},
		CategoricalColumns: []string{"cp"},
	}
}

func TestFitTransformScalesNumeric(t *testing.T) {
	ds := miniDataset([]float64{10, 20, 30}, []int64{1, 1, 1})

	ct := miniTransformer()
	X, err := ct.FitTransform(ds)
	require.NoError(t, err)

	// mean 20, population std sqrt(200/3); the middle row scales to 0.
	mid, _ := X[1][0].Float64()
	assert.InDelta(t, 0.0, mid, 1e-9)

	lo, _ := X[0][0].Float64()
	hi, _ := X[2][0].Float64()
	assert.InDelta(t, -hi, lo, 1e-9, "scaling is symmetric around the mean")
}

func TestTransformOneHotEncodesCategorical(t *testing.T) {
	ds := miniDataset([]float64{1, 2, 3}, []int64{2, 3, 2})

	ct := miniTransformer()
	X, err := ct.FitTransform(ds)
	require.NoError(t, err)

	// One numeric output plus one indicator per category (2, 3).
	require.Equal(t, 3, ct.NumOutputFeatures())
	assert.Equal(t, []string{"age", "cp_2", "cp_3"}, ct.FeatureNames())

	assert.True(t, X[0][1].Equal(decimal.NewFromInt(1)))
	assert.True(t, X[0][2].IsZero())
	assert.True(t, X[1][1].IsZero())
	assert.True(t, X[1][2].Equal(decimal.NewFromInt(1)))
}

func TestTransformUnseenCategoryEncodesToZeros(t *testing.T) {
	train := miniDataset([]float64{1, 2}, []int64{2, 3})
	ct := miniTransformer()
	_, err := ct.FitTransform(train)
	require.NoError(t, err)

	unseen := miniDataset([]float64{1.5}, []int64{7})
	X, err := ct.Transform(unseen)
	require.NoError(t, err)

	assert.True(t, X[0][1].IsZero())
	assert.True(t, X[0][2].IsZero())
}

func TestTransformFillsMaskedCells(t *testing.T) {
	train := miniDataset([]float64{10, 20, 30}, []int64{2, 2, 3})
	ct := miniTransformer()
	_, err := ct.FitTransform(train)
	require.NoError(t, err)

	masked := miniDataset([]float64{999, 999}, []int64{9, 9})
	masked.Missing = [][]bool{{true, true}, {true, true}}

	X, err := ct.Transform(masked)
	require.NoError(t, err)

	// Numeric cell takes the median (20), which scales to 0; categorical
	// takes the mode (2).
	v, _ := X[0][0].Float64()
	assert.InDelta(t, 0.0, v, 1e-9)
	assert.True(t, X[0][1].Equal(decimal.NewFromInt(1)))
}

func TestTransformRequiresFit(t *testing.T) {
	ct := miniTransformer()
	_, err := ct.Transform(miniDataset([]float64{1}, []int64{1}))
	assert.Error(t, err)
}

func TestZeroStdScalesByOne(t *testing.T) {
	ds := miniDataset([]float64{5, 5, 5}, []int64{1, 1, 1})
	ct := miniTransformer()
	X, err := ct.FitTransform(ds)
	require.NoError(t, err)

	v, _ := X[0][0].Float64()
	assert.InDelta(t, 0.0, v, 1e-9)
}

func TestCanonicalTransformerCoversAllColumns(t *testing.T) {
	ct := NewColumnTransformer()
	assert.Equal(t, data.NumericFeatures, ct.NumericColumns)
	assert.Equal(t, data.CategoricalFeatures, ct.CategoricalColumns)
}
