package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matrix(rows ...[]float64) [][]decimal.Decimal {
	X := make([][]decimal.Decimal, len(rows))
	for i, row := range rows {
		X[i] = make([]decimal.Decimal, len(row))
		for j, v := range row {
			X[i][j] = decimal.NewFromFloat(v)
		}
	}
	return X
}

// Linearly separable toy set: positive class sits at higher x.
var (
	sepX = matrix(
		[]float64{0.1, 0.2}, []float64{0.2, 0.1}, []float64{0.3, 0.3},
		[]float64{0.9, 0.8}, []float64{0.8, 0.9}, []float64{0.7, 0.7},
	)
	sepY = []int{0, 0, 0, 1, 1, 1}
)

func TestDummyPredictsMajority(t *testing.T) {
	d := NewDummy("")
	require.NoError(t, d.Fit(matrix([]float64{1}, []float64{2}, []float64{3}), []int{1, 1, 0}))

	preds := d.Predict(matrix([]float64{9}, []float64{10}))
	assert.Equal(t, []int{1, 1}, preds)

	proba := d.PredictProba(matrix([]float64{9}))
	require.Len(t, proba[0], 2)
	assert.True(t, proba[0][0].IsZero())
	assert.True(t, proba[0][1].Equal(decimal.NewFromInt(1)))
}

func TestDummyRejectsUnknownStrategy(t *testing.T) {
	d := NewDummy("stratified")
	assert.Error(t, d.Fit(matrix([]float64{1}), []int{0}))
}

func TestLogisticRegressionSeparatesClasses(t *testing.T) {
	lr := NewLogisticRegression(1.0, "l2", "liblinear", 500)
	require.NoError(t, lr.Fit(sepX, sepY))

	preds := lr.Predict(sepX)
	assert.Equal(t, sepY, preds)

	proba := lr.PredictProba(matrix([]float64{0.95, 0.95}))
	high, _ := proba[0][1].Float64()
	assert.Greater(t, high, 0.5)
}

func TestLogisticRegressionRequiresTwoClasses(t *testing.T) {
	lr := NewLogisticRegression(1.0, "l2", "liblinear", 100)
	assert.Error(t, lr.Fit(matrix([]float64{1}, []float64{2}), []int{1, 1}))
}

func TestLogisticRegressionRecordsSolver(t *testing.T) {
	lr := NewLogisticRegression(10, "l2", "lbfgs", 500)
	assert.Equal(t, "lbfgs", lr.GetParams()["solver"])
	assert.Equal(t, 10.0, lr.GetParams()["C"])
}

func TestDecisionTreeFitsPureSplit(t *testing.T) {
	dt := NewDecisionTree(0, 2, 1)
	require.NoError(t, dt.Fit(sepX, sepY))
	assert.Equal(t, sepY, dt.Predict(sepX))
	assert.Nil(t, dt.GetParams()["max_depth"], "unbounded depth records as nil")
}

func TestRandomForestDeterministicFit(t *testing.T) {
	a := NewRandomForest(25, 0, 2, 1)
	require.NoError(t, a.Fit(sepX, sepY))
	b := NewRandomForest(25, 0, 2, 1)
	require.NoError(t, b.Fit(sepX, sepY))

	probe := matrix([]float64{0.15, 0.15}, []float64{0.85, 0.85})
	assert.Equal(t, a.Predict(probe), b.Predict(probe), "index-seeded trees make fits reproducible")
}

func TestRandomForestProbaIsVoteFraction(t *testing.T) {
	rf := NewRandomForest(20, 0, 2, 1)
	require.NoError(t, rf.Fit(sepX, sepY))

	proba := rf.PredictProba(matrix([]float64{0.1, 0.1}))
	sum := proba[0][0].Add(proba[0][1])
	assert.True(t, sum.Equal(decimal.NewFromInt(1)), "class fractions sum to 1, got %s", sum)
}

func TestNaiveBayesSeparatesClasses(t *testing.T) {
	nb := NewNaiveBayes(1e-9)
	require.NoError(t, nb.Fit(sepX, sepY))
	assert.Equal(t, sepY, nb.Predict(sepX))

	proba := nb.PredictProba(sepX)
	for i, row := range proba {
		total, _ := row[0].Add(row[1]).Float64()
		assert.InDelta(t, 1.0, total, 1e-9, "row %d", i)
	}
}

func TestFactoryCreatesCatalogModels(t *testing.T) {
	cases := []struct {
		name   string
		params map[string]any
		typ    string
	}{
		{"dummy", map[string]any{"strategy": "most_frequent"}, "dummy"},
		{"log_reg", map[string]any{"C": 0.1, "solver": "lbfgs"}, "log_reg"},
		{"random_forest", map[string]any{"n_estimators": 10, "max_depth": nil}, "random_forest"},
		{"naive_bayes", map[string]any{"var_smoothing": 1e-8}, "naive_bayes"},
	}
	for _, tc := range cases {
		model, err := Create(tc.name, tc.params)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.typ, model.GetName())
	}
}

func TestFactoryCoercesYAMLScalars(t *testing.T) {
	// YAML decodes integers as int and floats as float64; both must land.
	model, err := Create("log_reg", map[string]any{"C": 1, "max_iter": 250})
	require.NoError(t, err)
	lr := model.(*LogisticRegression)
	assert.Equal(t, 1.0, lr.C)
	assert.Equal(t, 250, lr.MaxIter)

	model, err = Create("random_forest", map[string]any{"n_estimators": 50.0, "max_depth": 8})
	require.NoError(t, err)
	rf := model.(*RandomForest)
	assert.Equal(t, 50, rf.NEstimators)
	assert.Equal(t, 8, rf.MaxDepth)
}

func TestFactoryRejectsUnknownModel(t *testing.T) {
	_, err := Create("svm", nil)
	assert.Error(t, err)
}

func TestExtractClassesSorted(t *testing.T) {
	assert.Equal(t, []int{0, 1}, ExtractClasses([]int{1, 0, 1, 0, 1}))
}
