package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePerfectPredictions(t *testing.T) {
	yTrue := []int{0, 1, 0, 1}
	yPred := []int{0, 1, 0, 1}
	scores := []float64{0.1, 0.9, 0.2, 0.8}

	m := Evaluate(yTrue, yPred, scores)
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, 1.0, m.Precision)
	assert.Equal(t, 1.0, m.Recall)
	assert.Equal(t, 1.0, m.ROCAUC)
}

func TestEvaluateDegenerateAllNegativePredictions(t *testing.T) {
	yTrue := []int{0, 1, 0, 1}
	yPred := []int{0, 0, 0, 0}

	// No positive predictions: precision and recall divide by zero and must
	// come back as 0, not panic or NaN.
	m := Evaluate(yTrue, yPred, nil)
	assert.Equal(t, 0.5, m.Accuracy)
	assert.Equal(t, 0.0, m.Precision)
	assert.Equal(t, 0.0, m.Recall)
}

func TestROCAUCSingleClassGroundTruth(t *testing.T) {
	yTrue := []int{1, 1, 1}
	scores := []float64{0.2, 0.6, 0.9}

	assert.Equal(t, 0.5, ROCAUC(yTrue, scores))
	assert.Equal(t, 0.5, ROCAUC([]int{0, 0}, []float64{0.1, 0.2}))
}

func TestROCAUCConstantScores(t *testing.T) {
	yTrue := []int{0, 1, 0, 1}
	scores := []float64{0.5, 0.5, 0.5, 0.5}

	assert.InDelta(t, 0.5, ROCAUC(yTrue, scores), 1e-12)
}

func TestROCAUCRanking(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}

	assert.InDelta(t, 1.0, ROCAUC(yTrue, []float64{0.1, 0.2, 0.8, 0.9}), 1e-12)
	assert.InDelta(t, 0.0, ROCAUC(yTrue, []float64{0.9, 0.8, 0.2, 0.1}), 1e-12)
	// One inversion out of four pairs.
	assert.InDelta(t, 0.75, ROCAUC(yTrue, []float64{0.1, 0.8, 0.7, 0.9}), 1e-12)
}

func TestROCCurveShape(t *testing.T) {
	yTrue := []int{0, 1}
	fpr, tpr, thresholds := ROCCurve(yTrue, []float64{0.2, 0.9})

	require.Len(t, fpr, 3)
	assert.Equal(t, []float64{0, 0, 1}, fpr)
	assert.Equal(t, []float64{0, 1, 1}, tpr)
	assert.True(t, thresholds[0] > thresholds[1])
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 1}
	yPred := []int{0, 1, 1, 1, 0}

	cm := ConfusionMatrix(yTrue, yPred)
	assert.Equal(t, 1, cm[0][0])
	assert.Equal(t, 1, cm[0][1])
	assert.Equal(t, 1, cm[1][0])
	assert.Equal(t, 2, cm[1][1])
}

func TestMetricsMap(t *testing.T) {
	m := Metrics{Accuracy: 0.9, Precision: 0.8, Recall: 0.7, ROCAUC: 0.95}
	got := m.Map()
	assert.Equal(t, 0.9, got["accuracy"])
	assert.Equal(t, 0.8, got["precision"])
	assert.Equal(t, 0.7, got["recall"])
	assert.Equal(t, 0.95, got["roc_auc"])
}
