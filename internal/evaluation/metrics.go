package evaluation

import (
	"fmt"
	"math"
)

// Metrics is the held-out score set of one fitted model. Precision and recall
// are for the positive (disease) class; degenerate ratios come back as 0 and
// a single-class ground truth yields the neutral AUC of 0.5.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	ROCAUC    float64 `json:"roc_auc"`
}

// Evaluate scores hard predictions and positive-class probabilities against
// the ground truth. A nil score slice falls back to the hard predictions,
// which is what estimators without probabilities expose.
func Evaluate(yTrue, yPred []int, scores []float64) Metrics {
	if scores == nil {
		scores = make([]float64, len(yPred))
		for i, pred := range yPred {
			scores[i] = float64(pred)
		}
	}

	cm := ConfusionMatrix(yTrue, yPred)
	tp := float64(cm[1][1])
	fp := float64(cm[0][1])
	fn := float64(cm[1][0])

	correct := 0
	for i, pred := range yPred {
		if pred == yTrue[i] {
			correct++
		}
	}

	return Metrics{
		Accuracy:  safeDivide(float64(correct), float64(len(yTrue))),
		Precision: safeDivide(tp, tp+fp),
		Recall:    safeDivide(tp, tp+fn),
		ROCAUC:    ROCAUC(yTrue, scores),
	}
}

// Map is the metric set in the key form the tracker and summary record.
func (m Metrics) Map() map[string]float64 {
	return map[string]float64{
		"accuracy":  m.Accuracy,
		"precision": m.Precision,
		"recall":    m.Recall,
		"roc_auc":   m.ROCAUC,
	}
}

func (m Metrics) String() string {
	return fmt.Sprintf("accuracy=%.4f precision=%.4f recall=%.4f roc_auc=%.4f",
		m.Accuracy, m.Precision, m.Recall, m.ROCAUC)
}

// ConfusionMatrix is 2x2: rows are true labels, columns predictions, in label
// order (0, 1).
func ConfusionMatrix(yTrue, yPred []int) [2][2]int {
	var cm [2][2]int
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t > 1 || p < 0 || p > 1 {
			continue
		}
		cm[t][p]++
	}
	return cm
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0.0
	}
	return result
}
