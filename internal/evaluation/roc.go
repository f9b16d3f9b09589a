package evaluation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
)

// ROCCurve sweeps the distinct scores in descending order and returns the
// false/true positive rates with the threshold that produced each point. The
// curve starts at (0, 0) with an unreachable threshold, like the reference
// roc_curve output.
func ROCCurve(yTrue []int, scores []float64) (fpr, tpr, thresholds []float64) {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	totalPos, totalNeg := 0, 0
	for _, label := range yTrue {
		if label == 1 {
			totalPos++
		} else {
			totalNeg++
		}
	}

	fpr = []float64{0}
	tpr = []float64{0}
	thresholds = []float64{math.Inf(1)}

	tp, fp := 0, 0
	for i, idx := range order {
		if yTrue[idx] == 1 {
			tp++
		} else {
			fp++
		}
		// Emit a point only after the last row of a tied score group.
		if i+1 < len(order) && scores[order[i+1]] == scores[idx] {
			continue
		}
		fpr = append(fpr, safeDivide(float64(fp), float64(totalNeg)))
		tpr = append(tpr, safeDivide(float64(tp), float64(totalPos)))
		thresholds = append(thresholds, scores[idx])
	}

	return fpr, tpr, thresholds
}

// ROCAUC integrates the ROC curve. When the ground truth holds a single
// class the area is undefined and the neutral 0.5 comes back instead.
func ROCAUC(yTrue []int, scores []float64) float64 {
	pos, neg := 0, 0
	for _, label := range yTrue {
		if label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}

	fpr, tpr, _ := ROCCurve(yTrue, scores)
	return integrate.Trapezoidal(fpr, tpr)
}
