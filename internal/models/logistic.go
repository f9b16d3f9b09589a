package models

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// LogisticRegression is a binary L2-penalized classifier. The solver name is
// recorded as configured; liblinear and lbfgs both run the same full-batch
// gradient descent here, with penalty strength 1/C and an unpenalized
// intercept.
type LogisticRegression struct {
	BaseModel
	C        float64
	Penalty  string
	Solver   string
	MaxIter  int
	Tol      float64
	LearnRate float64
	Weights  []float64
	Bias     float64
}

func NewLogisticRegression(c float64, penalty, solver string, maxIter int) *LogisticRegression {
	if c <= 0 {
		c = 1.0
	}
	if penalty == "" {
		penalty = "l2"
	}
	if solver == "" {
		solver = "liblinear"
	}
	if maxIter <= 0 {
		maxIter = 500
	}
	return &LogisticRegression{
		C:         c,
		Penalty:   penalty,
		Solver:    solver,
		MaxIter:   maxIter,
		Tol:       1e-6,
		LearnRate: 0.1,
		BaseModel: BaseModel{
			Name: "log_reg",
			Params: map[string]any{
				"C":        c,
				"penalty":  penalty,
				"solver":   solver,
				"max_iter": maxIter,
			},
		},
	}
}

func (lr *LogisticRegression) Fit(X [][]decimal.Decimal, y []int) error {
	if lr.Penalty != "l2" {
		return fmt.Errorf("unsupported penalty: %s", lr.Penalty)
	}
	if len(X) == 0 {
		return fmt.Errorf("cannot fit on empty dataset")
	}

	lr.Classes = ExtractClasses(y)
	if len(lr.Classes) != 2 {
		return fmt.Errorf("logistic regression requires exactly 2 classes, found %d", len(lr.Classes))
	}
	positive := lr.Classes[1]

	n := len(X)
	nFeatures := len(X[0])

	features := toFloat64Matrix(X)
	target := make([]float64, n)
	for i, label := range y {
		if label == positive {
			target[i] = 1
		}
	}

	lr.Weights = make([]float64, nFeatures)
	lr.Bias = 0
	lambda := 1.0 / (lr.C * float64(n))

	gradW := make([]float64, nFeatures)
	for iter := 0; iter < lr.MaxIter; iter++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i := 0; i < n; i++ {
			p := sigmoid(dot(lr.Weights, features[i]) + lr.Bias)
			residual := p - target[i]
			for j, xj := range features[i] {
				gradW[j] += residual * xj
			}
			gradB += residual
		}

		maxStep := 0.0
		for j := range lr.Weights {
			step := lr.LearnRate * (gradW[j]/float64(n) + lambda*lr.Weights[j])
			lr.Weights[j] -= step
			if s := math.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		stepB := lr.LearnRate * gradB / float64(n)
		lr.Bias -= stepB
		if s := math.Abs(stepB); s > maxStep {
			maxStep = s
		}

		if maxStep < lr.Tol {
			break
		}
	}

	return nil
}

func (lr *LogisticRegression) Predict(X [][]decimal.Decimal) []int {
	predictions := make([]int, len(X))
	for i, sample := range X {
		if lr.scoreSample(sample) >= 0.5 {
			predictions[i] = lr.Classes[1]
		} else {
			predictions[i] = lr.Classes[0]
		}
	}
	return predictions
}

func (lr *LogisticRegression) PredictProba(X [][]decimal.Decimal) [][]decimal.Decimal {
	proba := make([][]decimal.Decimal, len(X))
	for i, sample := range X {
		p := lr.scoreSample(sample)
		proba[i] = []decimal.Decimal{
			decimal.NewFromFloat(1 - p),
			decimal.NewFromFloat(p),
		}
	}
	return proba
}

func (lr *LogisticRegression) scoreSample(sample []decimal.Decimal) float64 {
	z := lr.Bias
	for j, v := range sample {
		if j >= len(lr.Weights) {
			break
		}
		f, _ := v.Float64()
		z += lr.Weights[j] * f
	}
	return sigmoid(z)
}

func (lr *LogisticRegression) GetClasses() []int {
	return lr.Classes
}

func (lr *LogisticRegression) Reset() {
	lr.Weights = nil
	lr.Bias = 0
	lr.Classes = nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(w, x []float64) float64 {
	sum := 0.0
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}

func toFloat64Matrix(X [][]decimal.Decimal) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j], _ = v.Float64()
		}
	}
	return out
}
