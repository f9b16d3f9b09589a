package models

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// NaiveBayes is a Gaussian naive Bayes classifier. Not part of the default
// catalog; reachable through a catalog file and the factory. Likelihoods are
// computed in log space over float64 feature values.
type NaiveBayes struct {
	BaseModel
	VarSmoothing   float64
	ClassLogPriors map[int]float64
	FeatureMeans   map[int][]float64
	FeatureVars    map[int][]float64
}

func NewNaiveBayes(varSmoothing float64) *NaiveBayes {
	if varSmoothing <= 0 {
		varSmoothing = 1e-9
	}
	return &NaiveBayes{
		VarSmoothing: varSmoothing,
		BaseModel: BaseModel{
			Name: "naive_bayes",
			Params: map[string]any{
				"var_smoothing": varSmoothing,
			},
		},
	}
}

func (nb *NaiveBayes) Fit(X [][]decimal.Decimal, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("cannot fit on empty dataset")
	}

	nb.Classes = ExtractClasses(y)
	nFeatures := len(X[0])
	features := toFloat64Matrix(X)

	nb.ClassLogPriors = make(map[int]float64)
	nb.FeatureMeans = make(map[int][]float64)
	nb.FeatureVars = make(map[int][]float64)

	for _, class := range nb.Classes {
		var rows [][]float64
		for i, label := range y {
			if label == class {
				rows = append(rows, features[i])
			}
		}
		if len(rows) == 0 {
			return fmt.Errorf("class %d has no samples", class)
		}

		nb.ClassLogPriors[class] = math.Log(float64(len(rows)) / float64(len(y)))

		means := make([]float64, nFeatures)
		vars := make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			sum := 0.0
			for _, row := range rows {
				sum += row[j]
			}
			means[j] = sum / float64(len(rows))

			variance := 0.0
			for _, row := range rows {
				diff := row[j] - means[j]
				variance += diff * diff
			}
			vars[j] = variance/float64(len(rows)) + nb.VarSmoothing
		}
		nb.FeatureMeans[class] = means
		nb.FeatureVars[class] = vars
	}

	return nil
}

func (nb *NaiveBayes) logLikelihood(sample []float64, class int) float64 {
	logProb := nb.ClassLogPriors[class]
	means := nb.FeatureMeans[class]
	vars := nb.FeatureVars[class]
	for j, x := range sample {
		diff := x - means[j]
		logProb += -0.5*math.Log(2*math.Pi*vars[j]) - diff*diff/(2*vars[j])
	}
	return logProb
}

func (nb *NaiveBayes) Predict(X [][]decimal.Decimal) []int {
	predictions := make([]int, len(X))
	for i, row := range toFloat64Matrix(X) {
		best := nb.Classes[0]
		bestLog := math.Inf(-1)
		for _, class := range nb.Classes {
			if lp := nb.logLikelihood(row, class); lp > bestLog {
				bestLog = lp
				best = class
			}
		}
		predictions[i] = best
	}
	return predictions
}

func (nb *NaiveBayes) PredictProba(X [][]decimal.Decimal) [][]decimal.Decimal {
	proba := make([][]decimal.Decimal, len(X))
	for i, row := range toFloat64Matrix(X) {
		logProbs := make([]float64, len(nb.Classes))
		maxLog := math.Inf(-1)
		for k, class := range nb.Classes {
			logProbs[k] = nb.logLikelihood(row, class)
			if logProbs[k] > maxLog {
				maxLog = logProbs[k]
			}
		}

		sumExp := 0.0
		for _, lp := range logProbs {
			sumExp += math.Exp(lp - maxLog)
		}

		proba[i] = make([]decimal.Decimal, len(nb.Classes))
		for k, lp := range logProbs {
			proba[i][k] = decimal.NewFromFloat(math.Exp(lp-maxLog) / sumExp)
		}
	}
	return proba
}

func (nb *NaiveBayes) GetClasses() []int {
	return nb.Classes
}

func (nb *NaiveBayes) Reset() {
	nb.ClassLogPriors = nil
	nb.FeatureMeans = nil
	nb.FeatureVars = nil
	nb.Classes = nil
}
