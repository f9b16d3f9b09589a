package features

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/models"
)

// Pipeline composes the column transformer with an estimator into one
// fit-once, predict-many unit. Fit fits the transformer on the given rows
// only, so cross-validation folds never leak statistics into each other.
type Pipeline struct {
	Transformer *ColumnTransformer
	Estimator   models.Model
}

func NewPipeline(transformer *ColumnTransformer, estimator models.Model) *Pipeline {
	return &Pipeline{Transformer: transformer, Estimator: estimator}
}

func (p *Pipeline) Fit(ds *data.Dataset) error {
	X, err := p.Transformer.FitTransform(ds)
	if err != nil {
		return fmt.Errorf("transforming features: %w", err)
	}
	if err := p.Estimator.Fit(X, ds.Y); err != nil {
		return fmt.Errorf("fitting %s: %w", p.Estimator.GetName(), err)
	}
	return nil
}

func (p *Pipeline) Predict(ds *data.Dataset) ([]int, error) {
	X, err := p.Transformer.Transform(ds)
	if err != nil {
		return nil, err
	}
	return p.Estimator.Predict(X), nil
}

func (p *Pipeline) PredictProba(ds *data.Dataset) ([][]decimal.Decimal, error) {
	X, err := p.Transformer.Transform(ds)
	if err != nil {
		return nil, err
	}
	return p.Estimator.PredictProba(X), nil
}

// PositiveProba returns p(target=1) per row as float64 scores. The slice is
// nil when the estimator exposes no probabilities; callers fall back to hard
// predictions.
func (p *Pipeline) PositiveProba(ds *data.Dataset) ([]float64, error) {
	probas, err := p.PredictProba(ds)
	if err != nil {
		return nil, err
	}
	if probas == nil {
		return nil, nil
	}

	posIdx := -1
	for i, class := range p.Estimator.GetClasses() {
		if class == 1 {
			posIdx = i
		}
	}

	scores := make([]float64, len(probas))
	for i, row := range probas {
		if posIdx < 0 || posIdx >= len(row) {
			continue
		}
		scores[i], _ = row[posIdx].Float64()
	}
	return scores, nil
}

func (p *Pipeline) Name() string {
	return p.Estimator.GetName()
}

func (p *Pipeline) Params() map[string]any {
	return p.Estimator.GetParams()
}
