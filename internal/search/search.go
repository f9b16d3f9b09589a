package search

import (
	"fmt"
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/evaluation"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/features"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/models"
)

// GridSearch runs stratified k-fold cross-validation over every candidate of
// a hyperparameter grid, scoring by ROC-AUC, then refits the best candidate
// on the full training split. A fresh pipeline is built per fold so
// transformer statistics never leak between folds.
type GridSearch struct {
	// Estimator builds an untrained model for one candidate's params.
	Estimator func(params map[string]any) (models.Model, error)
	Grid      ParamGrid
	Folds     int
	Seed      int64
	// Workers sizes the candidate pool. The default 1 evaluates serially;
	// higher counts stay reproducible because scores are written by index.
	Workers int
	Logger  *slog.Logger
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params    map[string]any
	MeanScore float64
}

// Result is the outcome of one search: the refit best pipeline plus the full
// candidate trace.
type Result struct {
	BestPipeline *features.Pipeline
	BestParams   map[string]any
	BestScore    float64
	Candidates   []Candidate
}

func (gs *GridSearch) Run(train *data.Dataset) (*Result, error) {
	if gs.Estimator == nil {
		return nil, fmt.Errorf("grid search needs an estimator factory")
	}
	folds := gs.Folds
	if folds < 2 {
		folds = 5
	}

	validationFolds, err := evaluation.StratifiedKFold(train.Y, folds, gs.Seed)
	if err != nil {
		return nil, fmt.Errorf("building folds: %w", err)
	}

	combos := gs.Grid.Combinations()
	candidates := make([]Candidate, len(combos))
	errs := make([]error, len(combos))

	workers := gs.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(combos) {
		workers = len(combos)
	}

	jobs := make(chan int, len(combos))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				score, err := gs.scoreCandidate(train, validationFolds, combos[i])
				candidates[i] = Candidate{Params: combos[i], MeanScore: score}
				errs[i] = err
			}
		}()
	}
	for i := range combos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("candidate %v: %w", combos[i], err)
		}
	}

	// First strictly-best candidate wins, matching reference rank order.
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].MeanScore > candidates[best].MeanScore {
			best = i
		}
	}

	if gs.Logger != nil {
		gs.Logger.Info("grid search complete",
			"candidates", len(candidates),
			"best_params", candidates[best].Params,
			"best_cv_score", candidates[best].MeanScore)
	}

	pipeline, err := gs.buildPipeline(candidates[best].Params)
	if err != nil {
		return nil, err
	}
	if err := pipeline.Fit(train); err != nil {
		return nil, fmt.Errorf("refitting best candidate: %w", err)
	}

	return &Result{
		BestPipeline: pipeline,
		BestParams:   candidates[best].Params,
		BestScore:    candidates[best].MeanScore,
		Candidates:   candidates,
	}, nil
}

func (gs *GridSearch) scoreCandidate(train *data.Dataset, folds [][]int, params map[string]any) (float64, error) {
	scores := make([]float64, len(folds))
	for i, validation := range folds {
		pipeline, err := gs.buildPipeline(params)
		if err != nil {
			return 0, err
		}

		foldTrain := train.Subset(evaluation.TrainIndices(train.Len(), validation))
		foldVal := train.Subset(validation)

		if err := pipeline.Fit(foldTrain); err != nil {
			return 0, fmt.Errorf("fold %d: %w", i, err)
		}

		scores[i], err = foldScore(pipeline, foldVal)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", i, err)
		}
	}
	return stat.Mean(scores, nil), nil
}

func (gs *GridSearch) buildPipeline(params map[string]any) (*features.Pipeline, error) {
	estimator, err := gs.Estimator(params)
	if err != nil {
		return nil, fmt.Errorf("building estimator: %w", err)
	}
	return features.NewPipeline(features.NewColumnTransformer(), estimator), nil
}

func foldScore(pipeline *features.Pipeline, validation *data.Dataset) (float64, error) {
	scores, err := pipeline.PositiveProba(validation)
	if err != nil {
		return 0, err
	}
	if scores == nil {
		preds, err := pipeline.Predict(validation)
		if err != nil {
			return 0, err
		}
		scores = make([]float64, len(preds))
		for i, pred := range preds {
			scores[i] = float64(pred)
		}
	}
	return evaluation.ROCAUC(validation.Y, scores), nil
}
