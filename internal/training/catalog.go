package training

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/models"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/search"
)

// ModelSpec is one immutable catalog entry: the model name, the factory
// algorithm it maps to and its hyperparameter grid.
type ModelSpec struct {
	Name      string
	Algorithm string
	Grid      search.ParamGrid
}

// Estimator builds an untrained instance for one grid candidate.
func (spec ModelSpec) Estimator(params map[string]any) (models.Model, error) {
	return models.Create(spec.Algorithm, params)
}

// Catalog is the fixed model list: a majority-class baseline, logistic
// regression and a random forest, each with its search grid. Quick mode
// shrinks the grids for fast smoke runs.
func Catalog(quick bool) []ModelSpec {
	if quick {
		return []ModelSpec{
			{
				Name:      "dummy",
				Algorithm: "dummy",
				Grid: search.ParamGrid{
					"strategy": {"most_frequent"},
				},
			},
			{
				Name:      "log_reg",
				Algorithm: "log_reg",
				Grid: search.ParamGrid{
					"C":        {1.0},
					"penalty":  {"l2"},
					"solver":   {"liblinear"},
					"max_iter": {500},
				},
			},
			{
				Name:      "random_forest",
				Algorithm: "random_forest",
				Grid: search.ParamGrid{
					"n_estimators":      {120},
					"max_depth":         {nil, 8},
					"min_samples_split": {2},
					"min_samples_leaf":  {1},
				},
			},
		}
	}

	return []ModelSpec{
		{
			Name:      "dummy",
			Algorithm: "dummy",
			Grid: search.ParamGrid{
				"strategy": {"most_frequent"},
			},
		},
		{
			Name:      "log_reg",
			Algorithm: "log_reg",
			Grid: search.ParamGrid{
				"C":        {0.1, 1.0, 10.0},
				"penalty":  {"l2"},
				"solver":   {"liblinear", "lbfgs"},
				"max_iter": {500},
			},
		},
		{
			Name:      "random_forest",
			Algorithm: "random_forest",
			Grid: search.ParamGrid{
				"n_estimators":      {150, 250},
				"max_depth":         {nil, 8, 12},
				"min_samples_split": {2, 5},
				"min_samples_leaf":  {1, 2},
			},
		},
	}
}

type catalogFile struct {
	Specs []struct {
		Name      string           `yaml:"name"`
		Algorithm string           `yaml:"algorithm"`
		Grid      map[string][]any `yaml:"grid"`
		QuickGrid map[string][]any `yaml:"quick_grid"`
	} `yaml:"specs"`
}

// LoadCatalog reads a catalog override file. Each entry names its algorithm
// (any factory name, naive_bayes included) and a grid; quick_grid, when
// present, replaces the grid in quick mode.
func LoadCatalog(path string, quick bool) ([]ModelSpec, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var parsed catalogFile
	if err := yaml.Unmarshal(blob, &parsed); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(parsed.Specs) == 0 {
		return nil, fmt.Errorf("catalog %s lists no specs", path)
	}

	specs := make([]ModelSpec, 0, len(parsed.Specs))
	for _, entry := range parsed.Specs {
		if entry.Name == "" {
			return nil, fmt.Errorf("catalog %s: spec without a name", path)
		}
		algorithm := entry.Algorithm
		if algorithm == "" {
			algorithm = entry.Name
		}
		grid := entry.Grid
		if quick && entry.QuickGrid != nil {
			grid = entry.QuickGrid
		}
		specs = append(specs, ModelSpec{
			Name:      entry.Name,
			Algorithm: algorithm,
			Grid:      search.ParamGrid(grid),
		})
	}
	return specs, nil
}
