package models

import (
	"fmt"
)

// Create builds an untrained estimator for a catalog name. Params use the
// grid notation: values arrive as YAML/JSON scalars (int, float64, string,
// nil) and are coerced here; absent keys fall back to the estimator default.
func Create(name string, params map[string]any) (Model, error) {
	switch name {
	case "dummy":
		return NewDummy(stringParam(params, "strategy", "most_frequent")), nil

	case "log_reg":
		return NewLogisticRegression(
			floatParam(params, "C", 1.0),
			stringParam(params, "penalty", "l2"),
			stringParam(params, "solver", "liblinear"),
			intParam(params, "max_iter", 500),
		), nil

	case "random_forest":
		return NewRandomForest(
			intParam(params, "n_estimators", 100),
			depthFromParam(params["max_depth"]),
			intParam(params, "min_samples_split", 2),
			intParam(params, "min_samples_leaf", 1),
		), nil

	case "naive_bayes":
		return NewNaiveBayes(floatParam(params, "var_smoothing", 1e-9)), nil

	default:
		return nil, fmt.Errorf("unknown model: %s", name)
	}
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// depthFromParam maps the nil grid value to unbounded depth (0).
func depthFromParam(v any) int {
	switch d := v.(type) {
	case int:
		return d
	case int64:
		return int(d)
	case float64:
		return int(d)
	default:
		return 0
	}
}
