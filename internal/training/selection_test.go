package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func result(name string, auc, acc float64) SpecResult {
	return SpecResult{
		Name:    name,
		Metrics: map[string]float64{"roc_auc": auc, "accuracy": acc},
	}
}

func TestSelectBestAUCTieBrokenByAccuracy(t *testing.T) {
	results := []SpecResult{
		result("dummy", 0.5, 0.9),
		result("log_reg", 0.9, 0.7),
		result("random_forest", 0.9, 0.8),
	}

	assert.Equal(t, 2, SelectBest(results))
}

func TestSelectBestAUCDominates(t *testing.T) {
	results := []SpecResult{
		result("a", 0.95, 0.5),
		result("b", 0.6, 0.99),
	}

	assert.Equal(t, 0, SelectBest(results))
}

func TestSelectBestFullTieGoesToLatest(t *testing.T) {
	results := []SpecResult{
		result("a", 0.9, 0.8),
		result("b", 0.9, 0.8),
		result("c", 0.9, 0.8),
	}

	assert.Equal(t, 2, SelectBest(results))
}

func TestSelectBestSingleResult(t *testing.T) {
	assert.Equal(t, 0, SelectBest([]SpecResult{result("only", 0.5, 0.5)}))
}

func TestSelectBestEmpty(t *testing.T) {
	assert.Equal(t, -1, SelectBest(nil))
}
