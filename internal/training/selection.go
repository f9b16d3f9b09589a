package training

// SelectBest picks the winning result by the lexicographic (roc_auc,
// accuracy) key: ROC-AUC decides, accuracy breaks exact ties. Full ties go
// to the latest spec in catalog order. Returns -1 for an empty slice.
func SelectBest(results []SpecResult) int {
	best := -1
	for i, result := range results {
		if best < 0 || betterOrEqual(result, results[best]) {
			best = i
		}
	}
	return best
}

func betterOrEqual(a, b SpecResult) bool {
	aAUC, bAUC := a.Metrics["roc_auc"], b.Metrics["roc_auc"]
	if aAUC != bAUC {
		return aAUC > bAUC
	}
	return a.Metrics["accuracy"] >= b.Metrics["accuracy"]
}
