package data

import (
	"fmt"
	"strings"
)

// ValidateColumns checks that every required column appears in the normalized
// header. The error lists the absent names.
func ValidateColumns(header, required []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// ValidateDataset enforces the cleaned-row invariants: rows and labels align,
// every row carries the full feature set, and the target is binary.
func (dv *DataValidator) ValidateDataset(ds *Dataset) error {
	if ds == nil || len(ds.X) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	if len(ds.X) != len(ds.Y) {
		return fmt.Errorf("feature matrix and labels have different lengths: %d vs %d", len(ds.X), len(ds.Y))
	}

	nFeatures := ds.NumFeatures()
	for i, row := range ds.X {
		if len(row) != nFeatures {
			return fmt.Errorf("inconsistent feature count at row %d: expected %d, got %d", i, nFeatures, len(row))
		}
	}

	for i, label := range ds.Y {
		if label != 0 && label != 1 {
			return fmt.Errorf("target at row %d is %d, expected 0 or 1", i, label)
		}
	}
	return nil
}

func (dv *DataValidator) ValidateLabels(y []int) error {
	if len(y) == 0 {
		return fmt.Errorf("labels are empty")
	}

	classCount := make(map[int]int)
	for _, label := range y {
		classCount[label]++
	}
	if len(classCount) < 2 {
		return fmt.Errorf("dataset must have at least 2 classes, found %d", len(classCount))
	}
	return nil
}

// ClassDistribution counts rows per target class.
func ClassDistribution(y []int) map[int]int {
	dist := make(map[int]int)
	for _, label := range y {
		dist[label]++
	}
	return dist
}
