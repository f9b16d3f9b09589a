package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dummy is the most-frequent-class baseline. Every prediction is the majority
// training label and the probability mass sits entirely on it, so its scores
// carry no ranking information.
type Dummy struct {
	BaseModel
	Strategy string
	Majority int
}

func NewDummy(strategy string) *Dummy {
	if strategy == "" {
		strategy = "most_frequent"
	}
	return &Dummy{
		Strategy: strategy,
		BaseModel: BaseModel{
			Name: "dummy",
			Params: map[string]any{
				"strategy": strategy,
			},
		},
	}
}

func (d *Dummy) Fit(X [][]decimal.Decimal, y []int) error {
	if d.Strategy != "most_frequent" {
		return fmt.Errorf("unsupported dummy strategy: %s", d.Strategy)
	}
	if len(y) == 0 {
		return fmt.Errorf("cannot fit on empty labels")
	}

	d.Classes = ExtractClasses(y)

	counts := make(map[int]int)
	for _, label := range y {
		counts[label]++
	}
	// Count ties resolve to the smallest label; Classes is sorted.
	d.Majority = d.Classes[0]
	best := counts[d.Majority]
	for _, class := range d.Classes[1:] {
		if counts[class] > best {
			best = counts[class]
			d.Majority = class
		}
	}
	return nil
}

func (d *Dummy) Predict(X [][]decimal.Decimal) []int {
	predictions := make([]int, len(X))
	for i := range predictions {
		predictions[i] = d.Majority
	}
	return predictions
}

func (d *Dummy) PredictProba(X [][]decimal.Decimal) [][]decimal.Decimal {
	proba := make([][]decimal.Decimal, len(X))
	for i := range proba {
		proba[i] = make([]decimal.Decimal, len(d.Classes))
		for j, class := range d.Classes {
			if class == d.Majority {
				proba[i][j] = decimal.NewFromInt(1)
			} else {
				proba[i][j] = decimal.Zero
			}
		}
	}
	return proba
}

func (d *Dummy) GetClasses() []int {
	return d.Classes
}

func (d *Dummy) Reset() {
	d.Majority = 0
	d.Classes = nil
}
