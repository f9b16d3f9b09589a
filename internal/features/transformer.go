package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
)

// NumericStats holds the fitted fill and scaling values of one numeric column.
type NumericStats struct {
	Column string
	Median decimal.Decimal
	Mean   decimal.Decimal
	Std    decimal.Decimal
}

// CategoryStats holds the fitted fill value and category set of one
// categorical column. Categories are sorted ascending.
type CategoryStats struct {
	Column     string
	Mode       decimal.Decimal
	Categories []decimal.Decimal
}

// ColumnTransformer turns cleaned rows into the model feature matrix: numeric
// columns are median-filled and standard-scaled, categorical columns are
// mode-filled and one-hot encoded. Categories unseen during Fit encode to an
// all-zero block instead of failing.
type ColumnTransformer struct {
	NumericColumns     []string
	CategoricalColumns []string
	Numeric            []NumericStats
	Categorical        []CategoryStats
	Fitted             bool
}

// NewColumnTransformer uses the canonical heart-disease column split.
func NewColumnTransformer() *ColumnTransformer {
	return &ColumnTransformer{
		NumericColumns:     append([]string{}, data.NumericFeatures...),
		CategoricalColumns: append([]string{}, data.CategoricalFeatures...),
	}
}

func (ct *ColumnTransformer) Fit(ds *data.Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return fmt.Errorf("cannot fit transformer on empty dataset")
	}

	ct.Numeric = make([]NumericStats, len(ct.NumericColumns))
	for i, name := range ct.NumericColumns {
		values, err := observedColumn(ds, name)
		if err != nil {
			return err
		}
		ct.Numeric[i] = fitNumeric(name, values)
	}

	ct.Categorical = make([]CategoryStats, len(ct.CategoricalColumns))
	for i, name := range ct.CategoricalColumns {
		values, err := observedColumn(ds, name)
		if err != nil {
			return err
		}
		ct.Categorical[i] = fitCategorical(name, values)
	}

	ct.Fitted = true
	return nil
}

func (ct *ColumnTransformer) Transform(ds *data.Dataset) ([][]decimal.Decimal, error) {
	if !ct.Fitted {
		return nil, fmt.Errorf("transformer must be fitted before transform")
	}

	numIdx := make([]int, len(ct.Numeric))
	for i, stats := range ct.Numeric {
		idx := ds.ColumnIndex(stats.Column)
		if idx < 0 {
			return nil, fmt.Errorf("column %s not present in dataset", stats.Column)
		}
		numIdx[i] = idx
	}
	catIdx := make([]int, len(ct.Categorical))
	for i, stats := range ct.Categorical {
		idx := ds.ColumnIndex(stats.Column)
		if idx < 0 {
			return nil, fmt.Errorf("column %s not present in dataset", stats.Column)
		}
		catIdx[i] = idx
	}

	out := make([][]decimal.Decimal, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := make([]decimal.Decimal, 0, ct.NumOutputFeatures())

		for j, stats := range ct.Numeric {
			val := ds.X[i][numIdx[j]]
			if ds.IsMissing(i, numIdx[j]) {
				val = stats.Median
			}
			row = append(row, val.Sub(stats.Mean).Div(stats.Std))
		}

		for j, stats := range ct.Categorical {
			val := ds.X[i][catIdx[j]]
			if ds.IsMissing(i, catIdx[j]) {
				val = stats.Mode
			}
			for _, cat := range stats.Categories {
				if val.Equal(cat) {
					row = append(row, decimal.NewFromInt(1))
				} else {
					row = append(row, decimal.Zero)
				}
			}
		}

		out[i] = row
	}
	return out, nil
}

func (ct *ColumnTransformer) FitTransform(ds *data.Dataset) ([][]decimal.Decimal, error) {
	if err := ct.Fit(ds); err != nil {
		return nil, err
	}
	return ct.Transform(ds)
}

// NumOutputFeatures is the transformed matrix width.
func (ct *ColumnTransformer) NumOutputFeatures() int {
	n := len(ct.Numeric)
	for _, stats := range ct.Categorical {
		n += len(stats.Categories)
	}
	return n
}

// FeatureNames lists the output columns: numeric names first, then one
// indicator per fitted category as column_value.
func (ct *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, ct.NumOutputFeatures())
	for _, stats := range ct.Numeric {
		names = append(names, stats.Column)
	}
	for _, stats := range ct.Categorical {
		for _, cat := range stats.Categories {
			names = append(names, fmt.Sprintf("%s_%s", stats.Column, cat.String()))
		}
	}
	return names
}

func observedColumn(ds *data.Dataset, name string) ([]decimal.Decimal, error) {
	idx := ds.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %s not present in dataset", name)
	}
	values := make([]decimal.Decimal, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		if ds.IsMissing(i, idx) {
			continue
		}
		values = append(values, ds.X[i][idx])
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("column %s has no observed values", name)
	}
	return values, nil
}

func fitNumeric(name string, values []decimal.Decimal) NumericStats {
	n := decimal.NewFromInt(int64(len(values)))

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	mean := sum.Div(n)

	variance := decimal.Zero
	for _, v := range values {
		diff := v.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(n)

	varFloat, _ := variance.Float64()
	std := decimal.NewFromFloat(math.Sqrt(varFloat))
	if std.IsZero() {
		std = decimal.NewFromInt(1)
	}

	return NumericStats{
		Column: name,
		Median: median(values),
		Mean:   mean,
		Std:    std,
	}
}

func fitCategorical(name string, values []decimal.Decimal) CategoryStats {
	counts := make(map[string]int)
	byKey := make(map[string]decimal.Decimal)
	for _, v := range values {
		key := v.String()
		counts[key]++
		byKey[key] = v
	}

	categories := make([]decimal.Decimal, 0, len(byKey))
	for _, v := range byKey {
		categories = append(categories, v)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].LessThan(categories[j])
	})

	// Ties on frequency go to the smallest value, keeping the fill deterministic.
	mode := categories[0]
	best := counts[mode.String()]
	for _, cat := range categories[1:] {
		if c := counts[cat.String()]; c > best {
			best = c
			mode = cat
		}
	}

	return CategoryStats{Column: name, Mode: mode, Categories: categories}
}

func median(values []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}
