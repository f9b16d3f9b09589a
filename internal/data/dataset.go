package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Column layout of the UCI heart disease table. The raw export labels the
// outcome "num" (0-4); cleaning renames it and binarizes to disease presence.
var (
	FeatureColumns = []string{
		"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
		"thalach", "exang", "oldpeak", "slope", "ca", "thal",
	}
	NumericFeatures     = []string{"age", "trestbps", "chol", "thalach", "oldpeak"}
	CategoricalFeatures = []string{"sex", "cp", "fbs", "restecg", "exang", "slope", "ca", "thal"}
)

const (
	TargetColumn    = "target"
	rawTargetColumn = "num"
)

var ErrMissingColumns = errors.New("missing required columns")

// Dataset is a cleaned feature table. Rows in X align with Y; Missing marks
// cells without a value and is nil for loader output, which drops such rows.
type Dataset struct {
	Columns []string
	X       [][]decimal.Decimal
	Missing [][]bool
	Y       []int
}

func (d *Dataset) Len() int {
	return len(d.X)
}

func (d *Dataset) NumFeatures() int {
	return len(d.Columns)
}

func (d *Dataset) IsMissing(i, j int) bool {
	return d.Missing != nil && d.Missing[i][j]
}

// ColumnIndex returns -1 when the column is not present.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Subset copies the selected rows into a new dataset sharing the column slice.
func (d *Dataset) Subset(indices []int) *Dataset {
	sub := &Dataset{
		Columns: d.Columns,
		X:       make([][]decimal.Decimal, len(indices)),
		Y:       make([]int, len(indices)),
	}
	if d.Missing != nil {
		sub.Missing = make([][]bool, len(indices))
	}
	for i, idx := range indices {
		sub.X[i] = make([]decimal.Decimal, len(d.X[idx]))
		copy(sub.X[i], d.X[idx])
		sub.Y[i] = d.Y[idx]
		if d.Missing != nil {
			sub.Missing[i] = make([]bool, len(d.Missing[idx]))
			copy(sub.Missing[i], d.Missing[idx])
		}
	}
	return sub
}

// NormalizeHeader trims and lower-cases column names.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

// LoadCSV reads and cleans one CSV file: header names are normalized, the
// num column stands in for target when target is absent, rows with "?" or
// otherwise unparseable cells are dropped, and the target is binarized to
// raw > 0. A missing file surfaces fs.ErrNotExist through the wrapped error.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	header := NormalizeHeader(records[0])
	targetName := TargetColumn
	if indexOf(header, TargetColumn) < 0 && indexOf(header, rawTargetColumn) >= 0 {
		targetName = rawTargetColumn
	}

	required := append(append([]string{}, FeatureColumns...), targetName)
	if err := ValidateColumns(header, required); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	colIdx := make([]int, len(FeatureColumns))
	for i, name := range FeatureColumns {
		colIdx[i] = indexOf(header, name)
	}
	targetIdx := indexOf(header, targetName)

	ds := &Dataset{Columns: append([]string{}, FeatureColumns...)}
	for _, record := range records[1:] {
		row, ok := parseRow(record, colIdx)
		if !ok {
			continue
		}
		rawTarget, ok := parseCell(record, targetIdx)
		if !ok {
			continue
		}
		target := 0
		if rawTarget.GreaterThan(decimal.Zero) {
			target = 1
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, target)
	}

	if len(ds.X) == 0 {
		return nil, fmt.Errorf("dataset %s: no usable rows after cleaning", path)
	}
	return ds, nil
}

// Load resolves the dataset from the configured locations, preferring the
// processed file, then the raw export, then the bundled sample. The returned
// tag names which source was used.
func Load(processedPath, rawPath, samplePath string) (*Dataset, string, error) {
	sources := []struct {
		tag  string
		path string
	}{
		{"processed", processedPath},
		{"raw", rawPath},
		{"sample", samplePath},
	}

	var tried []string
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		ds, err := LoadCSV(src.path)
		if err == nil {
			return ds, src.tag, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
		tried = append(tried, src.path)
	}
	return nil, "", fmt.Errorf("no dataset found (tried %s): %w",
		strings.Join(tried, ", "), fs.ErrNotExist)
}

func parseRow(record []string, colIdx []int) ([]decimal.Decimal, bool) {
	row := make([]decimal.Decimal, len(colIdx))
	for i, idx := range colIdx {
		val, ok := parseCell(record, idx)
		if !ok {
			return nil, false
		}
		row[i] = val
	}
	return row, true
}

func parseCell(record []string, idx int) (decimal.Decimal, bool) {
	if idx < 0 || idx >= len(record) {
		return decimal.Zero, false
	}
	raw := strings.TrimSpace(record[idx])
	if raw == "" || raw == "?" {
		return decimal.Zero, false
	}
	val, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return val, true
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
