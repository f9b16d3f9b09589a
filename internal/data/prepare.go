package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// PrepareResult reports what a cleaning pass did.
type PrepareResult struct {
	Rows    int
	Kept    int
	Dropped int
}

// streamingCleaner walks a raw CSV row by row, so a full UCI export never has
// to sit in memory.
type streamingCleaner struct {
	file    *os.File
	reader  *csv.Reader
	colIdx  []int
	tgtIdx  int
	pending []string
}

func newStreamingCleaner(path string) (*streamingCleaner, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw dataset %s: %w", path, err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	sc := &streamingCleaner{file: file, reader: reader}

	header := NormalizeHeader(first)
	if looksLikeHeader(header) {
		targetName := TargetColumn
		if indexOf(header, TargetColumn) < 0 && indexOf(header, rawTargetColumn) >= 0 {
			targetName = rawTargetColumn
		}
		required := append(append([]string{}, FeatureColumns...), targetName)
		if err := ValidateColumns(header, required); err != nil {
			file.Close()
			return nil, fmt.Errorf("raw dataset %s: %w", path, err)
		}
		sc.colIdx = make([]int, len(FeatureColumns))
		for i, name := range FeatureColumns {
			sc.colIdx[i] = indexOf(header, name)
		}
		sc.tgtIdx = indexOf(header, targetName)
		return sc, nil
	}

	// Headerless UCI export: positional columns, outcome last.
	if len(first) != len(FeatureColumns)+1 {
		file.Close()
		return nil, fmt.Errorf("raw dataset %s: headerless row has %d columns, want %d",
			path, len(first), len(FeatureColumns)+1)
	}
	sc.colIdx = make([]int, len(FeatureColumns))
	for i := range FeatureColumns {
		sc.colIdx[i] = i
	}
	sc.tgtIdx = len(FeatureColumns)
	sc.pending = first
	return sc, nil
}

// next returns the cleaned feature cells and binarized target of the next
// usable row. ok is false for dropped rows; io.EOF ends the stream.
func (sc *streamingCleaner) next() (row []string, ok bool, err error) {
	var record []string
	if sc.pending != nil {
		record = sc.pending
		sc.pending = nil
	} else {
		record, err = sc.reader.Read()
		if err != nil {
			return nil, false, err
		}
	}

	out := make([]string, 0, len(sc.colIdx)+1)
	for _, idx := range sc.colIdx {
		val, valid := parseCell(record, idx)
		if !valid {
			return nil, false, nil
		}
		out = append(out, val.String())
	}

	rawTarget, valid := parseCell(record, sc.tgtIdx)
	if !valid {
		return nil, false, nil
	}
	target := "0"
	if rawTarget.GreaterThan(decimal.Zero) {
		target = "1"
	}
	return append(out, target), true, nil
}

func (sc *streamingCleaner) Close() error {
	return sc.file.Close()
}

// Prepare cleans the raw export into the processed CSV the loader prefers:
// canonical header, no missing cells, binary target column. The output is
// written to a temp file and renamed into place.
func Prepare(rawPath, processedPath string) (*PrepareResult, error) {
	cleaner, err := newStreamingCleaner(rawPath)
	if err != nil {
		return nil, err
	}
	defer cleaner.Close()

	if err := os.MkdirAll(filepath.Dir(processedPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(processedPath), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(processedPath), ".heart-*.csv")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	header := append(append([]string{}, FeatureColumns...), TargetColumn)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	result := &PrepareResult{}
	for {
		row, ok, err := cleaner.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			tmp.Close()
			return nil, fmt.Errorf("reading %s: %w", rawPath, err)
		}
		result.Rows++
		if !ok {
			result.Dropped++
			continue
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("writing row: %w", err)
		}
		result.Kept++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("flushing %s: %w", processedPath, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	if result.Kept == 0 {
		return nil, fmt.Errorf("raw dataset %s: no usable rows after cleaning", rawPath)
	}
	if err := os.Rename(tmpName, processedPath); err != nil {
		return nil, fmt.Errorf("replacing %s: %w", processedPath, err)
	}
	return result, nil
}

// looksLikeHeader reports whether any cell fails numeric/placeholder parsing,
// which only column names do.
func looksLikeHeader(cells []string) bool {
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || c == "?" {
			continue
		}
		if _, err := decimal.NewFromString(c); err != nil {
			return true
		}
	}
	return false
}
