package evaluation

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
)

// TrainTestSplitter produces a stratified held-out split: each class keeps
// its proportion in both halves and contributes at least one test row.
type TrainTestSplitter struct {
	TestSize float64
	Seed     int64
	Shuffle  bool
}

func NewTrainTestSplitter(testSize float64, seed int64, shuffle bool) *TrainTestSplitter {
	return &TrainTestSplitter{TestSize: testSize, Seed: seed, Shuffle: shuffle}
}

func (tts *TrainTestSplitter) StratifiedSplit(ds *data.Dataset) (train, test *data.Dataset, err error) {
	if ds == nil || ds.Len() == 0 {
		return nil, nil, fmt.Errorf("cannot split empty dataset")
	}
	if tts.TestSize <= 0 || tts.TestSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be between 0 and 1, got %v", tts.TestSize)
	}

	buckets := classBuckets(ds.Y)
	rng := rand.New(rand.NewSource(tts.Seed))

	var trainIdx, testIdx []int
	for _, class := range sortedClasses(buckets) {
		indices := buckets[class]
		if tts.Shuffle {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		testCount := int(float64(len(indices)) * tts.TestSize)
		if testCount == 0 {
			testCount = 1
		}
		trainCount := len(indices) - testCount

		trainIdx = append(trainIdx, indices[:trainCount]...)
		testIdx = append(testIdx, indices[trainCount:]...)
	}

	if tts.Shuffle {
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})
		rng.Shuffle(len(testIdx), func(i, j int) {
			testIdx[i], testIdx[j] = testIdx[j], testIdx[i]
		})
	}

	return ds.Subset(trainIdx), ds.Subset(testIdx), nil
}

// StratifiedKFold assigns every row to one of k validation folds, spreading
// each class round-robin so every fold keeps the class balance. The returned
// slices are the validation index sets in fold order.
func StratifiedKFold(y []int, k int, seed int64) ([][]int, error) {
	if k < 2 || k > len(y) {
		return nil, fmt.Errorf("folds must be between 2 and %d, got %d", len(y), k)
	}

	buckets := classBuckets(y)
	rng := rand.New(rand.NewSource(seed))

	folds := make([][]int, k)
	for _, class := range sortedClasses(buckets) {
		indices := buckets[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for i, idx := range indices {
			fold := i % k
			folds[fold] = append(folds[fold], idx)
		}
	}

	for _, fold := range folds {
		if len(fold) == 0 {
			return nil, fmt.Errorf("fold count %d too high for %d rows", k, len(y))
		}
		sort.Ints(fold)
	}
	return folds, nil
}

// TrainIndices is the complement of one validation fold.
func TrainIndices(n int, validation []int) []int {
	inFold := make(map[int]bool, len(validation))
	for _, idx := range validation {
		inFold[idx] = true
	}
	train := make([]int, 0, n-len(validation))
	for i := 0; i < n; i++ {
		if !inFold[i] {
			train = append(train, i)
		}
	}
	return train
}

func classBuckets(y []int) map[int][]int {
	buckets := make(map[int][]int)
	for i, label := range y {
		buckets[label] = append(buckets[label], i)
	}
	return buckets
}

func sortedClasses(buckets map[int][]int) []int {
	classes := make([]int, 0, len(buckets))
	for class := range buckets {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes
}
