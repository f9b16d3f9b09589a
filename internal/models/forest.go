package models

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// RandomForest bags seeded decision trees over bootstrap samples with
// sqrt-feature subsampling. Each tree's RNG seeds from its index, so fits are
// reproducible regardless of how many workers build trees concurrently.
type RandomForest struct {
	BaseModel
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Trees           []*DecisionTree
	FeatureIndices  [][]int
	MaxWorkers      int
}

func NewRandomForest(nEstimators, maxDepth, minSamplesSplit, minSamplesLeaf int) *RandomForest {
	if nEstimators <= 0 {
		nEstimators = 100
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}
	if minSamplesLeaf <= 0 {
		minSamplesLeaf = 1
	}

	rf := &RandomForest{
		NEstimators:     nEstimators,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		MinSamplesLeaf:  minSamplesLeaf,
		MaxWorkers:      4,
		BaseModel: BaseModel{
			Name: "random_forest",
			Params: map[string]any{
				"n_estimators":      nEstimators,
				"min_samples_split": minSamplesSplit,
				"min_samples_leaf":  minSamplesLeaf,
			},
		},
	}
	setDepthParam(rf.Params, maxDepth)
	return rf
}

func (rf *RandomForest) Fit(X [][]decimal.Decimal, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("cannot fit on empty dataset")
	}

	rf.Classes = ExtractClasses(y)
	nFeatures := len(X[0])

	rf.MaxFeatures = int(math.Sqrt(float64(nFeatures)))
	if rf.MaxFeatures < 1 {
		rf.MaxFeatures = 1
	}

	rf.Trees = make([]*DecisionTree, rf.NEstimators)
	rf.FeatureIndices = make([][]int, rf.NEstimators)

	workers := rf.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > rf.NEstimators {
		workers = rf.NEstimators
	}

	errs := make([]error, rf.NEstimators)
	jobs := make(chan int, rf.NEstimators)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tree, features, err := rf.trainSingleTree(X, y, int64(i))
				rf.Trees[i] = tree
				rf.FeatureIndices[i] = features
				errs[i] = err
			}
		}()
	}

	for i := 0; i < rf.NEstimators; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("tree %d training failed: %w", i, err)
		}
	}
	return nil
}

func (rf *RandomForest) trainSingleTree(X [][]decimal.Decimal, y []int, seed int64) (*DecisionTree, []int, error) {
	r := rand.New(rand.NewSource(seed))

	n := len(X)
	XBoot := make([][]decimal.Decimal, n)
	yBoot := make([]int, n)
	for i := 0; i < n; i++ {
		idx := r.Intn(n)
		XBoot[i] = X[idx]
		yBoot[i] = y[idx]
	}

	features := rf.selectRandomFeatures(len(X[0]), r)

	XSelected := make([][]decimal.Decimal, n)
	for i := range XBoot {
		XSelected[i] = make([]decimal.Decimal, len(features))
		for j, feat := range features {
			XSelected[i][j] = XBoot[i][feat]
		}
	}

	tree := NewDecisionTree(rf.MaxDepth, rf.MinSamplesSplit, rf.MinSamplesLeaf)
	err := tree.Fit(XSelected, yBoot)

	return tree, features, err
}

func (rf *RandomForest) selectRandomFeatures(nFeatures int, r *rand.Rand) []int {
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}

	for i := 0; i < rf.MaxFeatures && i < nFeatures; i++ {
		j := i + r.Intn(nFeatures-i)
		features[i], features[j] = features[j], features[i]
	}

	return features[:rf.MaxFeatures]
}

// votes counts tree predictions per class index, so tie handling follows the
// ascending class order instead of map iteration.
func (rf *RandomForest) votes(sample []decimal.Decimal) []int {
	counts := make([]int, len(rf.Classes))
	classIdx := make(map[int]int, len(rf.Classes))
	for i, class := range rf.Classes {
		classIdx[class] = i
	}

	for j, tree := range rf.Trees {
		selected := make([]decimal.Decimal, len(rf.FeatureIndices[j]))
		for k, feat := range rf.FeatureIndices[j] {
			selected[k] = sample[feat]
		}
		prediction := tree.Predict([][]decimal.Decimal{selected})[0]
		counts[classIdx[prediction]]++
	}
	return counts
}

func (rf *RandomForest) Predict(X [][]decimal.Decimal) []int {
	predictions := make([]int, len(X))
	for i, sample := range X {
		counts := rf.votes(sample)
		best := 0
		for j, count := range counts {
			if count > counts[best] {
				best = j
			}
		}
		predictions[i] = rf.Classes[best]
	}
	return predictions
}

func (rf *RandomForest) PredictProba(X [][]decimal.Decimal) [][]decimal.Decimal {
	proba := make([][]decimal.Decimal, len(X))
	total := decimal.NewFromInt(int64(rf.NEstimators))
	for i, sample := range X {
		counts := rf.votes(sample)
		proba[i] = make([]decimal.Decimal, len(rf.Classes))
		for j, count := range counts {
			proba[i][j] = decimal.NewFromInt(int64(count)).Div(total)
		}
	}
	return proba
}

func (rf *RandomForest) GetClasses() []int {
	return rf.Classes
}

func (rf *RandomForest) Reset() {
	rf.Trees = nil
	rf.FeatureIndices = nil
	rf.Classes = nil
}
