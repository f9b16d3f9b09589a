package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/features"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/models"
)

// ModelBundle is the serialized form of one fitted pipeline: the column
// transformer with its fitted statistics plus the estimator.
type ModelBundle struct {
	Pipeline  *features.Pipeline
	Metadata  BundleMetadata
	CreatedAt time.Time
}

type BundleMetadata struct {
	ModelName  string
	RunID      string
	Parameters map[string]any
	Features   []string
}

func NewModelBundle(pipeline *features.Pipeline, runID string) *ModelBundle {
	return &ModelBundle{
		Pipeline:  pipeline,
		CreatedAt: time.Now().UTC(),
		Metadata: BundleMetadata{
			ModelName:  pipeline.Name(),
			RunID:      runID,
			Parameters: pipeline.Params(),
			Features:   pipeline.Transformer.FeatureNames(),
		},
	}
}

// registerTypes names every concrete estimator that can sit behind the
// Pipeline's Model interface.
func registerTypes() {
	gob.Register(&models.Dummy{})
	gob.Register(&models.LogisticRegression{})
	gob.Register(&models.DecisionTree{})
	gob.Register(&models.RandomForest{})
	gob.Register(&models.NaiveBayes{})
	gob.Register(&models.TreeNode{})
}

func (mb *ModelBundle) Save(filename string) error {
	registerTypes()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating bundle file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(mb); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

func LoadModelBundle(filename string) (*ModelBundle, error) {
	registerTypes()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening bundle file: %w", err)
	}
	defer file.Close()

	var bundle ModelBundle
	if err := gob.NewDecoder(file).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	if bundle.Pipeline == nil || bundle.Pipeline.Estimator == nil {
		return nil, fmt.Errorf("bundle %s has no pipeline", filename)
	}
	return &bundle, nil
}
