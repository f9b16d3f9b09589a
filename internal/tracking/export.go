package tracking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/features"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/persistence"
)

const (
	// BundleFile is the serialized pipeline inside an export directory.
	BundleFile = "model.gob"
	// MetadataFile is the sidecar next to it.
	MetadataFile = "metadata.json"
)

// ExportMetadata is the sidecar the serving layer reads to identify the
// deployed model.
type ExportMetadata struct {
	RunID        string `json:"run_id"`
	ModelName    string `json:"model_name"`
	ArtifactPath string `json:"artifact_path"`
}

// ExportModel serializes the winning pipeline to the fixed artifact
// directory. The directory is cleared first so nothing from a previous
// export survives.
func ExportModel(pipeline *features.Pipeline, runID, modelName, dir string) (*ExportMetadata, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clearing export dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir %s: %w", dir, err)
	}

	bundlePath := filepath.Join(dir, BundleFile)
	bundle := persistence.NewModelBundle(pipeline, runID)
	if err := bundle.Save(bundlePath); err != nil {
		return nil, err
	}

	meta := &ExportMetadata{
		RunID:        runID,
		ModelName:    modelName,
		ArtifactPath: bundlePath,
	}
	blob, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling export metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), blob, 0o644); err != nil {
		return nil, fmt.Errorf("writing export metadata: %w", err)
	}
	return meta, nil
}

// ReadExportMetadata loads the sidecar from an export directory.
func ReadExportMetadata(dir string) (*ExportMetadata, error) {
	blob, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("reading export metadata: %w", err)
	}
	var meta ExportMetadata
	if err := json.Unmarshal(blob, &meta); err != nil {
		return nil, fmt.Errorf("parsing export metadata: %w", err)
	}
	return &meta, nil
}

// LoadExportedModel reads the bundle and sidecar of an export directory.
func LoadExportedModel(dir string) (*persistence.ModelBundle, *ExportMetadata, error) {
	meta, err := ReadExportMetadata(dir)
	if err != nil {
		return nil, nil, err
	}
	bundle, err := persistence.LoadModelBundle(filepath.Join(dir, BundleFile))
	if err != nil {
		return nil, nil, err
	}
	return bundle, meta, nil
}
