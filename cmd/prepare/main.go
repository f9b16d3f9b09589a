package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/config"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/logging"
)

// Cleveland subset of the UCI heart disease archive, the headerless export
// the cleaner attaches the canonical header to.
const defaultDatasetURL = "https://archive.ics.uci.edu/ml/machine-learning-databases/heart-disease/processed.cleveland.data"

func main() {
	configFile := flag.String("config", "", "Path to configuration file (default: config.yaml when present)")
	input := flag.String("input", "", "Local raw CSV to clean instead of downloading")
	url := flag.String("url", defaultDatasetURL, "Dataset URL to download when no raw file exists")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.LogLevel, "text")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	log := logging.ForSubsystem(logger, logging.Data)

	rawPath := cfg.RawDataPath
	if *input != "" {
		rawPath = *input
	} else if _, err := os.Stat(rawPath); err != nil {
		log.Info("downloading dataset", "url", *url, "to", rawPath)
		if err := download(*url, rawPath); err != nil {
			log.Error("download failed", "error", err)
			os.Exit(1)
		}
	}

	result, err := data.Prepare(rawPath, cfg.ProcessedDataPath)
	if err != nil {
		log.Error("prepare failed", "error", err)
		os.Exit(1)
	}

	log.Info("dataset prepared", "from", rawPath, "to", cfg.ProcessedDataPath,
		"rows", result.Rows, "kept", result.Kept, "dropped", result.Dropped)
	fmt.Printf("Cleaned %d rows (%d kept, %d dropped) into %s\n",
		result.Rows, result.Kept, result.Dropped, cfg.ProcessedDataPath)
}

func download(url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}
