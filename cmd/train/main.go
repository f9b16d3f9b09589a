package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/config"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/logging"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/tracking"
	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/training"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file (default: config.yaml when present)")
	dataFile := flag.String("data", "", "Path to a processed dataset CSV, overriding the configured locations")
	catalogFile := flag.String("catalog", "", "Path to a YAML model catalog overriding the built-in one")
	quick := flag.Bool("quick", false, "Use reduced grids and fewer folds for a fast run")
	testSize := flag.Float64("test-size", 0.2, "Held-out fraction (0.0-1.0)")
	workers := flag.Int("workers", 1, "Grid-search worker count")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.ProcessedDataPath = *dataFile
		cfg.RawDataPath = ""
		cfg.SampleDataPath = ""
	}

	logger, err := logging.Setup(cfg.LogLevel, "text")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	catalog := training.Catalog(*quick)
	if *catalogFile != "" {
		catalog, err = training.LoadCatalog(*catalogFile, *quick)
		if err != nil {
			fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := tracking.NewStore(cfg.TrackingDir, cfg.ExperimentName,
		logging.ForSubsystem(logger, logging.Tracking))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracking: %v\n", err)
		os.Exit(1)
	}

	trainer := &training.Trainer{
		Config:   cfg,
		Store:    store,
		Catalog:  catalog,
		Quick:    *quick,
		TestSize: *testSize,
		Workers:  *workers,
		Logger:   logger,
	}

	report, err := trainer.Run()
	if err != nil {
		color.Red("Training failed: %v", err)
		os.Exit(1)
	}

	printReport(report)
}

func printReport(report *training.Report) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("\nTraining results")
	for i, result := range report.Results {
		marker := "  "
		if i == report.BestIndex {
			marker = green.Sprint("* ")
		}
		fmt.Printf("%s%-14s roc_auc=%.4f accuracy=%.4f precision=%.4f recall=%.4f cv=%.4f\n",
			marker, result.Name,
			result.Metrics["roc_auc"], result.Metrics["accuracy"],
			result.Metrics["precision"], result.Metrics["recall"],
			result.Metrics["best_cv_score"])
	}
	for _, failure := range report.Failures {
		yellow.Printf("  %-14s failed: %v\n", failure.Name, failure.Err)
	}

	best := report.Best()
	fmt.Println()
	green.Printf("Best model: %s (run %s)\n", best.Name, best.RunID)
	fmt.Printf("Exported to:  %s\n", report.Export.ArtifactPath)
	fmt.Printf("Summary:      %s\n", report.SummaryPath)
}
