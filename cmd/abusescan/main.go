// Command abusescan runs the forensic analysis pipeline over a CSV
// message log and writes the enriched CSV, the forensic report and the
// chart into the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/forensiq/abusescan/pkg/abusescan"
	"github.com/forensiq/abusescan/pkg/abusescan/config"
	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
	"github.com/forensiq/abusescan/pkg/abusescan/integrity/filelog"
	intsqlite "github.com/forensiq/abusescan/pkg/abusescan/integrity/sqlite"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
)

func main() {
	var (
		input   = flag.String("input", "", "Path to CSV message log (required)")
		preset  = flag.String("preset", "general", "Keyword preset: general, harassment, cyberbullying, combined")
		cfgPath = flag.String("config", "", "Optional YAML configuration file")
		outDir  = flag.String("out", "", "Override output directory")
		workers = flag.Int("workers", 0, "Override per-row analysis workers")
		quiet   = flag.Bool("quiet", false, "Only log warnings and errors")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *quiet {
		cfg.Verbose = false
	}

	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var intlog integrity.Log
	switch cfg.Output.IntegrityBackend {
	case "sqlite":
		intlog, err = intsqlite.Open(ctx, cfg.IntegrityLogPath())
		if err != nil {
			log.Fatalf("open integrity log: %v", err)
		}
	default:
		intlog = filelog.Open(cfg.IntegrityLogPath())
	}

	analyzer, err := abusescan.New(abusescan.Options{
		Config:    cfg,
		Logger:    logger,
		Integrity: intlog,
	})
	if err != nil {
		log.Fatalf("configure analyzer: %v", err)
	}
	defer analyzer.Close()

	res, err := analyzer.Run(ctx, abusescan.RunRequest{
		InputPath: *input,
		Preset:    *preset,
	})
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if cfg.Verbose {
		printSummary(res, cfg, *input)
	}
	for _, artErr := range res.ArtifactErrors {
		logger.Error("artifact not written", zap.Error(artErr))
	}
}

func printSummary(res abusescan.RunResult, cfg config.Config, input string) {
	sum := res.Summary
	rule := strings.Repeat("=", 70)

	fmt.Println(rule)
	fmt.Println("FORENSIC ANALYSIS SUMMARY")
	fmt.Println(rule)
	fmt.Printf("File: %s\n", input)
	fmt.Printf("Hash (%s): %s\n", strings.ToUpper(cfg.HashAlgorithm), res.Digest)
	fmt.Printf("Run ID: %s\n", res.RunID)
	fmt.Printf("Analysis Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Total Messages: %d\n", sum.TotalMessages)
	fmt.Printf("Abusive Messages: %d (%.2f%%)\n", sum.AbusiveCount, sum.AbusivePercentage)
	fmt.Printf("Average Polarity: %.4f\n", sum.AvgPolarity)
	fmt.Printf("Average Subjectivity: %.4f\n", sum.AvgSubjectivity)

	fmt.Println("\nSentiment Distribution:")
	classes := make([]sentiment.Class, 0, len(sum.SentimentCounts))
	for class := range sum.SentimentCounts {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	for _, class := range classes {
		fmt.Printf("  - %s: %d (%.2f%%)\n", class, sum.SentimentCounts[class], sum.ClassPercentage(class))
	}
	fmt.Println(rule)

	if res.ResultsCSV != "" {
		fmt.Printf("Results CSV: %s\n", res.ResultsCSV)
	}
	if res.ReportTXT != "" {
		fmt.Printf("Forensic Report: %s\n", res.ReportTXT)
	}
	if res.ChartPNG != "" {
		fmt.Printf("Visualization: %s\n", res.ChartPNG)
	}
	fmt.Printf("Integrity Log: %s\n", cfg.IntegrityLogPath())
}
