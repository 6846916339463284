package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/arlet-state/internal/config"
	"github.com/ducminhle1904/arlet-state/internal/logger"
	"github.com/ducminhle1904/arlet-state/internal/store"
)

const (
	AppName    = "ARL-ET State Export"
	AppVersion = "1.0.0"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Path to environment file")
		collection  = flag.String("collection", "", "Logical collection to export (required)")
		outputDir   = flag.String("output", "results", "Output directory for the report")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if *collection == "" {
		fmt.Printf("Usage: state-export -collection <name> [options]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", *envFile, err)
	}

	cfg := config.Load(config.OSEnv())
	logg := logger.NewWithWriter(os.Stderr, cfg.Logging.Level)

	client, err := store.New(cfg, logg)
	if err != nil {
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer client.Close()

	docs, err := client.ReadCollection(context.Background(), *collection)
	if err != nil {
		log.Fatalf("Failed to read collection %s: %v", *collection, err)
	}

	if len(docs) == 0 {
		fmt.Printf("Collection %s is empty, nothing to export\n", *collection)
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", *collection, time.Now().Format("2006-01-02"))
	path := filepath.Join(*outputDir, filename)

	if err := writeCollectionXLSX(path, *collection, docs); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	fmt.Printf("✅ Exported %d documents to %s\n", len(docs), path)
}
