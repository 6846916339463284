package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/arlet-state/internal/config"
	"github.com/ducminhle1904/arlet-state/internal/logger"
)

const (
	AppName    = "ARL-ET Config Check"
	AppVersion = "1.0.0"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Path to environment file")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	loadEnvironment(*envFile)

	cfg := config.Load(config.OSEnv())
	logg := logger.NewWithWriter(os.Stderr, cfg.Logging.Level)

	results := cfg.ValidateAll(logg)
	printValidationTable(cfg, results)

	for _, passed := range results {
		if !passed {
			os.Exit(1)
		}
	}
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}
