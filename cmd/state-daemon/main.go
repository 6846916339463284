package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/arlet-state/internal/config"
	"github.com/ducminhle1904/arlet-state/internal/logger"
	"github.com/ducminhle1904/arlet-state/internal/monitoring"
	"github.com/ducminhle1904/arlet-state/internal/store"
)

const (
	AppName    = "ARL-ET State Daemon"
	AppVersion = "1.0.0"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Path to environment file")
		metricsPort = flag.Int("metrics-port", 8080, "Port for Prometheus metrics endpoint")
		healthPort  = flag.Int("health-port", 8081, "Port for health check endpoint")
		heartbeat   = flag.Duration("heartbeat", time.Minute, "Interval between heartbeat writes")
		collection  = flag.String("collection", "system_state", "Logical collection for heartbeat documents")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", *envFile, err)
	}

	cfg := config.Load(config.OSEnv())

	logg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Close()

	if passed := cfg.ValidateAll(logg); !passed["firebase"] {
		log.Fatal("Firebase configuration is invalid, cannot start (see log for details)")
	}

	client, err := store.Shared(cfg, logg)
	if err != nil {
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.SetConnected(true)

	startHTTPServers(*metricsPort, *healthPort, healthChecker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go heartbeatLoop(ctx, client, healthChecker, cfg, *collection, *heartbeat)

	logg.Info("%s started (project: %s, heartbeat: %s)", AppName, cfg.Firebase.ProjectID, *heartbeat)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logg.Info("Shutdown signal received, stopping daemon")
	cancel()
}

func startHTTPServers(metricsPort, healthPort int, health *monitoring.HealthChecker) {
	go func() {
		http.Handle("/metrics", monitoring.NewMetricsHandler())
		if err := http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), nil); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/health", health)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", healthPort), mux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()
}

// heartbeatLoop periodically writes a heartbeat document so downstream
// components can observe daemon liveness through the store itself.
func heartbeatLoop(ctx context.Context, client *store.Client, health *monitoring.HealthChecker, cfg *config.Config, collection string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fields := map[string]interface{}{
				"timestamp": time.Now().UTC(),
				"exchange":  cfg.Trading.DefaultExchange,
				"symbol":    cfg.Trading.DefaultSymbol,
				"timeframe": cfg.Trading.DataTimeframe,
			}

			if client.WriteState(ctx, collection, "heartbeat", fields, true) {
				health.RecordWrite()
				health.ClearErrors()
			} else {
				health.AddError("heartbeat write failed")
			}
		}
	}
}
