package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/server"
	"github.com/de-tools/ledger-atlas/pkg/services/analysis"
)

var (
	cfgPath       string
	slowThreshold time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Ledger Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the analysis config file (yaml, json or toml)")
	rootCmd.Flags().DurationVar(&slowThreshold, "slow-threshold", 2*time.Second,
		"Log requests slower than this")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := analysis.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register analysis metrics: %w", err)
	}
	ctrl, err := analysis.NewController(cfg, metrics)
	if err != nil {
		return fmt.Errorf("failed to create analysis controller: %w", err)
	}

	// SERVER_HOST and SERVER_PORT from the environment or .env win over the config file.
	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = cfg.Server.Host
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	logger.Info().
		Float64("materiality_absolute", cfg.Materiality.Absolute).
		Float64("materiality_percent", cfg.Materiality.Percent).
		Str("rolling_method", cfg.Rolling.Method).
		Msg("configuration loaded")

	api, err := server.NewWebAPI(server.Config{
		Addr:          net.JoinHostPort(host, port),
		SlowThreshold: slowThreshold,
		Dependencies: server.Dependencies{
			Service:  ctrl,
			Logger:   logger,
			Registry: registry,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create web api: %w", err)
	}

	return api.Start()
}
