// Command alertsvc serves agricultural weather alerts for Bihar districts.
//
// The serve subcommand runs the HTTP API; alert generates a single alert to
// stdout for scripting and smoke tests; districts lists the known districts.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agrimet/crop-alert-service/internal/adapter/gazetteer"
	"github.com/agrimet/crop-alert-service/internal/adapter/httpapi"
	kafkaadapter "github.com/agrimet/crop-alert-service/internal/adapter/kafka"
	"github.com/agrimet/crop-alert-service/internal/adapter/openai"
	"github.com/agrimet/crop-alert-service/internal/adapter/openmeteo"
	"github.com/agrimet/crop-alert-service/internal/config"
	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
	"github.com/agrimet/crop-alert-service/internal/pipeline"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "alertsvc",
		Short:   "Agricultural weather alert service for Bihar",
		Version: version,
	}
	root.AddCommand(newServeCmd(), newAlertCmd(), newDistrictsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the alert HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	weather := openmeteo.NewClient(cfg.WeatherTimeout, logger, metrics)
	generator, publisher, err := buildGenerator(cfg, weather, logger, metrics)
	if err != nil {
		return err
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, generator, gazetteer.New(), weather, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// buildGenerator wires the alert pipeline from configuration: the weather
// client, optional AI narrator, optional Kafka publisher, and district
// profile overrides.
func buildGenerator(cfg *config.Config, weather *openmeteo.Client, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Generator, *kafkaadapter.Publisher, error) {
	if cfg.ProfileFile != "" {
		profiles, err := config.LoadProfiles(cfg.ProfileFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading district profiles: %w", err)
		}
		domain.SetDistrictProfiles(profiles)
		logger.Info("district profiles loaded", "file", cfg.ProfileFile, "districts", len(profiles))
	}

	var opts []pipeline.Option
	if cfg.RandomSeed != 0 {
		opts = append(opts, pipeline.WithSeed(cfg.RandomSeed))
	}

	if cfg.AIEnabled {
		client := openai.NewClient(cfg.OpenAIKey, cfg.OpenAITimeout, logger, metrics)
		narrator := openai.NewCachedNarrator(client, cfg.AICacheSize, metrics)
		opts = append(opts, pipeline.WithNarrator(narrator))
		metrics.AIEnabled.Set(1)
		logger.Info("ai narrative enrichment enabled", "cache_size", cfg.AICacheSize, "timeout", cfg.OpenAITimeout)
	} else {
		metrics.AIEnabled.Set(0)
		logger.Info("ai narrative enrichment disabled")
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaAlertTopic != "" {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		opts = append(opts, pipeline.WithPublisher(publisher))
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	}

	return pipeline.New(weather, gazetteer.New(), logger, metrics, cfg.ForecastDays, opts...), publisher, nil
}

func newAlertCmd() *cobra.Command {
	var (
		state    string
		district string
		village  string
	)

	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Generate one alert and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
			metrics := observability.NewMetricsForTesting()

			weather := openmeteo.NewClient(cfg.WeatherTimeout, logger, metrics)
			generator, publisher, err := buildGenerator(cfg, weather, logger, metrics)
			if err != nil {
				return err
			}
			if publisher != nil {
				defer publisher.Close()
			}

			record, err := generator.Generate(cmd.Context(), pipeline.Request{
				State:    state,
				District: district,
				Village:  village,
			})
			if err != nil {
				return fmt.Errorf("generating alert: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		},
	}

	cmd.Flags().StringVar(&state, "state", "bihar", "state name")
	cmd.Flags().StringVar(&district, "district", "", "district name (required)")
	cmd.Flags().StringVar(&village, "village", "", "village name (random if empty)")
	cmd.MarkFlagRequired("district") //nolint:errcheck // flag exists

	return cmd
}

func newDistrictsCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "districts",
		Short: "List districts with village data",
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := gazetteer.New()
			districts := directory.Districts(state)
			if len(districts) == 0 {
				return fmt.Errorf("no districts known for state %q", state)
			}
			for _, d := range districts {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "bihar", "state name")
	return cmd
}
