// Package pipeline orchestrates alert generation: village selection,
// coordinate resolution, crop and stage derivation, weather fetch,
// classification, and optional AI enrichment.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
)

// AlertPublisher pushes generated alerts downstream. Optional; a nil
// publisher means alerts are only returned to the caller.
type AlertPublisher interface {
	Publish(ctx context.Context, record domain.AlertRecord) error
}

// HealthReporter is implemented by providers that can report their own
// health, e.g. a circuit-breaker-wrapped client.
type HealthReporter interface {
	Healthy() error
}

// Request describes one alert generation request. Village is optional; when
// empty, one is drawn at random from the district's directory.
type Request struct {
	State    string
	District string
	Village  string
}

// Generator derives one alert per request from live weather and the static
// crop tables.
type Generator struct {
	weather   domain.WeatherProvider
	directory domain.VillageDirectory
	narrator  domain.NarrativeGenerator
	publisher AlertPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	forecastDays int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithNarrator enables AI narrative enrichment.
func WithNarrator(n domain.NarrativeGenerator) Option {
	return func(g *Generator) { g.narrator = n }
}

// WithPublisher enables downstream alert publishing.
func WithPublisher(p AlertPublisher) Option {
	return func(g *Generator) { g.publisher = p }
}

// WithSeed fixes the random source, making village and crop selection
// reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// New creates a Generator over the given providers.
func New(weather domain.WeatherProvider, directory domain.VillageDirectory, logger *slog.Logger, metrics *observability.Metrics, forecastDays int, opts ...Option) *Generator {
	g := &Generator{
		weather:      weather,
		directory:    directory,
		logger:       logger,
		metrics:      metrics,
		forecastDays: forecastDays,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckReadiness reports whether the generator can serve requests. It
// delegates to the weather provider when that provider reports health
// (an open circuit breaker makes the service not ready).
func (g *Generator) CheckReadiness(_ context.Context) error {
	if hr, ok := g.weather.(HealthReporter); ok {
		return hr.Healthy()
	}
	return nil
}

// Generate produces one alert for the request. The current-conditions and
// forecast requests run concurrently; AI enrichment runs afterwards and its
// failure downgrades the alert to rule-based rather than failing the request.
func (g *Generator) Generate(ctx context.Context, req Request) (domain.AlertRecord, error) {
	start := time.Now()

	loc, err := g.resolveLocation(req)
	if err != nil {
		g.metrics.AlertErrors.Inc()
		return domain.AlertRecord{}, err
	}

	now := domain.Now()
	season := domain.ClassifySeason(now.Month())
	crop := g.selectCrop(loc.District, season)
	stage := domain.StageByMonth(crop, now.Month())

	obs, err := g.fetchWeather(ctx, loc)
	if err != nil {
		g.metrics.AlertErrors.Inc()
		return domain.AlertRecord{}, err
	}

	cls := domain.Classify(obs, loc.Village, loc.District, crop, stage)
	cropInfo := domain.CropInfo{Name: crop, Stage: stage, Season: season}
	record := domain.Assemble(loc, cropInfo, obs, cls, nil)

	if narrative := g.enrich(ctx, record); narrative != nil {
		record = domain.Assemble(loc, cropInfo, obs, cls, narrative)
	}

	g.metrics.AlertsGenerated.WithLabelValues(string(record.Alert.Type), string(record.Alert.Urgency)).Inc()
	g.logger.Info("alert generated",
		"alert_id", record.AlertID,
		"type", record.Alert.Type,
		"urgency", record.Alert.Urgency,
		"village", record.Location.Village,
		"district", record.Location.District,
		"crop", record.Crop.Name,
		"duration", time.Since(start),
	)

	g.publish(ctx, record)
	return record, nil
}

// resolveLocation picks a village (randomly if unspecified) and resolves its
// coordinates through the village, district, and capital fallback chain.
func (g *Generator) resolveLocation(req Request) (domain.Location, error) {
	if req.State == "" || req.District == "" {
		return domain.Location{}, errors.New("state and district are required")
	}

	villages := g.directory.Villages(req.State, req.District)

	village := req.Village
	if village == "" {
		if len(villages) == 0 {
			return domain.Location{}, domain.ErrLocationNotFound
		}
		g.mu.Lock()
		village = villages[g.rng.Intn(len(villages))]
		g.mu.Unlock()
	}

	geo := g.directory.Locate(req.State, req.District, village)
	return domain.Location{
		Village:      village,
		District:     req.District,
		State:        req.State,
		Coordinates:  [2]float64{geo.Latitude, geo.Longitude},
		Source:       geo.Source,
		VillageCount: len(villages),
	}, nil
}

func (g *Generator) selectCrop(district string, season domain.Season) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return domain.SelectCrop(district, season, g.rng)
}

// fetchWeather runs the current-conditions and forecast requests
// concurrently. Either failure fails the whole fetch; the provider already
// wraps ErrWeatherUnavailable.
func (g *Generator) fetchWeather(ctx context.Context, loc domain.Location) (domain.WeatherObservation, error) {
	var (
		current  domain.CurrentConditions
		forecast domain.Forecast
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		current, err = g.weather.CurrentWeather(egCtx, loc.Coordinates[0], loc.Coordinates[1])
		return err
	})
	eg.Go(func() error {
		var err error
		forecast, err = g.weather.Forecast(egCtx, loc.Coordinates[0], loc.Coordinates[1], g.forecastDays)
		return err
	})
	if err := eg.Wait(); err != nil {
		g.logger.Error("weather fetch failed", "error", err, "village", loc.Village)
		return domain.WeatherObservation{}, err
	}

	return domain.NewWeatherObservation(current.TemperatureC, current.WindSpeedKmh, forecast.DailyPrecipitationMm), nil
}

// enrich asks the narrator for an AI narrative. Failures are logged and
// swallowed; the rule-based alert stands on its own.
func (g *Generator) enrich(ctx context.Context, record domain.AlertRecord) *domain.Narrative {
	if g.narrator == nil {
		return nil
	}
	narrative, err := g.narrator.Generate(ctx, record)
	if err != nil {
		g.logger.Warn("ai enrichment failed, serving rule-based alert",
			"error", err, "alert_id", record.AlertID)
		return nil
	}
	return narrative
}

// publish pushes the alert downstream when a publisher is configured.
// Publish failures are logged but do not fail the request.
func (g *Generator) publish(ctx context.Context, record domain.AlertRecord) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, record); err != nil {
		g.metrics.PublishErrors.Inc()
		g.logger.Error("alert publish failed", "error", err, "alert_id", record.AlertID)
		return
	}
	g.metrics.AlertsPublished.Inc()
}
