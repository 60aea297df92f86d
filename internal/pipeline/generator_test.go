package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- mocks ---

type mockWeather struct {
	current     domain.CurrentConditions
	currentErr  error
	forecast    domain.Forecast
	forecastErr error
	healthErr   error
	calls       int
}

func (m *mockWeather) CurrentWeather(_ context.Context, _, _ float64) (domain.CurrentConditions, error) {
	m.calls++
	return m.current, m.currentErr
}

func (m *mockWeather) Forecast(_ context.Context, _, _ float64, _ int) (domain.Forecast, error) {
	return m.forecast, m.forecastErr
}

func (m *mockWeather) Healthy() error { return m.healthErr }

type mockDirectory struct {
	villages []string
	geo      domain.Geo
}

func (m *mockDirectory) Villages(_, _ string) []string { return m.villages }

func (m *mockDirectory) Locate(_, _, _ string) domain.Geo { return m.geo }

type mockNarrator struct {
	narrative *domain.Narrative
	err       error
	calls     int
}

func (m *mockNarrator) Generate(_ context.Context, _ domain.AlertRecord) (*domain.Narrative, error) {
	m.calls++
	return m.narrative, m.err
}

type mockPublisher struct {
	records []domain.AlertRecord
	err     error
}

func (m *mockPublisher) Publish(_ context.Context, record domain.AlertRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatPtr(f float64) *float64 { return &f }

func patnaGeo() domain.Geo {
	return domain.Geo{Latitude: 25.6, Longitude: 85.15, Source: "village_kumhrar"}
}

func heavyRainWeather() *mockWeather {
	return &mockWeather{
		current:  domain.CurrentConditions{TemperatureC: floatPtr(30), WindSpeedKmh: floatPtr(12)},
		forecast: domain.Forecast{DailyPrecipitationMm: []float64{10, 12, 8}},
	}
}

func freezeTime(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2025, time.July, 23, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })
	return at
}

// --- tests ---

func TestGenerate(t *testing.T) {
	freezeTime(t)

	dir := &mockDirectory{villages: []string{"Kumhrar"}, geo: patnaGeo()}
	g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithSeed(1))

	record, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
	require.NoError(t, err)

	assert.Equal(t, "BIH_PAT_KUM_20250723_060000", record.AlertID)
	assert.Equal(t, domain.AlertHeavyRain, record.Alert.Type)
	assert.Equal(t, "Kumhrar", record.Location.Village)
	assert.Equal(t, "village_kumhrar", record.Location.Source)
	assert.Equal(t, domain.SeasonKharif, record.Crop.Season)
	assert.True(t, record.Weather.RainfallMm == 30)
	assert.False(t, record.Alert.AIGenerated)

	// July is kharif; Patna's kharif-compatible crops are rice and sugarcane.
	assert.Contains(t, []string{"rice", "sugarcane"}, record.Crop.Name)
	assert.NotEmpty(t, record.Crop.Stage)
}

func TestGenerate_ExplicitVillage(t *testing.T) {
	freezeTime(t)

	dir := &mockDirectory{villages: []string{"Kumhrar", "Danapur"}, geo: patnaGeo()}
	g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3)

	record, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna", Village: "Danapur"})
	require.NoError(t, err)
	assert.Equal(t, "Danapur", record.Location.Village)
	assert.Equal(t, 2, record.Location.VillageCount)
}

func TestGenerate_MissingFields(t *testing.T) {
	g := New(heavyRainWeather(), &mockDirectory{}, discardLogger(), observability.NewMetricsForTesting(), 3)

	_, err := g.Generate(context.Background(), Request{State: "Bihar"})
	require.Error(t, err)

	_, err = g.Generate(context.Background(), Request{District: "Patna"})
	require.Error(t, err)
}

func TestGenerate_NoVillagesToDrawFrom(t *testing.T) {
	g := New(heavyRainWeather(), &mockDirectory{}, discardLogger(), observability.NewMetricsForTesting(), 3)

	_, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestGenerate_WeatherFailure(t *testing.T) {
	weather := heavyRainWeather()
	weather.forecastErr = domain.ErrWeatherUnavailable

	dir := &mockDirectory{villages: []string{"Kumhrar"}, geo: patnaGeo()}
	g := New(weather, dir, discardLogger(), observability.NewMetricsForTesting(), 3)

	_, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
	assert.ErrorIs(t, err, domain.ErrWeatherUnavailable)
}

func TestGenerate_WithNarrator(t *testing.T) {
	freezeTime(t)
	dir := &mockDirectory{villages: []string{"Kumhrar"}, geo: patnaGeo()}

	t.Run("narrative attached", func(t *testing.T) {
		narrator := &mockNarrator{narrative: &domain.Narrative{Alert: "heavy rain soon", EnhancedMessage: "full text"}}
		g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithNarrator(narrator))

		record, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
		assert.True(t, record.Alert.AIGenerated)
		require.NotNil(t, record.Narrative)
		assert.Equal(t, "heavy rain soon", record.Narrative.Alert)
		assert.Equal(t, "full text", record.Alert.Message)
		assert.Equal(t, 1, narrator.calls)
	})

	t.Run("narrator failure downgrades to rule-based", func(t *testing.T) {
		narrator := &mockNarrator{err: errors.New("model overloaded")}
		g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithNarrator(narrator))

		record, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
		assert.False(t, record.Alert.AIGenerated)
		assert.Nil(t, record.Narrative)
		assert.Contains(t, record.Alert.Message, "Heavy rainfall")
	})

	t.Run("narrator opt-out returns nil narrative", func(t *testing.T) {
		narrator := &mockNarrator{} // returns (nil, nil): enrichment declined
		g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithNarrator(narrator))

		record, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
		assert.False(t, record.Alert.AIGenerated)
	})
}

func TestGenerate_WithPublisher(t *testing.T) {
	freezeTime(t)
	dir := &mockDirectory{villages: []string{"Kumhrar"}, geo: patnaGeo()}

	t.Run("alert published", func(t *testing.T) {
		pub := &mockPublisher{}
		g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithPublisher(pub))

		record, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
		require.Len(t, pub.records, 1)
		assert.Equal(t, record.AlertID, pub.records[0].AlertID)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		pub := &mockPublisher{err: errors.New("broker down")}
		g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithPublisher(pub))

		_, err := g.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
	})
}

func TestGenerate_SeededDeterminism(t *testing.T) {
	freezeTime(t)
	dir := &mockDirectory{villages: []string{"Kumhrar", "Danapur", "Phulwari"}, geo: patnaGeo()}

	a := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithSeed(99))
	b := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3, WithSeed(99))

	for i := 0; i < 10; i++ {
		ra, err := a.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
		rb, err := b.Generate(context.Background(), Request{State: "Bihar", District: "Patna"})
		require.NoError(t, err)
		assert.Equal(t, ra.Location.Village, rb.Location.Village)
		assert.Equal(t, ra.Crop, rb.Crop)
	}
}

func TestCheckReadiness(t *testing.T) {
	dir := &mockDirectory{}

	t.Run("healthy provider", func(t *testing.T) {
		g := New(heavyRainWeather(), dir, discardLogger(), observability.NewMetricsForTesting(), 3)
		assert.NoError(t, g.CheckReadiness(context.Background()))
	})

	t.Run("unhealthy provider", func(t *testing.T) {
		weather := heavyRainWeather()
		weather.healthErr = errors.New("circuit open")
		g := New(weather, dir, discardLogger(), observability.NewMetricsForTesting(), 3)
		assert.EqualError(t, g.CheckReadiness(context.Background()), "circuit open")
	})
}
