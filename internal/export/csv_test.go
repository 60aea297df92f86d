package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

func TestCSV(t *testing.T) {
	record := domain.AlertRecord{
		AlertID: "BIH_PAT_KUM_20250723_060000",
		Location: domain.Location{
			Village:     "Kumhrar",
			District:    "Patna",
			State:       "Bihar",
			Coordinates: [2]float64{25.6008, 85.183},
		},
		Crop: domain.CropInfo{Name: "rice", Stage: "Flowering"},
		Alert: domain.AlertDetails{
			Type:    domain.AlertHeavyRain,
			Urgency: domain.UrgencyHigh,
			Message: "Heavy rainfall expected, with a \"severe\" outlook",
		},
		Weather: domain.WeatherContext{TemperatureC: 30, RainfallMm: 28},
	}
	responses := []ChannelResponse{
		{Channel: "SMS Agent", Rendered: "चेतावनी: ..."},
		{Channel: "WhatsApp Agent", Rendered: strings.Repeat("x", 600)},
	}

	out, err := CSV(record, responses)
	require.NoError(t, err)

	t.Run("field rows", func(t *testing.T) {
		assert.Contains(t, out, "Field,Value\n")
		assert.Contains(t, out, "Alert ID,BIH_PAT_KUM_20250723_060000\n")
		assert.Contains(t, out, "Crop,rice\n")
		assert.Contains(t, out, "Temperature,30.0\n")
		assert.Contains(t, out, `Coordinates,"[25.6008, 85.183]"`)
	})

	t.Run("quotes escaped", func(t *testing.T) {
		assert.Contains(t, out, `""severe""`)
	})

	t.Run("agent section after blank row", func(t *testing.T) {
		assert.Contains(t, out, "\n\nAgent,Response\n")
		assert.Contains(t, out, "SMS Agent,")
	})

	t.Run("long responses truncated", func(t *testing.T) {
		assert.NotContains(t, out, strings.Repeat("x", 501))
		assert.Contains(t, out, strings.Repeat("x", 500))
	})

	t.Run("output parses back", func(t *testing.T) {
		r := csv.NewReader(strings.NewReader(out))
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		require.NoError(t, err)
		// 13 alert rows + agent header + 2 responses (the blank row is
		// skipped by the reader).
		assert.Len(t, rows, 16)
	})
}
