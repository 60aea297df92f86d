package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 7, 23, 6, 0, 0, 0, time.UTC)
	record := domain.AlertRecord{
		AlertID:     "BIH_PAT_KUM_20250723_060000",
		GeneratedAt: now,
		Location: domain.Location{
			Village:  "Kumhrar",
			District: "Patna",
			State:    "Bihar",
		},
		Alert: domain.AlertDetails{
			Type:       domain.AlertHeavyRain,
			Urgency:    domain.UrgencyHigh,
			ValidUntil: now.Add(72 * time.Hour),
		},
	}

	msg, err := serializeToMessage(record)
	require.NoError(t, err)

	assert.Equal(t, []byte("BIH_PAT_KUM_20250723_060000"), msg.Key)
	assert.Contains(t, string(msg.Value), `"type":"heavy_rain_warning"`)
	assert.Contains(t, string(msg.Value), `"village":"Kumhrar"`)

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "alert_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("heavy_rain_warning"), msg.Headers[0].Value)
	assert.Equal(t, "urgency", msg.Headers[1].Key)
	assert.Equal(t, []byte("high"), msg.Headers[1].Value)
	assert.Equal(t, "generated_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}
