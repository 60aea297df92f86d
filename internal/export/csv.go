// Package export renders workflow results as CSV for download by extension
// workers and district dashboards.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// maxResponseLength keeps rendered channel payloads from blowing up the
// export when a channel carries a long script.
const maxResponseLength = 500

// ChannelResponse is one rendered channel payload for the export.
type ChannelResponse struct {
	Channel  string
	Rendered string
}

// CSV renders the alert as Field,Value rows followed by a blank row and the
// per-channel Agent,Response rows.
func CSV(record domain.AlertRecord, responses []ChannelResponse) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Field", "Value"},
		{"Alert ID", record.AlertID},
		{"Village", record.Location.Village},
		{"District", record.Location.District},
		{"State", record.Location.State},
		{"Coordinates", fmt.Sprintf("[%g, %g]", record.Location.Coordinates[0], record.Location.Coordinates[1])},
		{"Crop", record.Crop.Name},
		{"Crop Stage", record.Crop.Stage},
		{"Temperature", fmt.Sprintf("%.1f", record.Weather.TemperatureC)},
		{"Rainfall", fmt.Sprintf("%.1f", record.Weather.RainfallMm)},
		{"Alert Type", string(record.Alert.Type)},
		{"Urgency", string(record.Alert.Urgency)},
		{"Alert Message", record.Alert.Message},
		{},
		{"Agent", "Response"},
	}
	for _, resp := range responses {
		rows = append(rows, []string{resp.Channel, truncate(resp.Rendered, maxResponseLength)})
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
