package channel

import (
	"fmt"
	"strings"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// TelegramMessage is a Markdown-formatted message with an inline keyboard.
type TelegramMessage struct {
	Text      string           `json:"text"`
	ParseMode string           `json:"parse_mode"`
	Buttons   []TelegramButton `json:"buttons"`
}

// TelegramButton is one inline keyboard button.
type TelegramButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// Telegram renders a Markdown message. Telegram has no practical length
// limit, so the full detail set is included: readings, validity, and the AI
// narrative when present.
func Telegram(record domain.AlertRecord) TelegramMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n📍 %s, %s\n\n", alertTitle(record.Alert.Type), record.Location.Village, record.Location.District)
	fmt.Fprintf(&b, "🌾 Crop: %s (%s, %s season)\n", capitalize(record.Crop.Name), record.Crop.Stage, record.Crop.Season)
	fmt.Fprintf(&b, "🌡 Temperature: %.1f°C\n", record.Weather.TemperatureC)
	fmt.Fprintf(&b, "🌧 Expected rainfall: %.1fmm (%d%% chance)\n", record.Weather.RainfallMm, record.Weather.RainProbability)
	fmt.Fprintf(&b, "💨 Wind: %.1f km/h\n\n", record.Weather.WindSpeedKmh)
	fmt.Fprintf(&b, "%s\n\n", record.Alert.Message)

	b.WriteString("*Recommended actions:*\n")
	for _, action := range record.Alert.ActionItems {
		fmt.Fprintf(&b, "• %s\n", humanizeAction(action))
	}

	if record.Narrative != nil && len(record.Narrative.Recommendations) > 0 {
		b.WriteString("\n*AI advice:*\n")
		for _, rec := range record.Narrative.Recommendations {
			fmt.Fprintf(&b, "• %s\n", rec)
		}
	}
	fmt.Fprintf(&b, "\n_Valid until %s_", record.Alert.ValidUntil.Format("02 Jan 2006 15:04 MST"))

	return TelegramMessage{
		Text:      b.String(),
		ParseMode: "Markdown",
		Buttons: []TelegramButton{
			{Text: "Acknowledge", CallbackData: "ack_" + record.AlertID},
			{Text: "More Info", CallbackData: "info_" + record.AlertID},
		},
	}
}

// alertTitle turns a machine alert type into a display heading.
func alertTitle(t domain.AlertType) string {
	return capitalize(strings.ReplaceAll(string(t), "_", " "))
}
