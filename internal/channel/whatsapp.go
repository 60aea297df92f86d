package channel

import (
	"fmt"
	"strings"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// WhatsAppMessage is a rich message with interactive reply buttons.
type WhatsAppMessage struct {
	Text    string           `json:"text"`
	Buttons []WhatsAppButton `json:"buttons"`
}

// WhatsAppButton is one quick-reply option. The payload round-trips the alert
// ID so replies can be correlated.
type WhatsAppButton struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// WhatsApp renders a rich formatted message with acknowledge and more-info
// buttons.
func WhatsApp(record domain.AlertRecord) WhatsAppMessage {
	var b strings.Builder
	b.WriteString("🚨 *Weather Alert* 🚨\n\n")
	fmt.Fprintf(&b, "📍 *Location:* %s, %s\n", record.Location.Village, record.Location.District)
	fmt.Fprintf(&b, "🌾 *Crop:* %s (%s)\n", capitalize(record.Crop.Name), record.Crop.Stage)
	fmt.Fprintf(&b, "⚠️ *Urgency:* %s\n\n", strings.ToUpper(string(record.Alert.Urgency)))
	fmt.Fprintf(&b, "📝 *Details:* %s\n\n", record.Alert.Message)
	b.WriteString("✅ *Recommended Actions:*\n")
	for _, action := range record.Alert.ActionItems {
		fmt.Fprintf(&b, "- %s\n", humanizeAction(action))
	}

	return WhatsAppMessage{
		Text: b.String(),
		Buttons: []WhatsAppButton{
			{Title: "Acknowledge", Payload: "ack_" + record.AlertID},
			{Title: "More Info", Payload: "info_" + record.AlertID},
		},
	}
}

// humanizeAction turns a machine action item like "delay_fertilizer" into
// "Delay fertilizer".
func humanizeAction(action string) string {
	return capitalize(strings.ReplaceAll(action, "_", " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
