// Package channel renders alert records for the delivery channels farmers
// actually use: SMS, WhatsApp, USSD, IVR, and Telegram. Formatters are pure
// functions over an AlertRecord; delivery itself is out of scope.
package channel

import (
	"fmt"
	"strings"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// maxSMSLength is the single-segment GSM limit.
const maxSMSLength = 160

// hindiGlossary maps recurring alert vocabulary to Hindi. Longer phrases come
// first so they match before their substrings.
var hindiGlossary = []struct{ en, hi string }{
	{"Heavy rainfall", "भारी वर्षा"},
	{"expected in next 2 days.", "अगले 2 दिनों में अपेक्षित।"},
	{"Delay fertilizer application.", "उर्वरक आवेदन में देरी करें।"},
	{"Ensure proper drainage.", "उचित जल निकासी सुनिश्चित करें।"},
	{"weather_warning", "मौसम की चेतावनी"},
	{"rice", "चावल"},
	{"flowering", "फूल"},
	{"high", "उच्च"},
	{"Kumhrar", "कुम्हरार"},
	{"Patna", "पटना"},
	{"Bihar", "बिहार"},
	{"Alert", "चेतावनी"},
	{"Crop", "फसल"},
	{"Stage", "चरण"},
	{"Urgency", "तात्कालिकता"},
	{"Action", "कार्य"},
}

// toHindi substitutes glossary terms in place. Terms without a glossary entry
// pass through in English.
func toHindi(text string) string {
	for _, t := range hindiGlossary {
		text = strings.ReplaceAll(text, t.en, t.hi)
	}
	return text
}

// SMS renders a single-segment SMS, translated term-by-term to Hindi and
// truncated to 160 characters (runes, not bytes, so Devanagari text is not
// cut mid-character).
func SMS(record domain.AlertRecord) string {
	msg := fmt.Sprintf("%s: %s, %s: %s, %s: %s, %s: %s. %s",
		toHindi("Alert"), toHindi(string(record.Alert.Type)),
		toHindi("Crop"), toHindi(record.Crop.Name),
		toHindi("Stage"), toHindi(record.Crop.Stage),
		toHindi("Urgency"), toHindi(string(record.Alert.Urgency)),
		toHindi(record.Alert.Message),
	)

	runes := []rune(msg)
	if len(runes) > maxSMSLength {
		return string(runes[:maxSMSLength])
	}
	return msg
}
