package channel

import (
	"fmt"
	"strings"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// IVRLine is one spoken line with a pause (in seconds) before the next line.
type IVRLine struct {
	Text       string `json:"text"`
	DelayAfter int    `json:"delay_after"`
}

// IVRScript renders the voice script for an outbound alert call.
func IVRScript(record domain.AlertRecord) []IVRLine {
	return []IVRLine{
		{Text: fmt.Sprintf("Namaste. Mausam ki chetavani %s ke liye.", record.Location.District), DelayAfter: 1},
		{Text: fmt.Sprintf("Fasal: %s.", record.Crop.Name), DelayAfter: 1},
		{Text: fmt.Sprintf("Chetavani: %s", record.Alert.Message), DelayAfter: 2},
		{Text: "Salah ke liye, ek dabaye.", DelayAfter: 0},
	}
}

// IVRSubmenuScript renders the advice script played when the caller presses
// one.
func IVRSubmenuScript(record domain.AlertRecord) []IVRLine {
	actions := make([]string, len(record.Alert.ActionItems))
	for i, action := range record.Alert.ActionItems {
		actions[i] = strings.ReplaceAll(action, "_", " ")
	}
	return []IVRLine{
		{Text: fmt.Sprintf("Salah: %s", strings.Join(actions, ". ")), DelayAfter: 2},
		{Text: "Dhanyavad.", DelayAfter: 0},
	}
}
