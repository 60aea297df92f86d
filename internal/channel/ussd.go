package channel

import (
	"fmt"
	"strings"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// USSD menu choices.
const (
	USSDChoiceAlert  = 1
	USSDChoiceAdvice = 2
	USSDChoiceExit   = 3
)

// USSDMenu renders the top-level USSD menu in romanized Hindi, the register
// feature phones display reliably.
func USSDMenu(record domain.AlertRecord) string {
	return fmt.Sprintf("Mausam ki jankari:\n1. %s ki chetavani\n2. Salah\n3. Exit",
		capitalize(record.Crop.Name))
}

// USSDSubmenu renders the screen for a menu choice. Unknown choices get a
// retry prompt, matching how live USSD gateways behave.
func USSDSubmenu(record domain.AlertRecord, choice int) string {
	switch choice {
	case USSDChoiceAlert:
		return fmt.Sprintf("Chetavani: %s\n0. Back", record.Alert.Message)
	case USSDChoiceAdvice:
		actions := make([]string, len(record.Alert.ActionItems))
		for i, action := range record.Alert.ActionItems {
			actions[i] = "- " + humanizeAction(action)
		}
		return fmt.Sprintf("Salah:\n%s\n0. Back", strings.Join(actions, "\n"))
	default:
		return "Invalid choice. Please try again."
	}
}
