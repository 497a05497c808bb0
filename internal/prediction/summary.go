package prediction

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AgeGroup classifies a passenger's age for the result summary
type AgeGroup string

const (
	Child  AgeGroup = "Child"
	Adult  AgeGroup = "Adult"
	Senior AgeGroup = "Senior"
)

// Summary is the textual analysis shown beside a prediction. It restates
// the input and is not derived from the model.
type Summary struct {
	CryoSleepStatus string   `json:"cryo_sleep_status"`
	AgeGroup        AgeGroup `json:"age_group"`
	TotalSpending   int      `json:"total_spending"`
	SpendingLabel   string   `json:"spending_label"`
	VIPStatus       string   `json:"vip_status"`
}

var printer = message.NewPrinter(language.English)

// ClassifyAge returns Child under 18, Senior over 60 and Adult otherwise
func ClassifyAge(age int) AgeGroup {
	switch {
	case age < childAgeLimit:
		return Child
	case age > seniorAgeLimit:
		return Senior
	default:
		return Adult
	}
}

// FormatCredits renders an amount with thousands separators
func FormatCredits(amount int) string {
	return printer.Sprintf("%d credits", amount)
}

// Summarize builds the analysis summary for a passenger
func Summarize(p PassengerRecord) Summary {
	total := TotalSpending(p)

	cryo := "Inactive"
	if p.CryoSleep {
		cryo = "Active (High impact)"
	}

	vip := "No"
	if p.VIP {
		vip = "Yes"
	}

	return Summary{
		CryoSleepStatus: cryo,
		AgeGroup:        ClassifyAge(p.Age),
		TotalSpending:   total,
		SpendingLabel:   FormatCredits(total),
		VIPStatus:       vip,
	}
}
