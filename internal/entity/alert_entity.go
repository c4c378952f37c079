package entity

// AlertKind classifies a delivered notification: a price drop on a
// watched product, a due reminder, or a system message.
type AlertKind string

const (
	AlertKindPriceDrop AlertKind = "PRICE_DROP"
	AlertKindReminder  AlertKind = "REMINDER"
	AlertKindSystem    AlertKind = "SYSTEM"
)
