package storage

// Storage keys. Progress and events are written by the gamification engine
// through Get, Set and Delete.
const (
	CalculationsKey  = "calculator-calculations"
	PreferencesKey   = "calculator-preferences"
	LastActiveKey    = "calculator-last-active"
	ProgressKey      = "calculator-progress"
	EventsKey        = "calculator-events"
	AccessibilityKey = "calculator-accessibility-preferences"
)

// isoLayout matches the millisecond UTC form used for stored timestamps.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"
