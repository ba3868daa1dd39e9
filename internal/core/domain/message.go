package domain

// MessageRef identifies an unread message listed by the backend.
type MessageRef struct {
	ID      string
	Subject string
}

// CycleReport describes one fetch cycle.
type CycleReport struct {
	// Listed is how many message references the backend returned.
	Listed int

	// Processed is how many distinct messages had extraction attempted.
	Processed int

	// Failed is how many of the processed messages failed extraction.
	Failed int

	// Skipped is how many listed messages were duplicates or over the cap.
	Skipped int

	// Events are the extracted events in listing order.
	Events []Event

	// CalendarAdded and CalendarFailed count calendar sink outcomes.
	CalendarAdded  int
	CalendarFailed int

	// Warning is the user-visible warning raised during the cycle, if any.
	Warning string
}
