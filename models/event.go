package models

// Event is a stop or activity within a journey, ordered by StartTime.
// EndTime and EventImage are nullable in DB; use pointers to distinguish null vs empty.
type Event struct {
	ID          int64   `db:"event_id" json:"event_id"`
	JourneyID   int64   `db:"journey_id" json:"journey_id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     *string `db:"end_time" json:"end_time,omitempty"`
	Location    string  `db:"location" json:"location"`
	EventImage  *string `db:"event_image" json:"event_image,omitempty"`
}
