package models

// JourneyStatus controls who may see a journey.
type JourneyStatus string

const (
	JourneyStatusPublic  JourneyStatus = "public"
	JourneyStatusPrivate JourneyStatus = "private"
)

// Journey is a trip owned by a traveller. Events hang off it.
type Journey struct {
	ID          int64         `db:"journey_id" json:"journey_id"`
	UserID      int64         `db:"user_id" json:"user_id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	StartDate   string        `db:"start_date" json:"start_date"`
	Status      JourneyStatus `db:"status" json:"status"`
	// OwnerUsername is filled by joins against users; it is not a column of journeys.
	OwnerUsername string `db:"username" json:"username,omitempty"`
}

// VisibleTo reports whether the given user may view the journey.
func (j *Journey) VisibleTo(userID int64) bool {
	return j.Status != JourneyStatusPrivate || j.UserID == userID
}
