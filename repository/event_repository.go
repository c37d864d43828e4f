package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"travelJournal/internal/db"
	"travelJournal/models"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.event_id, e.journey_id, e.title, e.description, e.start_time, e.end_time, e.location, e.event_image`

func (r *EventRepository) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO events (journey_id, title, description, start_time, end_time, location, event_image)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.JourneyID, e.Title, e.Description, e.StartTime, nullIfEmpty(e.EndTime), e.Location, e.EventImage)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *e
	out.ID = id
	return &out, nil
}

// GetOwned returns the event only when it belongs to the journey and the journey
// belongs to userID. Anything else yields (nil, nil).
func (r *EventRepository) GetOwned(ctx context.Context, journeyID, eventID, userID int64) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ev, err := scanEvent(r.db.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM journeys j
JOIN events e ON j.journey_id = e.journey_id
WHERE j.journey_id = ? AND e.event_id = ? AND j.user_id = ?`, journeyID, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ev, nil
}

// ListByJourney returns a journey's events in start time order.
func (r *EventRepository) ListByJourney(ctx context.Context, journeyID int64) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.journey_id = ? ORDER BY e.start_time ASC, e.event_id ASC`, journeyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
UPDATE events
SET title = ?, description = ?, start_time = ?, end_time = ?, location = ?, event_image = ?
WHERE event_id = ? AND journey_id = ?`,
		e.Title, e.Description, e.StartTime, nullIfEmpty(e.EndTime), e.Location, e.EventImage, e.ID, e.JourneyID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owned event and returns it so the caller can clean up its
// image. The ownership check and delete share one transaction.
func (r *EventRepository) Delete(ctx context.Context, journeyID, eventID, userID int64) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var ev *models.Event
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		ev, err = scanEvent(tx.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM journeys j
JOIN events e ON j.journey_id = e.journey_id
WHERE j.journey_id = ? AND e.event_id = ? AND j.user_id = ?`, journeyID, eventID, userID))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM events WHERE event_id = ? AND journey_id = ?`, eventID, journeyID)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		ev    models.Event
		end   sql.NullString
		image sql.NullString
	)
	if err := row.Scan(&ev.ID, &ev.JourneyID, &ev.Title, &ev.Description, &ev.StartTime, &end, &ev.Location, &image); err != nil {
		return nil, err
	}
	if end.Valid {
		ev.EndTime = &end.String
	}
	if image.Valid {
		ev.EventImage = &image.String
	}
	return &ev, nil
}

func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
