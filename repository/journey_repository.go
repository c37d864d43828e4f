package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"travelJournal/models"
)

type JourneyRepository struct {
	db *sql.DB
}

func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// Create inserts a journey for its owner. An empty status defaults to private,
// an empty start date to today.
func (r *JourneyRepository) Create(ctx context.Context, j *models.Journey) (*models.Journey, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := j.Status
	if status == "" {
		status = models.JourneyStatusPrivate
	}
	start := strings.TrimSpace(j.StartDate)
	if start == "" {
		start = time.Now().UTC().Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO journeys (user_id, title, description, start_date, status) VALUES (?, ?, ?, ?, ?)`,
		j.UserID, strings.TrimSpace(j.Title), strings.TrimSpace(j.Description), start, status)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *j
	out.ID = id
	out.Title = strings.TrimSpace(j.Title)
	out.Description = strings.TrimSpace(j.Description)
	out.StartDate = start
	out.Status = status
	return &out, nil
}

// GetByID returns the journey joined with its owner's username, or (nil, nil).
func (r *JourneyRepository) GetByID(ctx context.Context, id int64) (*models.Journey, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var j models.Journey
	err := r.db.QueryRowContext(ctx, `
SELECT j.journey_id, j.user_id, j.title, j.description, j.start_date, j.status, u.username
FROM journeys j
JOIN users u ON j.user_id = u.user_id
WHERE j.journey_id = ?`, id).Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.StartDate, &j.Status, &j.OwnerUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

// ListByUser returns the owner's journeys, newest start date first.
func (r *JourneyRepository) ListByUser(ctx context.Context, userID int64) ([]models.Journey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
SELECT journey_id, user_id, title, description, start_date, status
FROM journeys
WHERE user_id = ?
ORDER BY start_date DESC, journey_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Journey
	for rows.Next() {
		var j models.Journey
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.StartDate, &j.Status); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
