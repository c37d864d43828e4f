package repository

import (
	"context"

	"travelJournal/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, in NewUser) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UserIDByUsername(ctx context.Context, username string) (int64, bool, error)
	UserIDByEmail(ctx context.Context, email string) (int64, bool, error)
	UpdateProfile(ctx context.Context, id int64, p ProfileUpdate) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetProfileImage(ctx context.Context, id int64, name *string) error
	UpdateRoleAndStatus(ctx context.Context, id int64, role models.Role, status models.UserStatus) error
	List(ctx context.Context, scope UserScope) ([]models.User, error)
	Search(ctx context.Context, scope UserScope, category SearchCategory, term string) ([]models.User, error)
}

// JourneyRepositoryI defines operations on Journey entities.
type JourneyRepositoryI interface {
	Create(ctx context.Context, j *models.Journey) (*models.Journey, error)
	GetByID(ctx context.Context, id int64) (*models.Journey, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Journey, error)
}

// EventRepositoryI defines operations on Event entities.
type EventRepositoryI interface {
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	GetOwned(ctx context.Context, journeyID, eventID, userID int64) (*models.Event, error)
	ListByJourney(ctx context.Context, journeyID int64) ([]models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, journeyID, eventID, userID int64) (*models.Event, error)
}

var (
	_ UserRepositoryI    = (*UserRepository)(nil)
	_ JourneyRepositoryI = (*JourneyRepository)(nil)
	_ EventRepositoryI   = (*EventRepository)(nil)
)
