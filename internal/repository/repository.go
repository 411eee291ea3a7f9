package repository

import (
	"peakform/coaching-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflicting write")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
}

// WorkingHoursRepository stores the per-coach availability configuration
// (at most one document per coach).
type WorkingHoursRepository interface {
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, error)
	Upsert(ctx context.Context, hours *domain.WorkingHours) error
}

// LessonRepository defines the interface for interacting with lesson data.
//
// Create and ConfirmPending are the write half of the double-booking
// invariant: the collection carries a unique index on (coachId, startsAt)
// restricted to confirmed lessons, so a write that would produce a second
// confirmed lesson at the same coach and instant fails with ErrConflict at
// the storage boundary, regardless of what any earlier in-memory check saw.
type LessonRepository interface {
	Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error)
	// ListByCoachInRange returns the coach's lessons with startsAt in
	// [from, to), any status, ordered by startsAt.
	ListByCoachInRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	ListByClientInRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	// ListConfirmedInRange returns only confirmed lessons, the set the
	// conflict detector runs against.
	ListConfirmedInRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	// ConfirmPending transitions a lesson from pending to confirmed.
	// Returns ErrNotFound if the lesson is missing or no longer pending,
	// ErrConflict if the slot was taken by another confirmed lesson.
	ConfirmPending(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error)
	// Reject moves a pending or confirmed lesson to rejected with an
	// optional reason. Rejected is terminal.
	Reject(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Lesson, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlockedIntervalRepository defines the interface for coach unavailability
// intervals.
//
// Create and Update take the resolved guard span of the interval and refuse
// the write when any confirmed lesson starts inside it, returning that
// lesson list alongside ErrConflict. The check and the write run inside one
// storage transaction so blocked-interval writes serialize against lesson
// writes on the same coach.
type BlockedIntervalRepository interface {
	Create(ctx context.Context, block *domain.BlockedInterval, guard Guard) (primitive.ObjectID, []domain.Lesson, error)
	Update(ctx context.Context, block *domain.BlockedInterval, guard Guard) ([]domain.Lesson, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BlockedInterval, error)
	ListByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.BlockedInterval, error)
	// ListOverlapping returns the coach's intervals intersecting [from, to),
	// all-day intervals included, ordered by startsAt.
	ListOverlapping(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedInterval, error)
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// Guard is the absolute half-open span a blocked-interval write must prove
// free of confirmed lessons.
type Guard struct {
	Start time.Time
	End   time.Time
}
