package repository

import (
	"context"
	"time"

	"github.com/FabienBounoir/muscouns/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict: duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository persists users keyed by their lowercased username.
type UserRepository interface {
	// Create returns ErrConflict when usernameLower is already taken.
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByUsernameLower(ctx context.Context, usernameLower string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository persists the shared exercise catalog.
type ExerciseRepository interface {
	// Create returns ErrConflict when normalizedName is already taken.
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByNormalizedName(ctx context.Context, normalizedName string) (*domain.Exercise, error)
	// Search matches name case-insensitively against pattern, which must already be regex-escaped.
	Search(ctx context.Context, pattern string, limit int64) ([]domain.Exercise, error)
}

// WorkoutFields is a partial update of a workout. Nil fields are left untouched.
type WorkoutFields struct {
	Name      *string
	Exercises []domain.WorkoutExerciseEntry // Replaces the whole array when non-nil
}

// WorkoutRepository persists workouts. Every method is scoped by the owner id,
// a workout owned by someone else behaves exactly like a missing one.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error)
	GetByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	// Update applies fields and refreshes updatedAt, returning the fresh document.
	Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, fields WorkoutFields, now time.Time) (*domain.Workout, error)
	// Delete is idempotent: a missing workout is not an error.
	Delete(ctx context.Context, ownerID, workoutID primitive.ObjectID) error

	PushExercise(ctx context.Context, ownerID, workoutID primitive.ObjectID, entry domain.WorkoutExerciseEntry, now time.Time) error
	PullExercise(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID string, now time.Time) error
	PushSet(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID string, set domain.WorkoutSet, now time.Time) error
	PullSet(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID, setID string, now time.Time) error
}
