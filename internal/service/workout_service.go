package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MinWorkoutNameLength = 2

// UpdateWorkoutInput is a partial update. Exercises holds the raw decoded JSON
// payload and is sanitized before it replaces the stored array.
type UpdateWorkoutInput struct {
	Name      *string
	Exercises any
	// HasExercises distinguishes an explicit null from an absent field.
	HasExercises bool
}

// AttachExerciseInput references a catalog exercise by id, or by name when
// ExerciseID is blank, in which case the catalog entry is created if needed.
type AttachExerciseInput struct {
	ExerciseID string
	Name       string
	Target     string
}

// WorkoutService owns the Workout → Exercise entry → Set aggregate of each user.
// workoutID arguments are hex strings; a malformed one behaves like a missing workout.
type WorkoutService interface {
	List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error)
	Get(ctx context.Context, ownerID primitive.ObjectID, workoutID string) (*domain.Workout, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, name string) (*domain.Workout, error)
	Update(ctx context.Context, ownerID primitive.ObjectID, workoutID string, input UpdateWorkoutInput) (*domain.Workout, error)
	Delete(ctx context.Context, ownerID primitive.ObjectID, workoutID string) error

	// AttachExercise resolves input against the catalog and appends a snapshot of it.
	AttachExercise(ctx context.Context, ownerID primitive.ObjectID, workoutID string, input AttachExerciseInput) (*domain.WorkoutExerciseEntry, error)
	DetachExercise(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID string) error

	AddSet(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID string, reps, weight float64) (*domain.WorkoutSet, error)
	RemoveSet(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID, setID string) error
}

type workoutService struct {
	workoutRepo     repository.WorkoutRepository
	exerciseService ExerciseService
	now             func() time.Time
	newID           func() string
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseService ExerciseService) WorkoutService {
	return &workoutService{
		workoutRepo:     workoutRepo,
		exerciseService: exerciseService,
		now:             storageNow,
		newID:           uuid.NewString,
	}
}

func parseWorkoutID(workoutID string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(workoutID))
	return id, err == nil
}

func mapWorkoutErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return pkgerrors.Wrap(err, msg)
}

// List returns the owner's workouts, newest first.
func (s *workoutService) List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list workouts")
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

func (s *workoutService) Get(ctx context.Context, ownerID primitive.ObjectID, workoutID string) (*domain.Workout, error) {
	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	workout, err := s.workoutRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, mapWorkoutErr(err, "failed to get workout")
	}
	return workout, nil
}

func (s *workoutService) Create(ctx context.Context, ownerID primitive.ObjectID, name string) (*domain.Workout, error) {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < MinWorkoutNameLength {
		return nil, validationError("workout name must be at least %d characters", MinWorkoutNameLength)
	}

	now := s.now()
	workout := &domain.Workout{
		UserID:    ownerID,
		Name:      trimmed,
		CreatedAt: now,
		UpdatedAt: now,
		Exercises: []domain.WorkoutExerciseEntry{},
	}

	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create workout")
	}
	workout.ID = id
	return workout, nil
}

// Update changes only the provided fields. updatedAt is refreshed even when nothing else is.
func (s *workoutService) Update(ctx context.Context, ownerID primitive.ObjectID, workoutID string, input UpdateWorkoutInput) (*domain.Workout, error) {
	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil, ErrWorkoutNotFound
	}

	now := s.now()
	var fields repository.WorkoutFields
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			name = domain.DefaultWorkoutName
		}
		fields.Name = &name
	}
	if input.HasExercises {
		fields.Exercises = SanitizeExercises(input.Exercises, now, s.newID)
	}

	workout, err := s.workoutRepo.Update(ctx, ownerID, id, fields, now)
	if err != nil {
		return nil, mapWorkoutErr(err, "failed to update workout")
	}
	return workout, nil
}

// Delete is idempotent: a missing, foreign or malformed workout id is not an error.
func (s *workoutService) Delete(ctx context.Context, ownerID primitive.ObjectID, workoutID string) error {
	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil
	}
	if err := s.workoutRepo.Delete(ctx, ownerID, id); err != nil {
		return pkgerrors.Wrap(err, "failed to delete workout")
	}
	return nil
}

func (s *workoutService) AttachExercise(ctx context.Context, ownerID primitive.ObjectID, workoutID string, input AttachExerciseInput) (*domain.WorkoutExerciseEntry, error) {
	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil, ErrWorkoutNotFound
	}

	var (
		exercise *domain.Exercise
		err      error
	)
	if strings.TrimSpace(input.ExerciseID) != "" {
		exercise, err = s.exerciseService.GetByID(ctx, input.ExerciseID)
	} else {
		exercise, err = s.exerciseService.CreateOrGet(ctx, ownerID, input.Name, input.Target)
	}
	if err != nil {
		return nil, err
	}

	entry := domain.WorkoutExerciseEntry{
		ID:         s.newID(),
		ExerciseID: exercise.ID.Hex(),
		Name:       exercise.Name,
		Target:     exercise.Target,
		Sets:       []domain.WorkoutSet{},
	}

	if err := s.workoutRepo.PushExercise(ctx, ownerID, id, entry, s.now()); err != nil {
		return nil, mapWorkoutErr(err, "failed to attach exercise")
	}
	return &entry, nil
}

// DetachExercise removes an entry and its sets. A missing entry is a no-op.
func (s *workoutService) DetachExercise(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID string) error {
	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil
	}
	if err := s.workoutRepo.PullExercise(ctx, ownerID, id, entryID, s.now()); err != nil {
		return pkgerrors.Wrap(err, "failed to detach exercise")
	}
	return nil
}

// AddSet validates reps (integer >= 1) and weight (>= 0) before appending the set
// to the single entry identified by entryID.
func (s *workoutService) AddSet(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID string, reps, weight float64) (*domain.WorkoutSet, error) {
	if math.IsNaN(reps) || math.IsInf(reps, 0) || reps < 1 || reps != math.Trunc(reps) || reps > math.MaxInt32 {
		return nil, validationError("reps must be a whole number of at least 1")
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return nil, validationError("weight must be a number of at least 0")
	}

	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil, ErrWorkoutNotFound
	}

	now := s.now()
	set := domain.WorkoutSet{
		ID:        s.newID(),
		Reps:      int(reps),
		Weight:    weight,
		CreatedAt: now,
	}

	if err := s.workoutRepo.PushSet(ctx, ownerID, id, entryID, set, now); err != nil {
		return nil, mapWorkoutErr(err, "failed to add set")
	}
	return &set, nil
}

// RemoveSet removes one set from one entry. A missing set is a no-op.
func (s *workoutService) RemoveSet(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID, setID string) error {
	id, ok := parseWorkoutID(workoutID)
	if !ok {
		return nil
	}
	if err := s.workoutRepo.PullSet(ctx, ownerID, id, entryID, setID, s.now()); err != nil {
		return pkgerrors.Wrap(err, "failed to remove set")
	}
	return nil
}
