package service

import (
	"context"
	"math"
	"testing"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockExerciseService struct {
	mock.Mock
}

func (m *mockExerciseService) List(ctx context.Context, search string) ([]domain.Exercise, error) {
	args := m.Called(ctx, search)
	exercises, _ := args.Get(0).([]domain.Exercise)
	return exercises, args.Error(1)
}

func (m *mockExerciseService) GetByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	args := m.Called(ctx, exerciseID)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func (m *mockExerciseService) CreateOrGet(ctx context.Context, creatorID primitive.ObjectID, name, target string) (*domain.Exercise, error) {
	args := m.Called(ctx, creatorID, name, target)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func newTestWorkoutService(repo repository.WorkoutRepository, exercises ExerciseService) *workoutService {
	return &workoutService{
		workoutRepo:     repo,
		exerciseService: exercises,
		now:             fixedClock,
		newID:           sequentialIDs(),
	}
}

func TestWorkoutService_Create(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	repo := new(mockWorkoutRepo)
	svc := newTestWorkoutService(repo, new(mockExerciseService))
	newID := primitive.NewObjectID()

	repo.On("Create", ctx, mock.MatchedBy(func(w *domain.Workout) bool {
		return w.UserID == owner && w.Name == "Leg Day" && w.CreatedAt.Equal(fixedNow) &&
			w.UpdatedAt.Equal(fixedNow) && w.Exercises != nil && len(w.Exercises) == 0
	})).Return(newID, nil)

	workout, err := svc.Create(ctx, owner, "  Leg Day ")
	require.NoError(t, err)
	assert.Equal(t, newID, workout.ID)

	_, err = svc.Create(ctx, owner, " L ")
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestWorkoutService_GetWrongOwnerIsNotFound(t *testing.T) {
	ctx := context.Background()
	ownerA, ownerB := primitive.NewObjectID(), primitive.NewObjectID()
	workoutID := primitive.NewObjectID()
	repo := new(mockWorkoutRepo)
	svc := newTestWorkoutService(repo, new(mockExerciseService))

	repo.On("GetByID", ctx, ownerA, workoutID).Return(&domain.Workout{ID: workoutID, UserID: ownerA, Name: "Leg Day"}, nil)
	repo.On("GetByID", ctx, ownerB, workoutID).Return(nil, repository.ErrNotFound)

	workout, err := svc.Get(ctx, ownerA, workoutID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Leg Day", workout.Name)

	_, err = svc.Get(ctx, ownerB, workoutID.Hex())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = svc.Get(ctx, ownerA, "garbage")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestWorkoutService_List(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	repo := new(mockWorkoutRepo)
	svc := newTestWorkoutService(repo, new(mockExerciseService))
	repo.On("GetByOwner", ctx, owner).Return(nil, nil)

	workouts, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, workouts)
	assert.Empty(t, workouts)
}

func TestWorkoutService_Update(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	t.Run("NoFieldsStillRefreshesUpdatedAt", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		fresh := &domain.Workout{ID: workoutID, UserID: owner, UpdatedAt: fixedNow}
		repo.On("Update", ctx, owner, workoutID, repository.WorkoutFields{}, fixedNow).Return(fresh, nil)

		got, err := svc.Update(ctx, owner, workoutID.Hex(), UpdateWorkoutInput{})
		require.NoError(t, err)
		assert.Equal(t, fresh, got)
	})

	t.Run("BlankNameBecomesPlaceholder", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		blank := "   "
		repo.On("Update", ctx, owner, workoutID, mock.MatchedBy(func(f repository.WorkoutFields) bool {
			return f.Name != nil && *f.Name == domain.DefaultWorkoutName && f.Exercises == nil
		}), fixedNow).Return(&domain.Workout{}, nil)

		_, err := svc.Update(ctx, owner, workoutID.Hex(), UpdateWorkoutInput{Name: &blank})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("ExercisesAreSanitized", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		payload := []any{
			map[string]any{
				"id":   "keep-me",
				"name": "Squat",
				"sets": []any{map[string]any{"reps": "8", "weight": 60.5, "$where": "1"}},
			},
			"not-an-object",
		}
		repo.On("Update", ctx, owner, workoutID, mock.MatchedBy(func(f repository.WorkoutFields) bool {
			return len(f.Exercises) == 2 &&
				f.Exercises[0].ID == "keep-me" &&
				f.Exercises[0].Sets[0].Reps == 8 &&
				f.Exercises[0].Sets[0].Weight == 60.5 &&
				f.Exercises[1].Name == domain.DefaultExerciseName
		}), fixedNow).Return(&domain.Workout{}, nil)

		_, err := svc.Update(ctx, owner, workoutID.Hex(), UpdateWorkoutInput{Exercises: payload, HasExercises: true})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("NullExercisesClearArray", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		repo.On("Update", ctx, owner, workoutID, mock.MatchedBy(func(f repository.WorkoutFields) bool {
			return f.Exercises != nil && len(f.Exercises) == 0
		}), fixedNow).Return(&domain.Workout{}, nil)

		_, err := svc.Update(ctx, owner, workoutID.Hex(), UpdateWorkoutInput{Exercises: nil, HasExercises: true})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("MissingWorkout", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		repo.On("Update", ctx, owner, workoutID, mock.Anything, fixedNow).Return(nil, repository.ErrNotFound)

		_, err := svc.Update(ctx, owner, workoutID.Hex(), UpdateWorkoutInput{})
		assert.ErrorIs(t, err, ErrWorkoutNotFound)
	})
}

func TestWorkoutService_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()
	repo := new(mockWorkoutRepo)
	svc := newTestWorkoutService(repo, new(mockExerciseService))
	repo.On("Delete", ctx, owner, workoutID).Return(nil)

	assert.NoError(t, svc.Delete(ctx, owner, workoutID.Hex()))
	assert.NoError(t, svc.Delete(ctx, owner, workoutID.Hex()))
	assert.NoError(t, svc.Delete(ctx, owner, "garbage"))
	repo.AssertNumberOfCalls(t, "Delete", 2)
}

func TestWorkoutService_AttachExercise(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()
	catalog := &domain.Exercise{ID: primitive.NewObjectID(), Name: "Bench Press", Target: "Chest"}

	t.Run("ByCatalogIDSnapshotsFields", func(t *testing.T) {
		repo, exercises := new(mockWorkoutRepo), new(mockExerciseService)
		svc := newTestWorkoutService(repo, exercises)
		exercises.On("GetByID", ctx, catalog.ID.Hex()).Return(catalog, nil)

		expected := domain.WorkoutExerciseEntry{
			ID:         "id-1",
			ExerciseID: catalog.ID.Hex(),
			Name:       "Bench Press",
			Target:     "Chest",
			Sets:       []domain.WorkoutSet{},
		}
		repo.On("PushExercise", ctx, owner, workoutID, expected, fixedNow).Return(nil)

		entry, err := svc.AttachExercise(ctx, owner, workoutID.Hex(), AttachExerciseInput{ExerciseID: catalog.ID.Hex()})
		require.NoError(t, err)
		assert.Equal(t, expected, *entry)

		// Later catalog edits do not reach the returned snapshot.
		catalog.Name = "Renamed"
		assert.Equal(t, "Bench Press", entry.Name)
		catalog.Name = "Bench Press"
	})

	t.Run("ByNameCreatesCatalogEntry", func(t *testing.T) {
		repo, exercises := new(mockWorkoutRepo), new(mockExerciseService)
		svc := newTestWorkoutService(repo, exercises)
		exercises.On("CreateOrGet", ctx, owner, "bench press", "").Return(catalog, nil)
		repo.On("PushExercise", ctx, owner, workoutID, mock.Anything, fixedNow).Return(nil)

		entry, err := svc.AttachExercise(ctx, owner, workoutID.Hex(), AttachExerciseInput{Name: "bench press"})
		require.NoError(t, err)
		assert.Equal(t, catalog.ID.Hex(), entry.ExerciseID)
	})

	t.Run("UnknownCatalogExercise", func(t *testing.T) {
		repo, exercises := new(mockWorkoutRepo), new(mockExerciseService)
		svc := newTestWorkoutService(repo, exercises)
		exercises.On("GetByID", ctx, "abc").Return(nil, ErrExerciseNotFound)

		_, err := svc.AttachExercise(ctx, owner, workoutID.Hex(), AttachExerciseInput{ExerciseID: "abc"})
		assert.ErrorIs(t, err, ErrExerciseNotFound)
		repo.AssertNotCalled(t, "PushExercise", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingWorkout", func(t *testing.T) {
		repo, exercises := new(mockWorkoutRepo), new(mockExerciseService)
		svc := newTestWorkoutService(repo, exercises)
		exercises.On("GetByID", ctx, catalog.ID.Hex()).Return(catalog, nil)
		repo.On("PushExercise", ctx, owner, workoutID, mock.Anything, fixedNow).Return(repository.ErrNotFound)

		_, err := svc.AttachExercise(ctx, owner, workoutID.Hex(), AttachExerciseInput{ExerciseID: catalog.ID.Hex()})
		assert.ErrorIs(t, err, ErrWorkoutNotFound)
	})
}

func TestWorkoutService_AddSet(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		expected := domain.WorkoutSet{ID: "id-1", Reps: 8, Weight: 60, CreatedAt: fixedNow}
		repo.On("PushSet", ctx, owner, workoutID, "entry-1", expected, fixedNow).Return(nil)

		set, err := svc.AddSet(ctx, owner, workoutID.Hex(), "entry-1", 8, 60)
		require.NoError(t, err)
		assert.Equal(t, expected, *set)
	})

	t.Run("InvalidInputRejectedBeforeStorage", func(t *testing.T) {
		testCases := []struct {
			name   string
			reps   float64
			weight float64
		}{
			{name: "ZeroReps", reps: 0, weight: 10},
			{name: "FractionalReps", reps: 2.5, weight: 10},
			{name: "NaNReps", reps: math.NaN(), weight: 10},
			{name: "NegativeWeight", reps: 5, weight: -1},
			{name: "InfiniteWeight", reps: 5, weight: math.Inf(1)},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				repo := new(mockWorkoutRepo)
				svc := newTestWorkoutService(repo, new(mockExerciseService))

				_, err := svc.AddSet(ctx, owner, workoutID.Hex(), "entry-1", tc.reps, tc.weight)
				assert.ErrorIs(t, err, ErrValidation)
				repo.AssertNotCalled(t, "PushSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("ZeroWeightAllowed", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		repo.On("PushSet", ctx, owner, workoutID, "entry-1", mock.Anything, fixedNow).Return(nil)

		set, err := svc.AddSet(ctx, owner, workoutID.Hex(), "entry-1", 12, 0)
		require.NoError(t, err)
		assert.Zero(t, set.Weight)
	})

	t.Run("UnknownEntry", func(t *testing.T) {
		repo := new(mockWorkoutRepo)
		svc := newTestWorkoutService(repo, new(mockExerciseService))
		repo.On("PushSet", ctx, owner, workoutID, "nope", mock.Anything, fixedNow).Return(repository.ErrNotFound)

		_, err := svc.AddSet(ctx, owner, workoutID.Hex(), "nope", 8, 60)
		assert.ErrorIs(t, err, ErrWorkoutNotFound)
	})
}

func TestWorkoutService_DetachAndRemoveSetAreNoOpsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()
	repo := new(mockWorkoutRepo)
	svc := newTestWorkoutService(repo, new(mockExerciseService))

	repo.On("PullExercise", ctx, owner, workoutID, "missing-entry", fixedNow).Return(nil)
	repo.On("PullSet", ctx, owner, workoutID, "entry-1", "missing-set", fixedNow).Return(nil)

	assert.NoError(t, svc.DetachExercise(ctx, owner, workoutID.Hex(), "missing-entry"))
	assert.NoError(t, svc.RemoveSet(ctx, owner, workoutID.Hex(), "entry-1", "missing-set"))
	assert.NoError(t, svc.RemoveSet(ctx, owner, "garbage", "entry-1", "missing-set"))
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "PullSet", 1)
}
