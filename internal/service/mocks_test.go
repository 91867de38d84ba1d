package service

import (
	"context"
	"time"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockUserRepo) GetByUsernameLower(ctx context.Context, usernameLower string) (*domain.User, error) {
	args := m.Called(ctx, usernameLower)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockExerciseRepo struct {
	mock.Mock
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	args := m.Called(ctx, exercise)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func (m *mockExerciseRepo) GetByNormalizedName(ctx context.Context, normalizedName string) (*domain.Exercise, error) {
	args := m.Called(ctx, normalizedName)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func (m *mockExerciseRepo) Search(ctx context.Context, pattern string, limit int64) ([]domain.Exercise, error) {
	args := m.Called(ctx, pattern, limit)
	exercises, _ := args.Get(0).([]domain.Exercise)
	return exercises, args.Error(1)
}

type mockWorkoutRepo struct {
	mock.Mock
}

func (m *mockWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	args := m.Called(ctx, workout)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockWorkoutRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	args := m.Called(ctx, ownerID)
	workouts, _ := args.Get(0).([]domain.Workout)
	return workouts, args.Error(1)
}

func (m *mockWorkoutRepo) GetByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	args := m.Called(ctx, ownerID, workoutID)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *mockWorkoutRepo) Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, fields repository.WorkoutFields, now time.Time) (*domain.Workout, error) {
	args := m.Called(ctx, ownerID, workoutID, fields, now)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *mockWorkoutRepo) Delete(ctx context.Context, ownerID, workoutID primitive.ObjectID) error {
	return m.Called(ctx, ownerID, workoutID).Error(0)
}

func (m *mockWorkoutRepo) PushExercise(ctx context.Context, ownerID, workoutID primitive.ObjectID, entry domain.WorkoutExerciseEntry, now time.Time) error {
	return m.Called(ctx, ownerID, workoutID, entry, now).Error(0)
}

func (m *mockWorkoutRepo) PullExercise(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID string, now time.Time) error {
	return m.Called(ctx, ownerID, workoutID, entryID, now).Error(0)
}

func (m *mockWorkoutRepo) PushSet(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID string, set domain.WorkoutSet, now time.Time) error {
	return m.Called(ctx, ownerID, workoutID, entryID, set, now).Error(0)
}

func (m *mockWorkoutRepo) PullSet(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID, setID string, now time.Time) error {
	return m.Called(ctx, ownerID, workoutID, entryID, setID, now).Error(0)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error {
	return m.Called(ctx, objectKey, contentType, body).Error(0)
}

func (m *mockStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}
