package api

import (
	"context"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/service"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID primitive.ObjectID) (*domain.PublicUser, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.PublicUser)
	return user, args.Error(1)
}

func (m *MockAuthService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, username, password string) (primitive.ObjectID, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockAuthService) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) List(ctx context.Context, search string) ([]domain.Exercise, error) {
	args := m.Called(ctx, search)
	exercises, _ := args.Get(0).([]domain.Exercise)
	return exercises, args.Error(1)
}

func (m *MockExerciseService) GetByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	args := m.Called(ctx, exerciseID)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func (m *MockExerciseService) CreateOrGet(ctx context.Context, creatorID primitive.ObjectID, name, target string) (*domain.Exercise, error) {
	args := m.Called(ctx, creatorID, name, target)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

type MockWorkoutService struct {
	mock.Mock
}

func (m *MockWorkoutService) List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	args := m.Called(ctx, ownerID)
	workouts, _ := args.Get(0).([]domain.Workout)
	return workouts, args.Error(1)
}

func (m *MockWorkoutService) Get(ctx context.Context, ownerID primitive.ObjectID, workoutID string) (*domain.Workout, error) {
	args := m.Called(ctx, ownerID, workoutID)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *MockWorkoutService) Create(ctx context.Context, ownerID primitive.ObjectID, name string) (*domain.Workout, error) {
	args := m.Called(ctx, ownerID, name)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *MockWorkoutService) Update(ctx context.Context, ownerID primitive.ObjectID, workoutID string, input service.UpdateWorkoutInput) (*domain.Workout, error) {
	args := m.Called(ctx, ownerID, workoutID, input)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *MockWorkoutService) Delete(ctx context.Context, ownerID primitive.ObjectID, workoutID string) error {
	return m.Called(ctx, ownerID, workoutID).Error(0)
}

func (m *MockWorkoutService) AttachExercise(ctx context.Context, ownerID primitive.ObjectID, workoutID string, input service.AttachExerciseInput) (*domain.WorkoutExerciseEntry, error) {
	args := m.Called(ctx, ownerID, workoutID, input)
	entry, _ := args.Get(0).(*domain.WorkoutExerciseEntry)
	return entry, args.Error(1)
}

func (m *MockWorkoutService) DetachExercise(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID string) error {
	return m.Called(ctx, ownerID, workoutID, entryID).Error(0)
}

func (m *MockWorkoutService) AddSet(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID string, reps, weight float64) (*domain.WorkoutSet, error) {
	args := m.Called(ctx, ownerID, workoutID, entryID, reps, weight)
	set, _ := args.Get(0).(*domain.WorkoutSet)
	return set, args.Error(1)
}

func (m *MockWorkoutService) RemoveSet(ctx context.Context, ownerID primitive.ObjectID, workoutID, entryID, setID string) error {
	return m.Called(ctx, ownerID, workoutID, entryID, setID).Error(0)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportWorkouts(ctx context.Context, ownerID primitive.ObjectID) (*service.ExportResult, error) {
	args := m.Called(ctx, ownerID)
	result, _ := args.Get(0).(*service.ExportResult)
	return result, args.Error(1)
}
