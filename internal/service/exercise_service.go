package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinExerciseNameLength = 2
	// MaxCatalogResults caps a single catalog listing.
	MaxCatalogResults = 100
)

// ExerciseService manages the shared exercise catalog.
type ExerciseService interface {
	List(ctx context.Context, search string) ([]domain.Exercise, error)
	GetByID(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	// CreateOrGet returns the existing entry when the normalized name is taken,
	// ignoring the new target and creator.
	CreateOrGet(ctx context.Context, creatorID primitive.ObjectID, name, target string) (*domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		now:          storageNow,
	}
}

// List returns up to MaxCatalogResults exercises whose name contains search, case-insensitively.
// search is matched literally: regex metacharacters are escaped.
func (s *exerciseService) List(ctx context.Context, search string) ([]domain.Exercise, error) {
	pattern := ""
	if cleaned := strings.TrimSpace(search); cleaned != "" {
		pattern = regexp.QuoteMeta(cleaned)
	}

	exercises, err := s.exerciseRepo.Search(ctx, pattern, MaxCatalogResults)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list exercises")
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}

// GetByID retrieves a single catalog exercise. A malformed id is reported as not found.
func (s *exerciseService) GetByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(exerciseID))
	if err != nil {
		return nil, ErrExerciseNotFound
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to get exercise")
	}
	return exercise, nil
}

// CreateOrGet is idempotent by normalized name and safe under concurrent identical calls:
// the unique index on normalizedName decides, and losing the insert race means
// returning whatever the winner stored.
func (s *exerciseService) CreateOrGet(ctx context.Context, creatorID primitive.ObjectID, name, target string) (*domain.Exercise, error) {
	trimmedName := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmedName) < MinExerciseNameLength {
		return nil, validationError("exercise name must be at least %d characters", MinExerciseNameLength)
	}
	normalizedName := domain.NormalizeExerciseName(trimmedName)

	existing, err := s.exerciseRepo.GetByNormalizedName(ctx, normalizedName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, pkgerrors.Wrap(err, "failed to find exercise")
	}

	trimmedTarget := strings.TrimSpace(target)
	if trimmedTarget == "" {
		trimmedTarget = domain.DefaultTarget
	}

	exercise := &domain.Exercise{
		Name:           trimmedName,
		NormalizedName: normalizedName,
		Target:         trimmedTarget,
		CreatedAt:      s.now(),
		CreatedBy:      creatorID,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			log.Debugf("exercise %q created concurrently, returning stored entry", normalizedName)
			stored, getErr := s.exerciseRepo.GetByNormalizedName(ctx, normalizedName)
			if getErr != nil {
				return nil, pkgerrors.Wrap(getErr, "failed to re-fetch exercise after conflict")
			}
			return stored, nil
		}
		return nil, pkgerrors.Wrap(err, "failed to create exercise")
	}

	exercise.ID = id
	return exercise, nil
}
