package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"
	"github.com/FabienBounoir/muscouns/internal/storage"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportContentType = "application/json"

// ExportResult points at an uploaded export document.
type ExportResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type workoutExport struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Workouts   []domain.Workout `json:"workouts"`
}

// ExportService snapshots a user's workouts into object storage.
type ExportService interface {
	ExportWorkouts(ctx context.Context, ownerID primitive.ObjectID) (*ExportResult, error)
}

type exportService struct {
	workoutRepo repository.WorkoutRepository
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
	now         func() time.Time
	newID       func() string
}

// NewExportService creates a new instance of exportService. A nil fileStorage
// disables exports and every call returns ErrExportDisabled.
func NewExportService(workoutRepo repository.WorkoutRepository, fileStorage storage.FileStorage, urlExpiry time.Duration) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		workoutRepo: workoutRepo,
		fileStorage: fileStorage,
		urlExpiry:   urlExpiry,
		now:         storageNow,
		newID:       uuid.NewString,
	}
}

func (s *exportService) ExportWorkouts(ctx context.Context, ownerID primitive.ObjectID) (*ExportResult, error) {
	if s.fileStorage == nil {
		return nil, ErrExportDisabled
	}

	workouts, err := s.workoutRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list workouts for export")
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}

	now := s.now()
	body, err := json.Marshal(workoutExport{ExportedAt: now, Workouts: workouts})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encode export")
	}

	key := fmt.Sprintf("exports/%s/%s.json", ownerID.Hex(), s.newID())
	if err := s.fileStorage.PutObject(ctx, key, exportContentType, body); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to upload export")
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		// An export nobody can download is garbage.
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			log.Warnf("Failed to clean up export %s: %v", key, delErr)
		}
		return nil, pkgerrors.Wrap(err, "failed to sign export url")
	}

	log.Infof("Exported %d workouts for user %s to %s", len(workouts), ownerID.Hex(), key)
	return &ExportResult{URL: url, Key: key, ExpiresAt: now.Add(s.urlExpiry)}, nil
}
