// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTarget is stored when an exercise or entry is created without a target muscle.
const DefaultTarget = "Unspecified"

// Exercise is a catalog entry shared by every user.
// NormalizedName is unique across the collection, see NormalizeExerciseName.
type Exercise struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NormalizedName string             `bson:"normalizedName" json:"-"`
	Target         string             `bson:"target" json:"target"` // e.g. "Chest", "Legs"
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy      primitive.ObjectID `bson:"createdBy" json:"createdBy"`
}

// NormalizeExerciseName trims, lowercases and collapses internal whitespace,
// so "  Bench   Press " and "bench press" map to the same catalog entry.
func NormalizeExerciseName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
