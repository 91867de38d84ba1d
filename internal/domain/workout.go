package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Placeholders used when a client leaves a field blank.
const (
	DefaultWorkoutName  = "Untitled"
	DefaultExerciseName = "Exercise"
)

// Workout is the aggregate root: one document holding its exercise entries and their sets.
// Every query on this collection filters by both _id and userId.
type Workout struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID     `bson:"userId" json:"-"` // Owner, immutable
	Name      string                 `bson:"name" json:"name"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`
	Exercises []WorkoutExerciseEntry `bson:"exercises" json:"exercises"`
}

// WorkoutExerciseEntry is a snapshot of a catalog exercise taken when it was attached.
// Later catalog edits do not touch existing entries.
type WorkoutExerciseEntry struct {
	ID         string       `bson:"id" json:"id"`                 // Entry identity, unique within the workout
	ExerciseID string       `bson:"exerciseId" json:"exerciseId"` // Catalog exercise hex id, may be empty
	Name       string       `bson:"name" json:"name"`
	Target     string       `bson:"target" json:"target"`
	Sets       []WorkoutSet `bson:"sets" json:"sets"`
}

// WorkoutSet is a single performed set inside an entry.
type WorkoutSet struct {
	ID        string    `bson:"id" json:"id"`
	Reps      int       `bson:"reps" json:"reps"`
	Weight    float64   `bson:"weight" json:"weight"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
