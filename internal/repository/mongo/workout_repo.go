// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository.
//
// Every mutation of the nested exercises/sets arrays is a single update operator
// ($push, $pull, positional $) on one document, so concurrent mutations of
// different entries in the same workout never overwrite each other.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

func ownedBy(ownerID, workoutID primitive.ObjectID) bson.M {
	return bson.M{"_id": workoutID, "userId": ownerID}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and name")
	}
	workout.ID = primitive.NewObjectID()
	if workout.Exercises == nil {
		workout.Exercises = []domain.WorkoutExerciseEntry{}
	}

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByOwner retrieves all workouts of a user, newest first.
func (r *mongoWorkoutRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	for i := range workouts {
		normalizeWorkout(&workouts[i])
	}
	return workouts, nil
}

// GetByID retrieves a single workout owned by ownerID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, ownedBy(ownerID, workoutID)).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	normalizeWorkout(&workout)
	return &workout, nil
}

// Update sets the provided fields and updatedAt in one operation and returns the new state.
func (r *mongoWorkoutRepository) Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, fields repository.WorkoutFields, now time.Time) (*domain.Workout, error) {
	set := bson.M{"updatedAt": now}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Exercises != nil {
		set["exercises"] = fields.Exercises
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var workout domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, ownedBy(ownerID, workoutID), bson.M{"$set": set}, opts).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	normalizeWorkout(&workout)
	return &workout, nil
}

// Delete removes the workout if it exists and belongs to ownerID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, ownerID, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, ownedBy(ownerID, workoutID))
	return err
}

// PushExercise appends entry to the exercises array.
func (r *mongoWorkoutRepository) PushExercise(ctx context.Context, ownerID, workoutID primitive.ObjectID, entry domain.WorkoutExerciseEntry, now time.Time) error {
	if entry.Sets == nil {
		entry.Sets = []domain.WorkoutSet{}
	}
	update := bson.M{
		"$push": bson.M{"exercises": entry},
		"$set":  bson.M{"updatedAt": now},
	}

	result, err := r.collection.UpdateOne(ctx, ownedBy(ownerID, workoutID), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PullExercise removes the entry with entryID. Nothing happens if it is absent.
func (r *mongoWorkoutRepository) PullExercise(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID string, now time.Time) error {
	filter := ownedBy(ownerID, workoutID)
	filter["exercises.id"] = entryID // only touch updatedAt when something is removed

	update := bson.M{
		"$pull": bson.M{"exercises": bson.M{"id": entryID}},
		"$set":  bson.M{"updatedAt": now},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// PushSet appends set to the sets of the entry matched by entryID,
// using the positional operator so only that array element is written.
func (r *mongoWorkoutRepository) PushSet(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID string, set domain.WorkoutSet, now time.Time) error {
	filter := ownedBy(ownerID, workoutID)
	filter["exercises.id"] = entryID

	update := bson.M{
		"$push": bson.M{"exercises.$.sets": set},
		"$set":  bson.M{"updatedAt": now},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PullSet removes one set from one entry. $elemMatch binds the positional operator
// to the entry that actually holds the set, so the pull is atomic and a missing
// set leaves the document (including updatedAt) untouched.
func (r *mongoWorkoutRepository) PullSet(ctx context.Context, ownerID, workoutID primitive.ObjectID, entryID, setID string, now time.Time) error {
	filter := ownedBy(ownerID, workoutID)
	filter["exercises"] = bson.M{"$elemMatch": bson.M{"id": entryID, "sets.id": setID}}

	update := bson.M{
		"$pull": bson.M{"exercises.$.sets": bson.M{"id": setID}},
		"$set":  bson.M{"updatedAt": now},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// normalizeWorkout replaces nil arrays left by older documents so they encode as [].
func normalizeWorkout(workout *domain.Workout) {
	if workout.Exercises == nil {
		workout.Exercises = []domain.WorkoutExerciseEntry{}
	}
	for i := range workout.Exercises {
		if workout.Exercises[i].Sets == nil {
			workout.Exercises[i].Sets = []domain.WorkoutSet{}
		}
	}
}
