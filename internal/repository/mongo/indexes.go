package mongo

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexer creates the indexes every write path depends on, once per process.
// Ensure must succeed before the server accepts requests; later calls are no-ops.
type Indexer struct {
	db   *mongo.Database
	mu   sync.Mutex
	done bool
}

func NewIndexer(db *mongo.Database) *Indexer {
	return &Indexer{db: db}
}

// Ensure builds all indexes. A failure leaves the indexer un-done so it can be retried.
func (i *Indexer) Ensure(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.done {
		return nil
	}

	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{workoutCollectionName, EnsureWorkoutIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx, i.db.Collection(step.collection)); err != nil {
			return errors.Wrapf(err, "ensure indexes for %s", step.collection)
		}
		log.Debugf("indexes ready for collection %s", step.collection)
	}

	i.done = true
	return nil
}

// EnsureUserIndexes makes usernameLower unique. This index is what closes the race
// between two registrations of the same name in different casing.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "usernameLower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// EnsureExerciseIndexes makes normalizedName unique and supports the name-sorted listing.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "normalizedName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureWorkoutIndexes supports listing a user's workouts newest first.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
