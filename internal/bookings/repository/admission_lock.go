package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
)

// AdmissionLock is an advisory lock document. Its _id is the lock name; a
// unique-key insert either takes the lock or fails, and a TTL index on
// expires_at reaps locks left behind by crashed requests.
type AdmissionLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type AdmissionLockRepository interface {
	Acquire(ctx context.Context, lock *AdmissionLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoAdmissionLockRepository struct {
	collection *mongo.Collection
}

func NewAdmissionLockRepository(cfg *config.Config) AdmissionLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAdmissionLockRepository{
		collection: db.Collection("Admission_locks"),
	}
}

// Acquire inserts the lock document; a duplicate key error means another
// request holds it.
func (r *mongoAdmissionLockRepository) Acquire(ctx context.Context, lock *AdmissionLock) error {
	lock.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

func (r *mongoAdmissionLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
