package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	studentserrors "github.com/MuhammadFeyaz/go2koereskole/internal/students/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	mongotx "github.com/MuhammadFeyaz/go2koereskole/pkg/db/mongo"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

const (
	CollectionName = "Students"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id string) (*model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Student, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoStudentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoStudentRepository(cfg *config.Config) StudentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStudentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoStudentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Create relies on the unique index on email; a duplicate insert surfaces as
// ErrEmailExists.
func (r *mongoStudentRepository) Create(ctx context.Context, student *model.Student) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	student.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, student)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return studentserrors.ErrEmailExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		student.ID = oid.Hex()
	}
	return nil
}

func (r *mongoStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", studentserrors.ErrInvalidID, id)
	}

	var student model.Student
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, studentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	return &student, nil
}

func (r *mongoStudentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var student model.Student
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, studentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student by email: %w", err)
	}

	return &student, nil
}

func (r *mongoStudentRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Student, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []*model.Student
	if err = cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}

	return students, nil
}

func (r *mongoStudentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func (r *mongoStudentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", studentserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if result.DeletedCount == 0 {
		return studentserrors.ErrNotFound
	}

	return nil
}

func (r *mongoStudentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
