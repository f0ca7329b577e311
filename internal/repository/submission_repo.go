package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formlens/internal/model"
)

// SubmissionRepo handles MongoDB operations for submission logs
type SubmissionRepo interface {
	Insert(ctx context.Context, record *model.SubmissionRecord) (string, error)
	ListByForm(ctx context.Context, formID string) ([]model.SubmissionLog, error)
	CountByForm(ctx context.Context, formID string) (int64, error)
	DeleteByForm(ctx context.Context, formID string) error
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Insert(ctx context.Context, record *model.SubmissionRecord) (string, error) {
	record.ID = ""
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return record.ID, nil
}

// ListByForm returns every stored log for the form in submission order
func (r *submissionRepo) ListByForm(ctx context.Context, formID string) ([]model.SubmissionLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	logs := make([]model.SubmissionLog, 0, len(records))
	for i := range records {
		logs = append(logs, records[i].Log())
	}
	return logs, nil
}

func (r *submissionRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"formId": formID})
}

func (r *submissionRepo) DeleteByForm(ctx context.Context, formID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	return err
}
