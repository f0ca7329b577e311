package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formlens/internal/model"
)

// ReportRepo handles MongoDB operations for feedback reports.
// Only the latest report per form is kept.
type ReportRepo interface {
	Save(ctx context.Context, report *model.StoredReport) error
	GetByFormID(ctx context.Context, formID string) (*model.StoredReport, error)
	DeleteByFormID(ctx context.Context, formID string) error
}

type reportRepo struct {
	reports *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		reports: db.Collection("feedback_reports"),
	}
}

func (r *reportRepo) Save(ctx context.Context, report *model.StoredReport) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.reports.ReplaceOne(ctx, bson.M{"formId": report.FormID}, report, opts)
	return err
}

func (r *reportRepo) GetByFormID(ctx context.Context, formID string) (*model.StoredReport, error) {
	var report model.StoredReport
	err := r.reports.FindOne(ctx, bson.M{"formId": formID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) DeleteByFormID(ctx context.Context, formID string) error {
	_, err := r.reports.DeleteOne(ctx, bson.M{"formId": formID})
	return err
}
