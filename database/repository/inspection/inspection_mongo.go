package inspectionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a report or work item does not exist.
var ErrNotFound = errors.New("inspection record not found")

// InspectionRepository stores inspection reports and their follow-up work
// items. Work items are denormalized into their own collection so the booking
// transaction can resolve one with a single conditional update.
type InspectionRepository interface {
	CreateReport(report *models.InspectionReport) error
	GetReport(id string) (*models.InspectionReport, error)
	GetWorkItem(id string) (*models.WorkItem, error)
	ListOpenWorkItems(packageID string) ([]models.WorkItem, error)
}

// MongoInspectionRepo implements InspectionRepository using MongoDB.
type MongoInspectionRepo struct {
	reports   *mongo.Collection
	workItems *mongo.Collection
}

// NewMongoInspectionRepo creates an InspectionRepository backed by the given database.
func NewMongoInspectionRepo(db *mongo.Database) (*MongoInspectionRepo, error) {
	repo := &MongoInspectionRepo{
		reports:   db.Collection("inspection_reports"),
		workItems: db.Collection("work_items"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.workItems.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "packageId", Value: 1}, {Key: "resolved", Value: 1}},
			Options: options.Index().SetName("package_resolved_idx"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create inspection indexes: %w", err)
	}
	return repo, nil
}

// CreateReport stores a report and its work items.
func (r *MongoInspectionRepo) CreateReport(report *models.InspectionReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report.CreatedAt = time.Now()
	if _, err := r.reports.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to create inspection report: %w", err)
	}

	if len(report.WorkItems) > 0 {
		docs := make([]interface{}, 0, len(report.WorkItems))
		for _, item := range report.WorkItems {
			docs = append(docs, item)
		}
		if _, err := r.workItems.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to store work items: %w", err)
		}
	}
	return nil
}

// GetReport fetches a report by ID.
func (r *MongoInspectionRepo) GetReport(id string) (*models.InspectionReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var report models.InspectionReport
	if err := r.reports.FindOne(ctx, bson.M{"id": id}).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch inspection report %s: %w", id, err)
	}
	return &report, nil
}

// GetWorkItem fetches a work item by ID.
func (r *MongoInspectionRepo) GetWorkItem(id string) (*models.WorkItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.WorkItem
	if err := r.workItems.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch work item %s: %w", id, err)
	}
	return &item, nil
}

// ListOpenWorkItems returns unresolved work items, optionally for one package.
func (r *MongoInspectionRepo) ListOpenWorkItems(packageID string) ([]models.WorkItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"resolved": false}
	if packageID != "" {
		filter["packageId"] = packageID
	}
	cursor, err := r.workItems.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.WorkItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode work items: %w", err)
	}
	return items, nil
}
