package auditRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository records and lists security-relevant actions.
type AuditRepository interface {
	Append(entry *models.AuditLog) error
	List(logType string, limit int) ([]models.AuditLog, error)
}

// MongoAuditRepo implements AuditRepository using MongoDB.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo creates an AuditRepository backed by the given database.
func NewMongoAuditRepo(db *mongo.Database) (*MongoAuditRepo, error) {
	repo := &MongoAuditRepo{coll: db.Collection("audit_logs")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "logType", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("type_created_idx"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create audit indexes: %w", err)
	}
	return repo, nil
}

// Append stores one audit entry.
func (r *MongoAuditRepo) Append(entry *models.AuditLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

// List returns recent entries, optionally filtered by type, newest first.
func (r *MongoAuditRepo) List(logType string, limit int) ([]models.AuditLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	filter := bson.M{}
	if logType != "" {
		filter["logType"] = logType
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit logs: %w", err)
	}
	return entries, nil
}
