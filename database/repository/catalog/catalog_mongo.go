package catalogRepo

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

// ErrNotFound is returned when a package does not exist.
var ErrNotFound = errors.New("package not found")

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	packages    *mongo.Collection
	bundleItems *mongo.Collection
}

// NewMongoCatalogRepo creates a CatalogRepository backed by the given database.
func NewMongoCatalogRepo(db *mongo.Database) (*MongoCatalogRepo, error) {
	repo := &MongoCatalogRepo{
		packages:    db.Collection("service_packages"),
		bundleItems: db.Collection("bundle_items"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create catalog indexes: %w", err)
	}
	return repo, nil
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.packages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}},
			Options: options.Index().SetName("active_idx"),
		},
	})
	if err != nil {
		return err
	}

	// Display order is unique within a bundle for deterministic listing.
	_, err = r.bundleItems.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bundleId", Value: 1}, {Key: "displayOrder", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_bundle_order"),
		},
		{
			Keys:    bson.D{{Key: "bundleId", Value: 1}, {Key: "includedPackageId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_bundle_item"),
		},
	})
	return err
}

// Create inserts a new service package.
func (r *MongoCatalogRepo) Create(pkg *models.ServicePackage) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.packages.InsertOne(ctx, pkg); err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// GetByID fetches a package by its ID.
func (r *MongoCatalogRepo) GetByID(id string) (*models.ServicePackage, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var pkg models.ServicePackage
	if err := r.packages.FindOne(ctx, bson.M{"id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch package with id %s: %w", id, err)
	}
	return &pkg, nil
}

// ListActive returns all active packages ordered by ID.
func (r *MongoCatalogRepo) ListActive() ([]models.ServicePackage, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.packages.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []models.ServicePackage
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

// GetBundleItems returns a bundle's items ordered by display order.
func (r *MongoCatalogRepo) GetBundleItems(bundleID string) ([]models.BundleItem, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}})
	cursor, err := r.bundleItems.Find(ctx, bson.M{"bundleId": bundleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bundle items for %s: %w", bundleID, err)
	}
	defer cursor.Close(ctx)

	var items []models.BundleItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode bundle items: %w", err)
	}
	return items, nil
}

// AddBundleItem attaches an included package to a bundle.
func (r *MongoCatalogRepo) AddBundleItem(item *models.BundleItem) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.bundleItems.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to add bundle item: %w", err)
	}
	return nil
}
