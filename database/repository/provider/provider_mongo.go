package providerRepo

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

// ErrNotFound is returned when a provider does not exist.
var ErrNotFound = errors.New("provider not found")

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	providers      *mongo.Collection
	services       *mongo.Collection
	unavailability *mongo.Collection
}

// NewMongoProviderRepo creates a ProviderRepository backed by the given database.
func NewMongoProviderRepo(db *mongo.Database) (*MongoProviderRepo, error) {
	repo := &MongoProviderRepo{
		providers:      db.Collection("service_providers"),
		services:       db.Collection("provider_services"),
		unavailability: db.Collection("provider_availability"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create provider indexes: %w", err)
	}
	return repo, nil
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoProviderRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.providers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "averageRating", Value: -1}},
			Options: options.Index().SetName("active_rating_idx"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.services.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "packageId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_provider_package"),
		},
		{
			Keys:    bson.D{{Key: "packageId", Value: 1}, {Key: "available", Value: 1}},
			Options: options.Index().SetName("package_available_idx"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.unavailability.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("provider_date_idx"),
		},
	})
	return err
}

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(provider *models.Provider) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	provider.CreatedAt = now
	provider.UpdatedAt = now

	if _, err := r.providers.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

// GetByID fetches a provider by its ID.
func (r *MongoProviderRepo) GetByID(id string) (*models.Provider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var provider models.Provider
	if err := r.providers.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &provider, nil
}

// ListActive returns active providers ordered by rating, best first.
func (r *MongoProviderRepo) ListActive() ([]models.Provider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "averageRating", Value: -1}})
	cursor, err := r.providers.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}

// SetService upserts a provider's offering of a package.
func (r *MongoProviderRepo) SetService(ps *models.ProviderService) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"providerId": ps.ProviderID, "packageId": ps.PackageID}
	update := bson.M{"$set": ps}
	opts := options.Update().SetUpsert(true)

	if _, err := r.services.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to set provider service: %w", err)
	}
	return nil
}

// AddUnavailability records an explicit availability override.
func (r *MongoProviderRepo) AddUnavailability(av *models.ProviderAvailability) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.unavailability.InsertOne(ctx, av); err != nil {
		return fmt.Errorf("failed to add unavailability: %w", err)
	}
	return nil
}

// ListUnavailability returns overrides for a provider on a date.
func (r *MongoProviderRepo) ListUnavailability(providerID, date string) ([]models.ProviderAvailability, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.unavailability.Find(ctx, bson.M{"providerId": providerID, "date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list unavailability for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var overrides []models.ProviderAvailability
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode unavailability records: %w", err)
	}
	return overrides, nil
}

// HasUnavailabilityOverride reports whether an is_available=false record covers
// the given time on that date. Containment is [start, end): fixed-width "HH:MM"
// strings compare correctly as strings.
func (r *MongoProviderRepo) HasUnavailabilityOverride(providerID, date, timeOfDay string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"available":  false,
		"startTime":  bson.M{"$lte": timeOfDay},
		"endTime":    bson.M{"$gt": timeOfDay},
	}
	count, err := r.unavailability.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check unavailability override: %w", err)
	}
	return count > 0, nil
}
