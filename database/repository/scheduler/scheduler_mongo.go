package schedulerRepo

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

// Sentinel errors surfaced to the booking core.
var (
	ErrNotFound         = errors.New("booking not found")
	ErrCapacityConflict = errors.New("slot capacity exceeded")
	ErrWorkItemConflict = errors.New("work item missing or already resolved")
)

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	bookings  *mongo.Collection
	slots     *mongo.Collection
	slotUsage *mongo.Collection
	workItems *mongo.Collection
}

// NewMongoSchedulerRepo creates a SchedulerRepository backed by the given database.
func NewMongoSchedulerRepo(db *mongo.Database) (*MongoSchedulerRepo, error) {
	repo := &MongoSchedulerRepo{
		bookings:  db.Collection("bookings"),
		slots:     db.Collection("booking_time_slots"),
		slotUsage: db.Collection("slot_usage"),
		workItems: db.Collection("work_items"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create scheduler indexes: %w", err)
	}
	return repo, nil
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSchedulerRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_reference"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.slots.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("provider_date_time_idx"),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetName("booking_idx"),
		},
	})
	if err != nil {
		return err
	}

	// The unique key is what makes the conditional usage upsert safe: a racing
	// insert for the same slot key collides here instead of double-counting.
	_, err = r.slotUsage.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_slot_key"),
	})
	return err
}

// CountBookedSlots counts booked rows for the exact (provider, date, time).
func (r *MongoSchedulerRepo) CountBookedSlots(providerID, date, timeOfDay string) (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"time":       timeOfDay,
		"status":     models.TimeSlotStatusBooked,
	}
	count, err := r.slots.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count booked slots: %w", err)
	}
	return int(count), nil
}

// GetBookingByID fetches a booking by its ID or reference code.
func (r *MongoSchedulerRepo) GetBookingByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{bson.M{"id": id}, bson.M{"reference": id}}}
	var booking models.Booking
	if err := r.bookings.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetBookingSlots returns a booking's reserved slots in date/time order.
func (r *MongoSchedulerRepo) GetBookingSlots(bookingID string) ([]models.BookingTimeSlot, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.slots.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var slots []models.BookingTimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode booking slots: %w", err)
	}
	return slots, nil
}
