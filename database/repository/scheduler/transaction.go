package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// reserveSlotUsage bumps the usage counter for one slot key, but only while the
// count stays below maxConcurrent. A missing counter document is upserted; when
// the filter excludes an at-capacity document the upsert collides with the
// unique slot-key index instead, which we report as a capacity conflict.
func (r *MongoSchedulerRepo) reserveSlotUsage(sc mongo.SessionContext, providerID, date, timeOfDay string, maxConcurrent int) error {
	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"time":       timeOfDay,
		"count":      bson.M{"$lt": maxConcurrent},
	}
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$setOnInsert": bson.M{
			"providerId": providerID,
			"date":       date,
			"time":       timeOfDay,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true)

	err := r.slotUsage.FindOneAndUpdate(sc, filter, update, opts).Err()
	if err != nil && err != mongo.ErrNoDocuments {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCapacityConflict
		}
		return fmt.Errorf("failed to reserve slot usage: %w", err)
	}
	return nil
}

// ReserveBooking inserts the booking and its slot rows atomically. Each slot
// passes through the conditional usage counter first, so concurrent bookings
// for the same (provider, date, time) serialize on the counter document and
// the loser aborts with ErrCapacityConflict.
func (r *MongoSchedulerRepo) ReserveBooking(ctx context.Context, booking *models.Booking, slots []models.SlotRef, maxConcurrent int) error {
	client := r.bookings.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		booking.SlotsReserved = len(slots)
		booking.CreatedAt = now

		if _, err := r.bookings.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		for _, ref := range slots {
			if err := r.reserveSlotUsage(sc, booking.ProviderID, ref.Date, ref.Time, maxConcurrent); err != nil {
				return err
			}
			slot := models.BookingTimeSlot{
				ID:         uuid.New().String(),
				BookingID:  booking.ID,
				ProviderID: booking.ProviderID,
				Date:       ref.Date,
				Time:       ref.Time,
				Status:     models.TimeSlotStatusBooked,
				CreatedAt:  now,
			}
			if _, err := r.slots.InsertOne(sc, slot); err != nil {
				return fmt.Errorf("insert booking slot failed: %w", err)
			}
		}

		if booking.WorkItemID != "" {
			filter := bson.M{"id": booking.WorkItemID, "resolved": false}
			update := bson.M{"$set": bson.M{
				"resolved":   true,
				"resolvedBy": booking.ID,
				"resolvedAt": now,
			}}
			res, err := r.workItems.UpdateOne(sc, filter, update)
			if err != nil {
				return fmt.Errorf("resolve work item failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return ErrWorkItemConflict
			}
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
