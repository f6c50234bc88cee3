package handlers

import (
	"errors"
	"net/http"

	"homeserve/models"
	"homeserve/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingHandler exposes booking creation, lookup, availability, payment
// intents and the cached pre-booking session flow.
type BookingHandler struct {
	Bookings booking.BookingService
	Matching booking.MatchingService
	Payments booking.PaymentHandler
	Sessions *booking.SessionStore
	Logger   *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs booking.BookingService, ms booking.MatchingService, ph booking.PaymentHandler, ss *booking.SessionStore, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Bookings: bs,
		Matching: ms,
		Payments: ph,
		Sessions: ss,
		Logger:   logger,
	}
}

// CreateBookingHandler reserves a provider's slots for a package and returns
// the booking confirmation.
func (bh *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking payload: " + err.Error()})
		return
	}

	userID := c.GetString("userID")
	confirmation, err := bh.Bookings.CreateBooking(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

// GetBookingHandler fetches a booking (by id or reference) with its slots.
func (bh *BookingHandler) GetBookingHandler(c *gin.Context) {
	bk, slots, err := bh.Bookings.GetBooking(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bk, "time_slots": slots})
}

// AvailableSlotsHandler returns the bookable start times for one provider and
// date, sized to the package's duration.
func (bh *BookingHandler) AvailableSlotsHandler(c *gin.Context) {
	packageID := c.Query("package_id")
	providerID := c.Query("provider_id")
	date := c.Query("date")
	if packageID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id and date are required"})
		return
	}

	result, err := bh.Bookings.ListAvailableSlots(packageID, providerID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentIntentHandler opens a card payment intent for a booking.
func (bh *BookingHandler) PaymentIntentHandler(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment payload: " + err.Error()})
		return
	}

	invoice, err := bh.Payments.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		bh.Logger.Error("Failed to create payment intent",
			zap.String("bookingID", req.BookingID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment intent creation failed"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// StartSessionHandler caches a pre-booking session for the package the
// customer is configuring, seeded with its eligible providers.
func (bh *BookingHandler) StartSessionHandler(c *gin.Context) {
	var req struct {
		PackageID string `json:"package_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id is required"})
		return
	}

	candidates, err := bh.Matching.EligibleProviders(req.PackageID)
	if err != nil {
		respondError(c, err)
		return
	}

	session := &booking.Session{
		SessionID:  uuid.New().String(),
		UserID:     c.GetString("userID"),
		PackageID:  req.PackageID,
		Candidates: candidates,
	}
	if err := bh.Sessions.Save(c.Request.Context(), session); err != nil {
		bh.Logger.Error("Failed to cache booking session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSessionHandler resumes a cached pre-booking session.
func (bh *BookingHandler) GetSessionHandler(c *gin.Context) {
	session, err := bh.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
			return
		}
		bh.Logger.Error("Failed to load booking session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	c.JSON(http.StatusOK, session)
}
