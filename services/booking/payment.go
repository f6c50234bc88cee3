package booking

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentHandler creates payment intents with the card processor. Status
// transitions driven by the processor's confirmation are outside the booking
// core; this only opens the intent.
type PaymentHandler interface {
	CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.Invoice, error)
}

// StripePaymentHandler implements PaymentHandler against Stripe.
type StripePaymentHandler struct {
	Currency string
	Logger   *zap.Logger
}

// NewStripePaymentHandler creates a handler charging in the given currency.
func NewStripePaymentHandler(currency string, logger *zap.Logger) *StripePaymentHandler {
	return &StripePaymentHandler{Currency: currency, Logger: logger}
}

// CreatePaymentIntent opens a Stripe payment intent for a booking's price and
// returns the invoice with the client secret the frontend confirms against.
func (h *StripePaymentHandler) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.Invoice, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount %.2f", req.Amount)
	}
	currency := req.Currency
	if currency == "" {
		currency = h.Currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{"booking_id": req.BookingID},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	h.Logger.Info("payment intent created",
		zap.String("bookingID", req.BookingID),
		zap.String("paymentIntentID", pi.ID))

	return &models.Invoice{
		InvoiceID:    uuid.New().String(),
		BookingID:    req.BookingID,
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       req.Amount,
		Currency:     currency,
		Status:       "requires_confirmation",
		CreatedAt:    time.Now(),
	}, nil
}
