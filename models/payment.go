package models

import "time"

// PaymentIntentRequest asks the processor for a card payment intent covering a
// booking's price.
type PaymentIntentRequest struct {
	BookingID string  `json:"booking_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Currency  string  `json:"currency"`
}

// Invoice captures the outcome of payment-intent creation.
type Invoice struct {
	InvoiceID    string    `bson:"invoiceId" json:"invoice_id"`
	BookingID    string    `bson:"bookingId" json:"booking_id"`
	PaymentID    string    `bson:"paymentId,omitempty" json:"payment_id,omitempty"`
	ClientSecret string    `bson:"-" json:"client_secret,omitempty"`
	Amount       float64   `bson:"amount" json:"amount"`
	Currency     string    `bson:"currency" json:"currency"`
	Status       string    `bson:"status" json:"status"` // "pending", "requires_confirmation", "paid"
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}
