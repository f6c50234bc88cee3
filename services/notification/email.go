package notification

import (
	"context"
	"fmt"
	"net/smtp"

	userRepo "homeserve/database/repository/user"
	"homeserve/models"

	"go.uber.org/zap"
)

// EmailNotificationService sends plain-text email over SMTP.
type EmailNotificationService struct {
	Addr   string // host:port
	From   string
	Auth   smtp.Auth // nil for unauthenticated relays
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

// NewEmailNotificationService builds an SMTP-backed notifier. When user and
// password are empty the relay is used unauthenticated.
func NewEmailNotificationService(host string, port int, user, password, from string, users userRepo.UserRepository, logger *zap.Logger) *EmailNotificationService {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	if from == "" {
		from = "no-reply@homeserve.local"
	}
	return &EmailNotificationService{
		Addr:   fmt.Sprintf("%s:%d", host, port),
		From:   from,
		Auth:   auth,
		Users:  users,
		Logger: logger,
	}
}

// SendBookingConfirmation emails the customer their booking reference and
// schedule.
func (s *EmailNotificationService) SendBookingConfirmation(ctx context.Context, userID string, booking *models.Booking) error {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	subject := fmt.Sprintf("Booking confirmed: %s", booking.Reference)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s is confirmed for %s at %s.\nService address: %s\n\nThank you for booking with us.\n",
		user.Name, booking.Reference, booking.ScheduledDate, booking.ScheduledTime, booking.ServiceAddress,
	)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.From, user.Email, subject, body,
	)

	if err := smtp.SendMail(s.Addr, s.Auth, s.From, []string{user.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	s.Logger.Debug("booking confirmation sent",
		zap.String("bookingID", booking.ID), zap.String("to", user.Email))
	return nil
}
