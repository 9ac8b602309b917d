package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/config"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
)

// EmailSender sends one reminder email per due booking over SMTP. The lead
// time in the message matches the selector's configured lead days.
type EmailSender struct {
	cfg      config.SMTPConfig
	leadDays int
}

// NewEmailSender creates a sender with the given SMTP settings.
func NewEmailSender(cfg config.SMTPConfig, leadDays int) *EmailSender {
	if leadDays <= 0 {
		leadDays = booking.ReminderLeadDays
	}
	return &EmailSender{cfg: cfg, leadDays: leadDays}
}

// Notify sends the reminder email for one booking.
func (s *EmailSender) Notify(_ context.Context, b application.BookingDTO) error {
	msg := buildMessage(s.cfg.From, s.cfg.To, s.leadDays, b)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(s.cfg.Addr(), auth, s.cfg.From, []string{s.cfg.To}, msg); err != nil {
		return fmt.Errorf("failed to send reminder for booking %d: %w", b.ID, err)
	}
	return nil
}

var _ application.Dispatcher = (*EmailSender)(nil)

func buildMessage(from, to string, leadDays int, b application.BookingDTO) []byte {
	name := b.BookingName
	if name == "" {
		name = "(no name)"
	}
	apartment := booking.Apartment(b.Apartment).DisplayName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: Reminder: check-in in %d days\r\n", leadDays)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	fmt.Fprintf(&sb, "Upcoming booking in %d days.\r\n\r\n", leadDays)
	fmt.Fprintf(&sb, "Name:      %s\r\n", name)
	fmt.Fprintf(&sb, "Apartment: %s\r\n", apartment)
	fmt.Fprintf(&sb, "Check-in:  %s\r\n", b.CheckIn)
	fmt.Fprintf(&sb, "Check-out: %s\r\n", b.CheckOut)
	fmt.Fprintf(&sb, "Guests:    %d adults, %d kids\r\n", b.Adults, b.Kids)
	fmt.Fprintf(&sb, "\r\nBooking #%d\r\n", b.ID)
	return []byte(sb.String())
}
