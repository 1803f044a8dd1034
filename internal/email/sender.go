package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/negatcare/clinic-api/config"
	"github.com/negatcare/clinic-api/internal/model"
)

// Sender delivers transactional mail. Implementations must be safe
// for concurrent use.
type Sender interface {
	SendBookingConfirmation(b *model.Booking) error
	SendAppointmentReminder(apt *model.Appointment, to string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) SendBookingConfirmation(b *model.Booking) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", b.Email)
	m.SetHeader("Subject", "Your booking is received – "+b.ConfirmationCode)
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\n"+
			"We have received your booking request for %s on %s (%s).\n"+
			"Your confirmation code is %s. Keep it to check your booking status.\n\n"+
			"Our team will contact you shortly to confirm the visit.\n",
		b.FullName, b.AppointmentType, b.PreferredDate, b.PreferredTime, b.ConfirmationCode,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

func (s *smtpSender) SendAppointmentReminder(apt *model.Appointment, to string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Appointment reminder")
	m.SetBody("text/plain", fmt.Sprintf(
		"This is a reminder for your %s appointment on %s at %s (%s).\n",
		apt.Type, apt.AppointmentDate, apt.AppointmentTime, apt.Location,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send appointment reminder: %w", err)
	}
	return nil
}
