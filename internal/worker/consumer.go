package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/negatcare/clinic-api/internal/email"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/messaging"
)

// Consumer drains the broker channels and turns messages into outbound
// mail. Failures are logged and dropped; the channels are
// notifications, not a durable queue.
type Consumer struct {
	broker   messaging.Broker
	sender   email.Sender
	patients repository.PatientRepository
}

func NewConsumer(broker messaging.Broker, sender email.Sender, patients repository.PatientRepository) *Consumer {
	return &Consumer{broker: broker, sender: sender, patients: patients}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	bookings, err := c.broker.Subscribe(ctx, messaging.ChannelBookingCreated)
	if err != nil {
		return err
	}
	reminders, err := c.broker.Subscribe(ctx, messaging.ChannelAppointmentReminder)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-bookings:
			if !ok {
				return nil
			}
			c.handleBooking(payload)
		case payload, ok := <-reminders:
			if !ok {
				return nil
			}
			c.handleReminder(ctx, payload)
		}
	}
}

func (c *Consumer) handleBooking(payload []byte) {
	var b model.Booking
	if err := json.Unmarshal(payload, &b); err != nil {
		log.Error().Err(err).Msg("malformed booking message")
		return
	}
	if b.Email == "" {
		return
	}
	if err := c.sender.SendBookingConfirmation(&b); err != nil {
		log.Error().Err(err).Str("confirmation_code", b.ConfirmationCode).Msg("booking confirmation mail failed")
		return
	}
	log.Info().Str("confirmation_code", b.ConfirmationCode).Msg("booking confirmation sent")
}

func (c *Consumer) handleReminder(ctx context.Context, payload []byte) {
	var apt model.Appointment
	if err := json.Unmarshal(payload, &apt); err != nil {
		log.Error().Err(err).Msg("malformed reminder message")
		return
	}

	// Walk-in appointments carry a phone number only; nothing to mail.
	if apt.PatientID == nil {
		return
	}
	patient, err := c.patients.Get(ctx, *apt.PatientID)
	if err != nil {
		log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("reminder patient lookup failed")
		return
	}
	if patient.Email == "" {
		return
	}
	if err := c.sender.SendAppointmentReminder(&apt, patient.Email); err != nil {
		log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("reminder mail failed")
		return
	}
	log.Info().Str("appointment_id", apt.ID.String()).Msg("appointment reminder sent")
}
