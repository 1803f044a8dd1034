package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/messaging"
	"github.com/negatcare/clinic-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// ReminderScanner periodically looks for next-day appointments that
// have not been reminded yet and hands them to the worker over the
// broker. MarkReminderSent happens only after a successful publish, so
// a crashed publish is retried on the next sweep.
type ReminderScanner struct {
	appointments repository.AppointmentRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	interval     time.Duration
}

func NewReminderScanner(
	appointments repository.AppointmentRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	interval time.Duration,
) *ReminderScanner {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReminderScanner{
		appointments: appointments,
		broker:       broker,
		metrics:      m,
		interval:     interval,
	}
}

// Run blocks until ctx is cancelled.
func (s *ReminderScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReminderScanner) sweep(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(dateLayout)

	due, err := s.appointments.ListDueReminders(ctx, tomorrow)
	if err != nil {
		log.Error().Err(err).Msg("reminder sweep failed")
		return
	}

	for _, apt := range due {
		if err := s.publish(ctx, apt); err != nil {
			log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to publish reminder")
			if s.metrics != nil {
				s.metrics.RemindersFailed.Inc()
			}
			continue
		}
		if err := s.appointments.MarkReminderSent(ctx, apt.ID); err != nil {
			log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to mark reminder sent")
			continue
		}
		if s.metrics != nil {
			s.metrics.RemindersSent.Inc()
		}
	}

	if len(due) > 0 {
		log.Info().Int("count", len(due)).Str("date", tomorrow).Msg("reminder sweep complete")
	}
}

func (s *ReminderScanner) publish(ctx context.Context, apt *model.Appointment) error {
	return s.broker.Publish(ctx, messaging.ChannelAppointmentReminder, apt)
}
