package messaging

import "context"

// Broker is the pub/sub surface used to hand notification work to the
// worker process.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels used between the API and the worker.
const (
	ChannelBookingCreated      = "clinic.bookings.created"
	ChannelAppointmentReminder = "clinic.reminders"
)
