package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/model"
)

// ErrNotFound is returned by every repository when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint is violated. Field
// carries the conflicting column for caller-facing messages.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByPatientID(ctx context.Context, patientID string) (*model.Patient, error)
		GetByPhoneNumber(ctx context.Context, phone string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id uuid.UUID) (*model.Visit, error)
		Update(ctx context.Context, visit *model.Visit) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter *model.VisitFilter) ([]*model.Visit, int, error)
	}

	LabResultRepository interface {
		Create(ctx context.Context, result *model.LabResult) error
		Get(ctx context.Context, id uuid.UUID) (*model.LabResult, error)
		Update(ctx context.Context, result *model.LabResult) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter *model.LabResultFilter) ([]*model.LabResult, int, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, int, error)
		// HasSlotConflict reports whether another non-cancelled
		// appointment holds the same (date, time, assignedTo) tuple.
		HasSlotConflict(ctx context.Context, date, timeOfDay, assignedTo string, excludeID *uuid.UUID) (bool, error)
		// ListDueReminders returns appointments on the given date that
		// still need a reminder.
		ListDueReminders(ctx context.Context, date string) ([]*model.Appointment, error)
		MarkReminderSent(ctx context.Context, id uuid.UUID) error
	}

	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error)
		Update(ctx context.Context, booking *model.Booking) error
		List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error)
		// HasActiveSlot reports whether the same contact (email or
		// phone) already holds a Pending/Confirmed booking at the slot.
		HasActiveSlot(ctx context.Context, email, phone, date, timeBand string, excludeID *uuid.UUID) (bool, error)
	}

	ContactRepository interface {
		Create(ctx context.Context, contact *model.Contact) error
		Get(ctx context.Context, id uuid.UUID) (*model.Contact, error)
		Update(ctx context.Context, contact *model.Contact) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter *model.ContactFilter) ([]*model.Contact, int, error)
	}
)
