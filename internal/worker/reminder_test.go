package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) List(context.Context, *model.AppointmentFilter) ([]*model.Appointment, int, error) {
	return nil, 0, nil
}

func (f *fakeAppointmentRepo) HasSlotConflict(context.Context, string, string, string, *uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentRepo) ListDueReminders(_ context.Context, date string) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.AppointmentDate == date && !apt.ReminderSent {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	apt, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	apt.ReminderSent = true
	return nil
}

type fakeBroker struct {
	published int
	fail      bool
}

func (b *fakeBroker) Publish(context.Context, string, interface{}) error {
	if b.fail {
		return errors.New("broker down")
	}
	b.published++
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *fakeBroker) Close() error                                             { return nil }

func tomorrowDate() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func seedAppointment(repo *fakeAppointmentRepo, date string, sent bool) *model.Appointment {
	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		AppointmentDate: date,
		AppointmentTime: "09:00",
		Status:          model.AppointmentStatusConfirmed,
		ReminderSent:    sent,
	}
	repo.appointments[apt.ID] = apt
	return apt
}

func TestSweepPublishesAndMarks(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
	broker := &fakeBroker{}

	due := seedAppointment(repo, tomorrowDate(), false)
	seedAppointment(repo, tomorrowDate(), true)
	seedAppointment(repo, "2099-12-31", false)

	s := NewReminderScanner(repo, broker, nil, time.Minute)
	s.sweep(context.Background())

	assert.Equal(t, 1, broker.published)
	assert.True(t, repo.appointments[due.ID].ReminderSent)
}

func TestSweepRetriesAfterPublishFailure(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
	broker := &fakeBroker{fail: true}

	due := seedAppointment(repo, tomorrowDate(), false)

	s := NewReminderScanner(repo, broker, nil, time.Minute)
	s.sweep(context.Background())

	// A failed publish leaves the flag unset for the next sweep.
	require.False(t, repo.appointments[due.ID].ReminderSent)

	broker.fail = false
	s.sweep(context.Background())
	assert.True(t, repo.appointments[due.ID].ReminderSent)
	assert.Equal(t, 1, broker.published)
}
