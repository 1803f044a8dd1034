package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/apperror"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
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
	clone := *apt
	return &clone, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	if _, ok := f.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, int, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if filter.CreatedBy != "" && apt.CreatedBy != filter.CreatedBy {
			continue
		}
		out = append(out, apt)
	}
	return out, len(out), nil
}

func (f *fakeAppointmentRepo) HasSlotConflict(_ context.Context, date, timeOfDay, assignedTo string, excludeID *uuid.UUID) (bool, error) {
	for _, apt := range f.appointments {
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if apt.AppointmentDate == date && apt.AppointmentTime == timeOfDay && apt.AssignedTo == assignedTo &&
			(apt.Status == model.AppointmentStatusScheduled || apt.Status == model.AppointmentStatusConfirmed) {
			return true, nil
		}
	}
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

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) GetByPatientID(_ context.Context, patientID string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.PatientID == patientID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) GetByPhoneNumber(_ context.Context, phone string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.PhoneNumber == phone {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, _ *model.PatientFilter) ([]*model.Patient, int, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		out = append(out, p)
	}
	return out, len(out), nil
}

func kindOf(t *testing.T, err error) apperror.Kind {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected an application error, got %v", err)
	return appErr.Kind
}

func newTestService() (*Service, *fakeAppointmentRepo, *fakePatientRepo) {
	repo := newFakeAppointmentRepo()
	patients := newFakePatientRepo()
	return NewService(repo, patients), repo, patients
}

func staffPrincipal() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Username: "nardos", Role: model.RoleDoctor}
}

func walkIn() *model.WalkInPatient {
	return &model.WalkInPatient{FullName: "Alemu Kebede", PhoneNumber: "0911000000"}
}

func TestCreateRequiresExactlyOnePatient(t *testing.T) {
	svc, _, patients := newTestService()
	principal := staffPrincipal()

	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	require.NoError(t, patients.Create(context.Background(), patient))

	base := model.CreateAppointmentRequest{
		AppointmentDate: "2099-06-01",
		AppointmentTime: "10:00",
		Type:            "General Consultation",
	}

	neither := base
	_, err := svc.Create(context.Background(), principal, &neither)
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	both := base
	both.PatientID = &patient.ID
	both.WalkInPatient = walkIn()
	_, err = svc.Create(context.Background(), principal, &both)
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	one := base
	one.PatientID = &patient.ID
	apt, err := svc.Create(context.Background(), principal, &one)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, model.DefaultAppointmentDuration, apt.Duration)
	assert.Equal(t, "Clinic", apt.Location)
	assert.Equal(t, principal.UserID.String(), apt.CreatedBy)
}

func TestCreateRejectsUnknownPatient(t *testing.T) {
	svc, _, _ := newTestService()
	missing := uuid.New()

	_, err := svc.Create(context.Background(), staffPrincipal(), &model.CreateAppointmentRequest{
		PatientID:       &missing,
		AppointmentDate: "2099-06-01",
		AppointmentTime: "10:00",
		Type:            "General Consultation",
	})
	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))
}

func TestCreateRejectsPastDate(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), staffPrincipal(), &model.CreateAppointmentRequest{
		WalkInPatient:   walkIn(),
		AppointmentDate: "2000-01-01",
		AppointmentTime: "10:00",
		Type:            "General Consultation",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))
}

func TestCreateAllowsPastDateWhenCompleted(t *testing.T) {
	svc, _, _ := newTestService()

	apt, err := svc.Create(context.Background(), staffPrincipal(), &model.CreateAppointmentRequest{
		WalkInPatient:   walkIn(),
		AppointmentDate: "2000-01-01",
		AppointmentTime: "10:00",
		Type:            "Home Visit",
		Status:          string(model.AppointmentStatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, apt.Status)
}

func TestCreateDetectsStaffConflict(t *testing.T) {
	svc, _, _ := newTestService()
	principal := staffPrincipal()

	req := model.CreateAppointmentRequest{
		WalkInPatient:   walkIn(),
		AppointmentDate: "2099-06-01",
		AppointmentTime: "10:00",
		Type:            "General Consultation",
		AssignedTo:      "Dr. Hanna",
	}

	_, err := svc.Create(context.Background(), principal, &req)
	require.NoError(t, err)

	second := req
	_, err = svc.Create(context.Background(), principal, &second)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, kindOf(t, err))

	// Different staff member at the same slot is fine.
	third := req
	third.AssignedTo = "Dr. Yonas"
	_, err = svc.Create(context.Background(), principal, &third)
	assert.NoError(t, err)
}

func TestCreateUnassignedSlotsNeverConflict(t *testing.T) {
	svc, _, _ := newTestService()
	principal := staffPrincipal()

	req := model.CreateAppointmentRequest{
		WalkInPatient:   walkIn(),
		AppointmentDate: "2099-06-01",
		AppointmentTime: "10:00",
		Type:            "General Consultation",
	}

	_, err := svc.Create(context.Background(), principal, &req)
	require.NoError(t, err)
	second := req
	_, err = svc.Create(context.Background(), principal, &second)
	assert.NoError(t, err)
}

func TestUpdateCompletedIsStatusOnly(t *testing.T) {
	svc, repo, _ := newTestService()
	principal := staffPrincipal()

	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		WalkInPatient:   walkIn(),
		AppointmentDate: "2024-01-10",
		AppointmentTime: "09:00",
		Status:          model.AppointmentStatusCompleted,
		CreatedBy:       principal.UserID.String(),
	}
	require.NoError(t, repo.Create(context.Background(), apt))

	notes := "rescheduling attempt"
	_, err := svc.Update(context.Background(), principal, apt.ID, &model.UpdateAppointmentRequest{Notes: &notes})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	// Completed -> Cancelled stays open.
	cancelled := string(model.AppointmentStatusCancelled)
	updated, err := svc.Update(context.Background(), principal, apt.ID, &model.UpdateAppointmentRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
}

func TestUpdateCompletedRejectsReopen(t *testing.T) {
	svc, repo, _ := newTestService()
	principal := staffPrincipal()

	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		WalkInPatient:   walkIn(),
		AppointmentDate: "2024-01-10",
		AppointmentTime: "09:00",
		Status:          model.AppointmentStatusCompleted,
		CreatedBy:       principal.UserID.String(),
	}
	require.NoError(t, repo.Create(context.Background(), apt))

	scheduled := string(model.AppointmentStatusScheduled)
	_, err := svc.Update(context.Background(), principal, apt.ID, &model.UpdateAppointmentRequest{Status: &scheduled})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))
}

func TestUpdateRecheckConflictOnReschedule(t *testing.T) {
	svc, _, _ := newTestService()
	principal := staffPrincipal()

	first, err := svc.Create(context.Background(), principal, &model.CreateAppointmentRequest{
		WalkInPatient:   walkIn(),
		AppointmentDate: "2099-06-01",
		AppointmentTime: "10:00",
		Type:            "General Consultation",
		AssignedTo:      "Dr. Hanna",
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), principal, &model.CreateAppointmentRequest{
		WalkInPatient:   walkIn(),
		AppointmentDate: "2099-06-01",
		AppointmentTime: "11:00",
		Type:            "General Consultation",
		AssignedTo:      "Dr. Hanna",
	})
	require.NoError(t, err)

	// Moving the second onto the first's slot collides.
	clash := first.AppointmentTime
	_, err = svc.Update(context.Background(), principal, second.ID, &model.UpdateAppointmentRequest{AppointmentTime: &clash})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, kindOf(t, err))

	// Updating the first in place (excluded from its own check) works.
	notes := "bring previous labs"
	_, err = svc.Update(context.Background(), principal, first.ID, &model.UpdateAppointmentRequest{
		AssignedTo: &first.AssignedTo,
		Notes:      &notes,
	})
	assert.NoError(t, err)
}

func TestUserRoleSeesOnlyOwnAppointments(t *testing.T) {
	svc, repo, _ := newTestService()

	owner := &model.Principal{UserID: uuid.New(), Username: "abel", Role: model.RoleUser}
	stranger := &model.Principal{UserID: uuid.New(), Username: "sosina", Role: model.RoleUser}

	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		WalkInPatient:   walkIn(),
		AppointmentDate: "2099-06-01",
		AppointmentTime: "10:00",
		Status:          model.AppointmentStatusScheduled,
		CreatedBy:       owner.UserID.String(),
	}
	require.NoError(t, repo.Create(context.Background(), apt))

	_, err := svc.Get(context.Background(), owner, apt.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, apt.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, kindOf(t, err))

	// Staff can read anything.
	_, err = svc.Get(context.Background(), staffPrincipal(), apt.ID)
	assert.NoError(t, err)

	list, total, err := svc.List(context.Background(), stranger, &model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestCancelAlwaysAllowed(t *testing.T) {
	svc, repo, _ := newTestService()
	principal := staffPrincipal()

	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusNoShow,
	} {
		apt := &model.Appointment{
			Base:            model.Base{ID: uuid.New()},
			WalkInPatient:   walkIn(),
			AppointmentDate: "2024-01-10",
			AppointmentTime: "09:00",
			Status:          status,
			CreatedBy:       principal.UserID.String(),
		}
		require.NoError(t, repo.Create(context.Background(), apt))

		cancelled, err := svc.Cancel(context.Background(), principal, apt.ID)
		require.NoError(t, err, "cancel from %s", status)
		assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	}
}
