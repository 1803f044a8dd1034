package visit

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

type fakeVisitRepo struct {
	visits map[uuid.UUID]*model.Visit
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: make(map[uuid.UUID]*model.Visit)}
}

func (f *fakeVisitRepo) Create(_ context.Context, v *model.Visit) error {
	f.visits[v.ID] = v
	return nil
}

func (f *fakeVisitRepo) Get(_ context.Context, id uuid.UUID) (*model.Visit, error) {
	v, ok := f.visits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (f *fakeVisitRepo) Update(_ context.Context, v *model.Visit) error {
	if _, ok := f.visits[v.ID]; !ok {
		return repository.ErrNotFound
	}
	f.visits[v.ID] = v
	return nil
}

func (f *fakeVisitRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.visits[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.visits, id)
	return nil
}

func (f *fakeVisitRepo) List(_ context.Context, filter *model.VisitFilter) ([]*model.Visit, int, error) {
	var out []*model.Visit
	for _, v := range f.visits {
		if filter.PatientID != nil && v.PatientID != *filter.PatientID {
			continue
		}
		out = append(out, v)
	}
	return out, len(out), nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
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

func (f *fakePatientRepo) GetByPatientID(context.Context, string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) GetByPhoneNumber(context.Context, string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (f *fakePatientRepo) List(context.Context, *model.PatientFilter) ([]*model.Patient, int, error) {
	return nil, 0, nil
}

func newTestService() (*Service, uuid.UUID) {
	patients := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	patients.patients[patient.ID] = patient
	return NewService(newFakeVisitRepo(), patients), patient.ID
}

func principal() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Username: "nardos", Role: model.RoleNurse}
}

func TestCreateValidatesSystemsReview(t *testing.T) {
	svc, patientID := newTestService()

	_, err := svc.Create(context.Background(), principal(), &model.CreateVisitRequest{
		PatientID:     patientID,
		VisitDate:     "2025-02-10",
		SystemsReview: model.SystemsReview{"cardiovascular": "Fine"},
	})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)

	visit, err := svc.Create(context.Background(), principal(), &model.CreateVisitRequest{
		PatientID: patientID,
		VisitDate: "2025-02-10",
		SystemsReview: model.SystemsReview{
			"cardiovascular": model.FindingNormal,
			"respiratory":    model.FindingAbnormal,
			"neurological":   model.FindingNone,
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, visit.SystemsReview)
}

func TestCreateRejectsUnknownPatient(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), principal(), &model.CreateVisitRequest{
		PatientID: uuid.New(),
		VisitDate: "2025-02-10",
	})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestCreateStampsCreator(t *testing.T) {
	svc, patientID := newTestService()
	p := principal()

	visit, err := svc.Create(context.Background(), p, &model.CreateVisitRequest{
		PatientID: patientID,
		VisitDate: "2025-02-10",
	})
	require.NoError(t, err)
	assert.Equal(t, p.UserID.String(), visit.CreatedBy)
}

func TestUpdateValidatesSystemsReview(t *testing.T) {
	svc, patientID := newTestService()

	visit, err := svc.Create(context.Background(), principal(), &model.CreateVisitRequest{
		PatientID: patientID,
		VisitDate: "2025-02-10",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), visit.ID, &model.UpdateVisitRequest{
		SystemsReview: model.SystemsReview{"git": "bad"},
	})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)

	assessment := "stable, continue current medication"
	updated, err := svc.Update(context.Background(), visit.ID, &model.UpdateVisitRequest{
		Assessment: &assessment,
	})
	require.NoError(t, err)
	assert.Equal(t, assessment, updated.Assessment)
}
