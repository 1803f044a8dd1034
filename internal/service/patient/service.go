package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if !req.ConsentGiven {
		return nil, apperror.Validation("Patient consent is required")
	}

	// Pre-checks give the caller a message naming the conflicting
	// field; the unique constraints still backstop concurrent inserts.
	if _, err := s.repo.GetByPatientID(ctx, req.PatientID); err == nil {
		return nil, apperror.Conflict("a patient with this patientId already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if _, err := s.repo.GetByPhoneNumber(ctx, req.PhoneNumber); err == nil {
		return nil, apperror.Conflict("a patient with this phoneNumber already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	history := model.MedicalHistory{}
	if req.MedicalHistory != nil {
		history = *req.MedicalHistory
	}

	now := time.Now()
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:        req.PatientID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Gender:           req.Gender,
		DateOfBirth:      req.DateOfBirth,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   history,
		ConsentGiven:     true,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, apperror.Conflict("a patient with this " + dup.Field + " already exists")
		}
		return nil, apperror.Internal(err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}
	return patient, nil
}

// GetByPatientID looks up by the clinic's human-readable identifier.
func (s *Service) GetByPatientID(ctx context.Context, patientID string) (*model.Patient, error) {
	patient, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	patients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return patients, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != patient.PhoneNumber {
		if _, err := s.repo.GetByPhoneNumber(ctx, *req.PhoneNumber); err == nil {
			return nil, apperror.Conflict("a patient with this phoneNumber already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		patient.PhoneNumber = *req.PhoneNumber
	}
	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}

	patient.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, patient); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, apperror.Conflict("a patient with this " + dup.Field + " already exists")
		}
		return nil, apperror.Internal(err)
	}
	return patient, nil
}

// Delete is a hard delete, restricted to admins at the routing layer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("patient")
		}
		return apperror.Internal(err)
	}
	return nil
}
