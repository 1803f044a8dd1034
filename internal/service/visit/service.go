package visit

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
	repo     repository.VisitRepository
	patients repository.PatientRepository
}

func NewService(repo repository.VisitRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

// validateSystemsReview enforces the Normal/Abnormal/empty vocabulary.
func validateSystemsReview(review model.SystemsReview) error {
	for system, finding := range review {
		switch finding {
		case model.FindingNormal, model.FindingAbnormal, model.FindingNone:
		default:
			return apperror.Validationf("invalid finding %q for system %q", finding, system)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, principal *model.Principal, req *model.CreateVisitRequest) (*model.Visit, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}
	if err := validateSystemsReview(req.SystemsReview); err != nil {
		return nil, err
	}

	vitals := model.VitalSigns{}
	if req.VitalSigns != nil {
		vitals = *req.VitalSigns
	}
	review := req.SystemsReview
	if review == nil {
		review = model.SystemsReview{}
	}

	now := time.Now()
	visit := &model.Visit{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:     req.PatientID,
		VisitDate:     req.VisitDate,
		VitalSigns:    vitals,
		GeneralExam:   req.GeneralExam,
		SystemsReview: review,
		Assessment:    req.Assessment,
		Plan:          req.Plan,
		Notes:         req.Notes,
		CreatedBy:     principal.UserID.String(),
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, apperror.Internal(err)
	}
	return visit, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	visit, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("visit")
		}
		return nil, apperror.Internal(err)
	}
	return visit, nil
}

func (s *Service) List(ctx context.Context, filter *model.VisitFilter) ([]*model.Visit, int, error) {
	visits, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return visits, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateVisitRequest) (*model.Visit, error) {
	visit, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("visit")
		}
		return nil, apperror.Internal(err)
	}

	if req.SystemsReview != nil {
		if err := validateSystemsReview(req.SystemsReview); err != nil {
			return nil, err
		}
		visit.SystemsReview = req.SystemsReview
	}
	if req.VisitDate != nil {
		visit.VisitDate = *req.VisitDate
	}
	if req.VitalSigns != nil {
		visit.VitalSigns = *req.VitalSigns
	}
	if req.GeneralExam != nil {
		visit.GeneralExam = *req.GeneralExam
	}
	if req.Assessment != nil {
		visit.Assessment = *req.Assessment
	}
	if req.Plan != nil {
		visit.Plan = *req.Plan
	}
	if req.Notes != nil {
		visit.Notes = *req.Notes
	}

	visit.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, visit); err != nil {
		return nil, apperror.Internal(err)
	}
	return visit, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("visit")
		}
		return apperror.Internal(err)
	}
	return nil
}
