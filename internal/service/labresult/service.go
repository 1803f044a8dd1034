package labresult

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
	repo     repository.LabResultRepository
	patients repository.PatientRepository
	visits   repository.VisitRepository
}

func NewService(repo repository.LabResultRepository, patients repository.PatientRepository, visits repository.VisitRepository) *Service {
	return &Service{repo: repo, patients: patients, visits: visits}
}

func (s *Service) Create(ctx context.Context, principal *model.Principal, req *model.CreateLabResultRequest) (*model.LabResult, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}

	// A referenced visit must belong to the same patient.
	if req.VisitID != nil {
		visit, err := s.visits.Get(ctx, *req.VisitID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("visit")
			}
			return nil, apperror.Internal(err)
		}
		if visit.PatientID != req.PatientID {
			return nil, apperror.Validation("visit does not belong to this patient")
		}
	}

	now := time.Now()
	result := &model.LabResult{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:     req.PatientID,
		VisitID:       req.VisitID,
		TestDate:      req.TestDate,
		Tests:         req.Tests,
		ResultSummary: req.ResultSummary,
		Review:        model.LabReview{},
		CreatedBy:     principal.UserID.String(),
	}

	if err := s.repo.Create(ctx, result); err != nil {
		return nil, apperror.Internal(err)
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.LabResult, error) {
	result, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("lab result")
		}
		return nil, apperror.Internal(err)
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, filter *model.LabResultFilter) ([]*model.LabResult, int, error) {
	results, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return results, total, nil
}

func (s *Service) Update(ctx context.Context, principal *model.Principal, id uuid.UUID, req *model.UpdateLabResultRequest) (*model.LabResult, error) {
	result, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("lab result")
		}
		return nil, apperror.Internal(err)
	}

	if req.TestDate != nil {
		result.TestDate = *req.TestDate
	}
	if req.Tests != nil {
		result.Tests = *req.Tests
	}
	if req.ResultSummary != nil {
		result.ResultSummary = *req.ResultSummary
	}
	if req.Review != nil {
		review := *req.Review
		if review.Reviewed && review.ReviewedBy == "" {
			review.ReviewedBy = principal.Username
		}
		if review.Reviewed && review.ReviewedAt == nil {
			now := time.Now()
			review.ReviewedAt = &now
		}
		result.Review = review
	}

	result.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, result); err != nil {
		return nil, apperror.Internal(err)
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("lab result")
		}
		return apperror.Internal(err)
	}
	return nil
}
