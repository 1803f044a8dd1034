package contact

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
	repo repository.ContactRepository
}

func NewService(repo repository.ContactRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateContactRequest) (*model.Contact, error) {
	now := time.Now()
	contact := &model.Contact{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Subject:     req.Subject,
		Message:     req.Message,
		Status:      model.ContactStatusNew,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, apperror.Internal(err)
	}
	return contact, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	contact, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("contact")
		}
		return nil, apperror.Internal(err)
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, filter *model.ContactFilter) ([]*model.Contact, int, error) {
	contacts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return contacts, total, nil
}

// Update may flip status and isRead independently of each other.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateContactRequest) (*model.Contact, error) {
	contact, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("contact")
		}
		return nil, apperror.Internal(err)
	}

	if req.Status != nil {
		contact.Status = model.ContactStatus(*req.Status)
	}
	if req.IsRead != nil {
		contact.IsRead = *req.IsRead
	}

	contact.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, apperror.Internal(err)
	}
	return contact, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("contact")
		}
		return apperror.Internal(err)
	}
	return nil
}
