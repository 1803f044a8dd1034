package booking

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/apperror"
	"github.com/negatcare/clinic-api/pkg/messaging"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type Service struct {
	repo   repository.BookingRepository
	broker messaging.Broker
}

// NewService creates the booking service. broker may be nil in tests;
// publish failures never fail the request.
func NewService(repo repository.BookingRepository, broker messaging.Broker) *Service {
	return &Service{repo: repo, broker: broker}
}

// generateConfirmationCode builds "NAC" + base36 millis + 5 random
// base36 chars, all uppercased. Uniqueness is backed by the storage
// constraint; a collision here is treated as effectively impossible
// rather than retried.
func generateConfirmationCode() string {
	var b strings.Builder
	b.WriteString(model.ConfirmationCodePrefix)
	b.WriteString(strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36)))
	for i := 0; i < 5; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

func (s *Service) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	exists, err := s.repo.HasActiveSlot(ctx, req.Email, req.PhoneNumber, req.PreferredDate, req.PreferredTime, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("you already have a booking for this date and time slot")
	}

	appointmentType := req.AppointmentType
	if appointmentType == "" {
		appointmentType = model.DefaultBookingType
	}
	address := model.BookingAddress{}
	if req.Address != nil {
		address = *req.Address
	}

	now := time.Now()
	booking := &model.Booking{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:         req.FullName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		AppointmentType:  appointmentType,
		PreferredDate:    req.PreferredDate,
		PreferredTime:    req.PreferredTime,
		Address:          address,
		ReasonForVisit:   req.ReasonForVisit,
		MedicalHistory:   req.MedicalHistory,
		Status:           model.BookingStatusPending,
		ConfirmationCode: generateConfirmationCode(),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, apperror.Conflict("booking could not be saved, please try again")
		}
		return nil, apperror.Internal(err)
	}

	s.publish(ctx, messaging.ChannelBookingCreated, booking)
	return booking, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("booking")
		}
		return nil, apperror.Internal(err)
	}
	return booking, nil
}

// GetByConfirmationCode serves the public, unauthenticated lookup.
func (s *Service) GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error) {
	booking, err := s.repo.GetByConfirmationCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("booking")
		}
		return nil, apperror.Internal(err)
	}
	return booking, nil
}

func (s *Service) List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return bookings, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("booking")
		}
		return nil, apperror.Internal(err)
	}

	if req.AppointmentType != nil {
		booking.AppointmentType = *req.AppointmentType
	}
	if req.PreferredDate != nil {
		booking.PreferredDate = *req.PreferredDate
	}
	if req.PreferredTime != nil {
		booking.PreferredTime = *req.PreferredTime
	}
	if req.Address != nil {
		booking.Address = *req.Address
	}
	if req.ReasonForVisit != nil {
		booking.ReasonForVisit = *req.ReasonForVisit
	}
	if req.MedicalHistory != nil {
		booking.MedicalHistory = *req.MedicalHistory
	}
	if req.Status != nil {
		booking.Status = model.BookingStatus(*req.Status)
	}

	// Reschedules re-run the duplicate-slot rule against other active
	// bookings for the same contact.
	if (req.PreferredDate != nil || req.PreferredTime != nil) &&
		(booking.Status == model.BookingStatusPending || booking.Status == model.BookingStatusConfirmed) {
		exists, err := s.repo.HasActiveSlot(ctx, booking.Email, booking.PhoneNumber, booking.PreferredDate, booking.PreferredTime, &booking.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if exists {
			return nil, apperror.Conflict("you already have a booking for this date and time slot")
		}
	}

	booking.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, apperror.Internal(err)
	}
	return booking, nil
}

// Cancel is the DELETE verb: a soft-cancel.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("booking")
		}
		return nil, apperror.Internal(err)
	}

	booking.Status = model.BookingStatusCancelled
	booking.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, apperror.Internal(err)
	}
	return booking, nil
}

func (s *Service) publish(ctx context.Context, channel string, payload interface{}) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, channel, payload); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to publish booking event")
	}
}
