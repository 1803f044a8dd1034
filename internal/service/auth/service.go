package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/apperror"
	"github.com/negatcare/clinic-api/pkg/auth"
	"github.com/negatcare/clinic-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	tokens auth.TokenService
	hasher security.PasswordHasher
}

func NewService(users repository.UserRepository, tokens auth.TokenService, hasher security.PasswordHasher) *Service {
	return &Service{users: users, tokens: tokens, hasher: hasher}
}

// Register creates a new account. Self-registration always yields the
// "user" role; elevated roles are provisioned directly in the store.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperror.Conflict("username already taken")
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperror.Validation("password must be at least 6 characters")
		}
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, apperror.Conflict("username already taken")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed token plus a user
// summary. Unknown usernames and wrong passwords are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if !user.IsActive {
		return nil, apperror.Unauthorized("account is deactivated")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: user.Summary()}, nil
}

// GetUser loads a user by id, for the /auth/me endpoint.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
