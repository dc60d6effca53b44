package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vmilosev/ledara-api/internal/apperr"
	"github.com/vmilosev/ledara-api/internal/models"
)

// ProfileService is a read-shape adapter over the user records; every
// returned user is sanitized.
type ProfileService struct {
	users *UserService
}

func NewProfileService(users *UserService) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, p UpdateProfileParams) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, id, p)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *ProfileService) CompleteWelcome(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.SetCompletedWelcome(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *ProfileService) CompleteAdditionalInformation(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.SetCompletedAdditionalInformation(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// DeleteProfile deactivates the account; the row is kept.
func (s *ProfileService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.users.SoftDelete(ctx, id)
}
