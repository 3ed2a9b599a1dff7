package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// ProfileService serves the account page.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateNames(ctx context.Context, id uuid.UUID, first, last string) error
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	SaveProfile(ctx context.Context, profile *models.Profile) error
}

type profileService struct {
	repo profileRepository
}

// NewProfileService builds the profile service.
func NewProfileService(repo profileRepository) (ProfileService, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &profileService{repo: repo}, nil
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileFromModels(user, profile), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	var dob *datatypes.Date
	if req.DateOfBirth != nil && strings.TrimSpace(*req.DateOfBirth) != "" {
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return nil, pkgerrors.Validation("invalid profile", map[string]string{"date_of_birth": "must match the format 2006-01-02"})
		}
		if parsed.After(time.Now()) {
			return nil, pkgerrors.Validation("invalid profile", map[string]string{"date_of_birth": "must be in the past"})
		}
		d := datatypes.Date(parsed)
		dob = &d
	}

	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateNames(ctx, userID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	profile := &models.Profile{
		UserID:      userID,
		Phone:       trimmedOrNil(req.Phone),
		DateOfBirth: dob,
		AvatarURL:   trimmedOrNil(req.AvatarURL),
	}
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return s.Get(ctx, userID)
}

// ensureProfile backfills a missing profile row for accounts created outside
// the register flow, such as seeded admins.
func (s *profileService) ensureProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.FindProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	profile = &models.Profile{UserID: userID}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
	}
	return profile, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
