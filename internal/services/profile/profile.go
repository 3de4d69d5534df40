package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"profile/internal/domain"
	"profile/internal/lib/logger/sl"
	"profile/internal/storage"
)

// ErrInvalidInput marks request-shape violations.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries a client-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type Service struct {
	log     *slog.Logger
	storage storage.ProfileStorage
}

func New(log *slog.Logger, storage storage.ProfileStorage) *Service {
	return &Service{
		log:     log,
		storage: storage,
	}
}

func invalid(op, msg string) error {
	return fmt.Errorf("%s: %w", op, &ValidationError{Message: msg})
}

func (s *Service) ListProfiles(ctx context.Context, filter domain.ListProfilesFilter) (*domain.ProfilePage, error) {
	const op = "services.profile.ListProfiles"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("page", filter.Page),
		slog.Int64("limit", filter.Limit),
	)

	page, err := s.storage.ListProfiles(ctx, filter)
	if err != nil {
		log.Error("Failed to list profiles", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("Profiles listed", slog.Int("count", len(page.Profiles)), slog.Int64("total", page.Pagination.Total))
	return page, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	const op = "services.profile.GetProfile"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
	)

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, s.fail(log, op, "Failed to get profile", err)
	}

	return profile, nil
}

func (s *Service) CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error) {
	const op = "services.profile.CreateProfile"

	log := s.log.With(slog.String("op", op))

	profile, err := s.storage.CreateProfile(ctx, req)
	if err != nil {
		log.Error("Failed to create profile", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Profile created successfully", slog.String("profile_id", profile.ID))
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	const op = "services.profile.UpdateProfile"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", req.ID),
	)

	profile, err := s.storage.UpdateProfile(ctx, req)
	if err != nil {
		return nil, s.fail(log, op, "Failed to update profile", err)
	}

	log.Info("Profile updated successfully")
	return profile, nil
}

func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	const op = "services.profile.DeleteProfile"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
	)

	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return s.fail(log, op, "Failed to delete profile", err)
	}

	log.Info("Profile deleted successfully")
	return nil
}

func (s *Service) AddExperience(ctx context.Context, id string, exp *domain.ExperienceInput) (*domain.Profile, error) {
	const op = "services.profile.AddExperience"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
	)

	if exp == nil {
		log.Warn("Experience is required")
		return nil, invalid(op, "experience is required")
	}

	profile, err := s.storage.AddExperience(ctx, id, *exp)
	if err != nil {
		return nil, s.fail(log, op, "Failed to add experience", err)
	}

	log.Info("Experience added", slog.Int("experiences", len(profile.Experiences)))
	return profile, nil
}

func (s *Service) RemoveExperience(ctx context.Context, id, expID string) (*domain.Profile, error) {
	const op = "services.profile.RemoveExperience"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
		slog.String("experience_id", expID),
	)

	profile, err := s.storage.RemoveExperience(ctx, id, expID)
	if err != nil {
		return nil, s.fail(log, op, "Failed to remove experience", err)
	}

	log.Info("Experience removed")
	return profile, nil
}

func (s *Service) AddSkill(ctx context.Context, id, skill string) (*domain.Profile, error) {
	const op = "services.profile.AddSkill"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
		slog.String("skill", skill),
	)

	profile, err := s.storage.AddSkill(ctx, id, skill)
	if err != nil {
		if errors.Is(err, storage.ErrSkillNotAdded) {
			log.Warn("Skill not added")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Error("Failed to add skill", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Skill added")
	return profile, nil
}

func (s *Service) RemoveSkill(ctx context.Context, id, skill string) (*domain.Profile, error) {
	const op = "services.profile.RemoveSkill"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
		slog.String("skill", skill),
	)

	profile, err := s.storage.RemoveSkill(ctx, id, skill)
	if err != nil {
		return nil, s.fail(log, op, "Failed to remove skill", err)
	}

	log.Info("Skill removed")
	return profile, nil
}

func (s *Service) ReplaceInformation(ctx context.Context, id string, info map[string]any) (*domain.Profile, error) {
	const op = "services.profile.ReplaceInformation"

	log := s.log.With(
		slog.String("op", op),
		slog.String("profile_id", id),
	)

	if info == nil {
		log.Warn("Information is required")
		return nil, invalid(op, "information is required")
	}

	profile, err := s.storage.ReplaceInformation(ctx, id, info)
	if err != nil {
		return nil, s.fail(log, op, "Failed to replace information", err)
	}

	log.Info("Information replaced")
	return profile, nil
}

func (s *Service) Ping(ctx context.Context) error {
	const op = "services.profile.Ping"

	if err := s.storage.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// fail logs err at a level matching its kind and wraps it with op.
func (s *Service) fail(log *slog.Logger, op, msg string, err error) error {
	if errors.Is(err, storage.ErrProfileNotFound) {
		log.Warn("Profile not found")
	} else {
		log.Error(msg, sl.Err(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
