package storage

import (
	"context"
	"errors"

	"profile/internal/domain"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSkillNotAdded does not tell a missing profile apart from a duplicate skill.
	ErrSkillNotAdded = errors.New("profile not found or skill already exists")
)

type ProfileStorage interface {
	ListProfiles(ctx context.Context, filter domain.ListProfilesFilter) (*domain.ProfilePage, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error

	AddExperience(ctx context.Context, id string, exp domain.ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, id, expID string) (*domain.Profile, error)
	AddSkill(ctx context.Context, id, skill string) (*domain.Profile, error)
	RemoveSkill(ctx context.Context, id, skill string) (*domain.Profile, error)
	ReplaceInformation(ctx context.Context, id string, info map[string]any) (*domain.Profile, error)

	Ping(ctx context.Context) error
	Close() error
}
