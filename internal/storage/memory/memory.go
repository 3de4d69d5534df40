// Package memory keeps profiles in process memory. It backs the "memory"
// storage driver used for local runs and tests; data does not survive a
// restart.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"profile/internal/domain"
	"profile/internal/storage"
)

type Storage struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile
	order    []string
	now      func() time.Time
}

func New() *Storage {
	return &Storage{
		profiles: make(map[string]*domain.Profile),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Storage) Ping(context.Context) error { return nil }

func (s *Storage) Close() error { return nil }

func (s *Storage) ListProfiles(_ context.Context, filter domain.ListProfilesFilter) (*domain.ProfilePage, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	var matched []*domain.Profile
	for _, id := range s.order {
		if p := s.profiles[id]; matches(p, filter) {
			matched = append(matched, clone(p))
		}
	}
	s.mu.RUnlock()

	sortProfiles(matched, filter.Sort)

	total := int64(len(matched))
	start := min(filter.Skip(), total)
	end := min(start+filter.Limit, total)

	page := matched[start:end]
	if page == nil {
		page = []*domain.Profile{}
	}

	return &domain.ProfilePage{
		Profiles:   page,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (s *Storage) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok || p.Deleted {
		return nil, storage.ErrProfileNotFound
	}
	return clone(p), nil
}

func (s *Storage) CreateProfile(_ context.Context, req domain.CreateProfileRequest) (*domain.Profile, error) {
	p := domain.NewProfile(req, s.now())
	p.ID = uuid.NewString()

	s.mu.Lock()
	s.profiles[p.ID] = p
	s.order = append(s.order, p.ID)
	s.mu.Unlock()

	return clone(p), nil
}

func (s *Storage) UpdateProfile(_ context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	return s.mutate(req.ID, storage.ErrProfileNotFound, func(p *domain.Profile) bool {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Email != nil {
			p.Email = *req.Email
		}
		return true
	})
}

func (s *Storage) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return storage.ErrProfileNotFound
	}
	p.Deleted = true
	p.UpdatedAt = s.now()
	return nil
}

func (s *Storage) AddExperience(_ context.Context, id string, exp domain.ExperienceInput) (*domain.Profile, error) {
	return s.mutate(id, storage.ErrProfileNotFound, func(p *domain.Profile) bool {
		p.Experiences = append(p.Experiences, domain.Experience{
			ID:          uuid.NewString(),
			Title:       exp.Title,
			Company:     exp.Company,
			StartDate:   exp.StartDate,
			EndDate:     exp.EndDate,
			Description: exp.Description,
		})
		return true
	})
}

func (s *Storage) RemoveExperience(_ context.Context, id, expID string) (*domain.Profile, error) {
	return s.mutate(id, storage.ErrProfileNotFound, func(p *domain.Profile) bool {
		p.Experiences = slices.DeleteFunc(p.Experiences, func(e domain.Experience) bool {
			return e.ID == expID
		})
		return true
	})
}

func (s *Storage) AddSkill(_ context.Context, id, skill string) (*domain.Profile, error) {
	return s.mutate(id, storage.ErrSkillNotAdded, func(p *domain.Profile) bool {
		if slices.Contains(p.Skills, skill) {
			return false
		}
		p.Skills = append(p.Skills, skill)
		return true
	})
}

func (s *Storage) RemoveSkill(_ context.Context, id, skill string) (*domain.Profile, error) {
	return s.mutate(id, storage.ErrProfileNotFound, func(p *domain.Profile) bool {
		p.Skills = slices.DeleteFunc(p.Skills, func(v string) bool { return v == skill })
		return true
	})
}

func (s *Storage) ReplaceInformation(_ context.Context, id string, info map[string]any) (*domain.Profile, error) {
	return s.mutate(id, storage.ErrProfileNotFound, func(p *domain.Profile) bool {
		p.Information = maps.Clone(info)
		return true
	})
}

// mutate applies fn to the non-deleted profile under the write lock. A false
// return from fn means the condition did not hold and fail is returned.
func (s *Storage) mutate(id string, fail error, fn func(p *domain.Profile) bool) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok || p.Deleted {
		return nil, fail
	}
	if !fn(p) {
		return nil, fail
	}
	p.UpdatedAt = s.now()

	return clone(p), nil
}

func matches(p *domain.Profile, f domain.ListProfilesFilter) bool {
	if p.Deleted {
		return false
	}
	if len(f.Skills) > 0 && !slices.ContainsFunc(p.Skills, func(s string) bool { return slices.Contains(f.Skills, s) }) {
		return false
	}
	if f.Location != "" {
		loc, _ := p.Information["location"].(string)
		if !containsFold(loc, f.Location) {
			return false
		}
	}
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.Email != "" && !containsFold(p.Email, f.Email) {
		return false
	}
	if f.Company != "" && !slices.ContainsFunc(p.Experiences, func(e domain.Experience) bool {
		return containsFold(e.Company, f.Company)
	}) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortProfiles(profiles []*domain.Profile, by domain.Sort) {
	var less func(a, b *domain.Profile) bool
	switch by.Field {
	case "name":
		less = func(a, b *domain.Profile) bool { return a.Name < b.Name }
	case "email":
		less = func(a, b *domain.Profile) bool { return a.Email < b.Email }
	case "createdAt":
		less = func(a, b *domain.Profile) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updatedAt":
		less = func(a, b *domain.Profile) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if by.Desc {
			return less(profiles[j], profiles[i])
		}
		return less(profiles[i], profiles[j])
	})
}

func clone(p *domain.Profile) *domain.Profile {
	c := *p
	c.Skills = slices.Clone(p.Skills)
	c.Experiences = slices.Clone(p.Experiences)
	c.Information = maps.Clone(p.Information)
	if c.Information == nil {
		c.Information = map[string]any{}
	}
	return &c
}
