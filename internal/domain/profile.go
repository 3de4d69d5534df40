package domain

import (
	"math"
	"strings"
	"time"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
)

type Profile struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Skills      []string       `json:"skills"`
	Experiences []Experience   `json:"experiences"`
	Information map[string]any `json:"information"`
	Deleted     bool           `json:"deleted"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Experience is owned by exactly one Profile and has no lifecycle of its own.
type Experience struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description"`
}

type ExperienceInput struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description"`
}

type CreateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateProfileRequest struct {
	ID    string  `json:"-"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Empty reports whether the request carries no field to change.
func (r UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Email == nil
}

type Sort struct {
	Field string
	Desc  bool
}

// ParseSort parses "field:direction". Only "desc" sorts descending.
func ParseSort(raw string) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Sort{}
	}

	field, dir, _ := strings.Cut(raw, ":")

	return Sort{
		Field: strings.TrimSpace(field),
		Desc:  strings.TrimSpace(dir) == "desc",
	}
}

// ListProfilesFilter holds the optional list criteria. Zero values mean the
// criterion is not applied. Soft-deleted profiles are always excluded.
type ListProfilesFilter struct {
	Skills   []string
	Location string
	Name     string
	Email    string
	Company  string

	Page  int64
	Limit int64
	Sort  Sort
}

// Normalize applies pagination defaults.
func (f ListProfilesFilter) Normalize() ListProfilesFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// Skip is the number of matching documents before the requested page.
func (f ListProfilesFilter) Skip() int64 {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
}

type ProfilePage struct {
	Profiles   []*Profile `json:"profiles"`
	Pagination Pagination `json:"pagination"`
}

func NewPagination(total, page, limit int64) Pagination {
	var pages int64
	if limit > 0 {
		pages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, Page: page, Pages: pages}
}

// NewProfile returns a profile initialized the way a create request leaves it.
func NewProfile(req CreateProfileRequest, now time.Time) *Profile {
	return &Profile{
		Name:        req.Name,
		Email:       req.Email,
		Skills:      []string{},
		Experiences: []Experience{},
		Information: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
