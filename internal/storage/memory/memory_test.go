package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"profile/internal/domain"
	"profile/internal/storage"
)

func createProfile(t *testing.T, s *Storage, name, email string) *domain.Profile {
	t.Helper()

	p, err := s.CreateProfile(context.Background(), domain.CreateProfileRequest{Name: name, Email: email})
	require.NoError(t, err)
	return p
}

func TestListProfiles_Pagination(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		createProfile(t, s, gofakeit.Name(), gofakeit.Email())
	}

	page, err := s.ListProfiles(ctx, domain.ListProfilesFilter{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Len(t, page.Profiles, 5)
	assert.Equal(t, domain.Pagination{Total: 12, Page: 2, Pages: 3}, page.Pagination)

	page, err = s.ListProfiles(ctx, domain.ListProfilesFilter{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Profiles, 2)

	page, err = s.ListProfiles(ctx, domain.ListProfilesFilter{Page: 9, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Profiles)
	assert.NotNil(t, page.Profiles)
}

func TestListProfiles_LargeLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		createProfile(t, s, gofakeit.Name(), gofakeit.Email())
	}

	page, err := s.ListProfiles(ctx, domain.ListProfilesFilter{Limit: 200})
	require.NoError(t, err)

	assert.Len(t, page.Profiles, 150)
	assert.Equal(t, domain.Pagination{Total: 150, Page: 1, Pages: 1}, page.Pagination)
}

func TestListProfiles_Filters(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := createProfile(t, s, "Alice", "Alice@Example.com")
	bob := createProfile(t, s, "Bob", "bob@example.org")
	carol := createProfile(t, s, "Carol", "carol@example.org")

	_, err := s.AddSkill(ctx, alice.ID, "go")
	require.NoError(t, err)
	_, err = s.AddSkill(ctx, bob.ID, "rust")
	require.NoError(t, err)
	_, err = s.ReplaceInformation(ctx, bob.ID, map[string]any{"location": "Paris, France"})
	require.NoError(t, err)
	_, err = s.AddExperience(ctx, carol.ID, domain.ExperienceInput{Title: "Eng", Company: "ACME Corp"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter domain.ListProfilesFilter
		want   []string
	}{
		{"email substring ignores case", domain.ListProfilesFilter{Email: "alice"}, []string{alice.ID}},
		{"skills membership", domain.ListProfilesFilter{Skills: []string{"go", "rust"}}, []string{alice.ID, bob.ID}},
		{"location", domain.ListProfilesFilter{Location: "paris"}, []string{bob.ID}},
		{"company", domain.ListProfilesFilter{Company: "acme"}, []string{carol.ID}},
		{"name", domain.ListProfilesFilter{Name: "O"}, []string{bob.ID, carol.ID}},
		{"criteria are ANDed", domain.ListProfilesFilter{Name: "bob", Skills: []string{"go"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListProfiles(ctx, tt.filter)
			require.NoError(t, err)

			var got []string
			for _, p := range page.Profiles {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.want)), page.Pagination.Total)
		})
	}
}

func TestListProfiles_Sort(t *testing.T) {
	s := New()
	ctx := context.Background()

	createProfile(t, s, "b", "b@x.com")
	createProfile(t, s, "c", "c@x.com")
	createProfile(t, s, "a", "a@x.com")

	page, err := s.ListProfiles(ctx, domain.ListProfilesFilter{Sort: domain.ParseSort("name:desc")})
	require.NoError(t, err)

	var names []string
	for _, p := range page.Profiles {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"c", "b", "a"}, names)
}

func TestSoftDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := createProfile(t, s, gofakeit.Name(), gofakeit.Email())

	require.NoError(t, s.DeleteProfile(ctx, p.ID))
	require.NoError(t, s.DeleteProfile(ctx, p.ID), "deleting twice still finds the record")

	_, err := s.GetProfile(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)

	page, err := s.ListProfiles(ctx, domain.ListProfilesFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Profiles)

	name := "x"
	_, err = s.UpdateProfile(ctx, domain.UpdateProfileRequest{ID: p.ID, Name: &name})
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)
	_, err = s.AddSkill(ctx, p.ID, "go")
	assert.ErrorIs(t, err, storage.ErrSkillNotAdded)
	_, err = s.RemoveSkill(ctx, p.ID, "go")
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)

	assert.ErrorIs(t, s.DeleteProfile(ctx, "missing"), storage.ErrProfileNotFound)
}

func TestAddSkill_Unique(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := createProfile(t, s, gofakeit.Name(), gofakeit.Email())

	got, err := s.AddSkill(ctx, p.ID, "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Skills)

	_, err = s.AddSkill(ctx, p.ID, "go")
	assert.ErrorIs(t, err, storage.ErrSkillNotAdded)

	got, err = s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Skills)
}

func TestReturnedProfilesAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := createProfile(t, s, "A", "a@x.com")
	p.Skills = append(p.Skills, "leak")
	p.Information["k"] = "v"

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Skills)
	assert.Empty(t, got.Information)
}

func TestAddSkill_Concurrent(t *testing.T) {
	const workers = 32

	s := New()
	ctx := context.Background()
	p := createProfile(t, s, gofakeit.Name(), gofakeit.Email())

	var added, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := s.AddSkill(ctx, p.ID, "go")
			switch {
			case err == nil:
				added.Add(1)
			case errors.Is(err, storage.ErrSkillNotAdded):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), added.Load())
	assert.Equal(t, int32(workers-1), rejected.Load())

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Skills)
}

func TestAddExperience_Concurrent(t *testing.T) {
	const workers = 32

	s := New()
	ctx := context.Background()
	p := createProfile(t, s, gofakeit.Name(), gofakeit.Email())

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := s.AddExperience(ctx, p.ID, domain.ExperienceInput{
				Title:   gofakeit.JobTitle(),
				Company: gofakeit.Company(),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Experiences, workers)

	ids := make(map[string]struct{}, workers)
	for _, e := range got.Experiences {
		ids[e.ID] = struct{}{}
	}
	assert.Len(t, ids, workers)
}

func TestReplaceInformation_CopiesInput(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := createProfile(t, s, gofakeit.Name(), gofakeit.Email())

	info := map[string]any{"location": "Paris"}
	_, err := s.ReplaceInformation(ctx, p.ID, info)
	require.NoError(t, err)

	info["location"] = "Berlin"
	info["extra"] = true

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": "Paris"}, got.Information)
}
