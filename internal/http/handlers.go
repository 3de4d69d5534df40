package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"profile/internal/domain"
)

const maxBodySize = 1 << 20

type Profile interface {
	ListProfiles(ctx context.Context, filter domain.ListProfilesFilter) (*domain.ProfilePage, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	AddExperience(ctx context.Context, id string, exp *domain.ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, id, expID string) (*domain.Profile, error)
	AddSkill(ctx context.Context, id, skill string) (*domain.Profile, error)
	RemoveSkill(ctx context.Context, id, skill string) (*domain.Profile, error)
	ReplaceInformation(ctx context.Context, id string, info map[string]any) (*domain.Profile, error)
	Ping(ctx context.Context) error
}

type handlers struct {
	profiles Profile
	log      *slog.Logger
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *handlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ListProfilesFilter{
		Skills:   splitList(q.Get("skills")),
		Location: q.Get("location"),
		Name:     q.Get("name"),
		Email:    q.Get("email"),
		Company:  q.Get("company"),
		Page:     parseInt(q.Get("page")),
		Limit:    parseInt(q.Get("limit")),
		Sort:     domain.ParseSort(q.Get("sort")),
	}

	page, err := h.profiles.ListProfiles(r.Context(), filter)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) createProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.profiles.CreateProfile(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	profile, err := h.profiles.UpdateProfile(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeMessage(w, http.StatusOK, "Profile deleted successfully")
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

func (e *experienceRequest) toInput() (*domain.ExperienceInput, error) {
	start, err := parseDate(e.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := parseDate(e.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}

	return &domain.ExperienceInput{
		Title:       e.Title,
		Company:     e.Company,
		StartDate:   start,
		EndDate:     end,
		Description: e.Description,
	}, nil
}

func (h *handlers) addExperience(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Experience *experienceRequest `json:"experience"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var exp *domain.ExperienceInput
	if body.Experience != nil {
		var err error
		if exp, err = body.Experience.toInput(); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	profile, err := h.profiles.AddExperience(r.Context(), chi.URLParam(r, "id"), exp)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) removeExperience(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.RemoveExperience(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exp"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) addSkill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Skill *string `json:"skill"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Skill == nil {
		writeMessage(w, http.StatusBadRequest, "skill is required")
		return
	}

	profile, err := h.profiles.AddSkill(r.Context(), chi.URLParam(r, "id"), *body.Skill)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) removeSkill(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.RemoveSkill(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "skill"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) replaceInformation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Information map[string]any `json:"information"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	profile, err := h.profiles.ReplaceInformation(r.Context(), chi.URLParam(r, "id"), body.Information)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.profiles.Ping(ctx); err != nil {
		writeMessage(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeMessage(w, http.StatusOK, "ok")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseInt returns 0 for anything that is not an integer; the storage layer
// turns 0 into the default.
func parseInt(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var dateLayouts = []string{time.RFC3339Nano, time.DateOnly}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, err
}
