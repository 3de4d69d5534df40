package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"profile/internal/domain"
	"profile/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, name, email, skills, experiences, information, deleted, created_at, updated_at`

type Storage struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func Config(dsn string, log *slog.Logger) (*pgxpool.Config, error) {
	const defaultMaxConns = int32(50)
	const defaultMinConns = int32(0)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 30
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = defaultMaxConns
	dbConfig.MinConns = defaultMinConns
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	dbConfig.BeforeClose = func(conn *pgx.Conn) {
		log.Debug("closed database connection", slog.Uint64("pid", uint64(conn.PgConn().PID())))
	}

	return dbConfig, nil
}

func New(ctx context.Context, dsn string, log *slog.Logger) (*Storage, error) {
	const op = "storage.postgres.New"

	cfg, err := Config(dsn, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("connected to PostgreSQL")

	return &Storage{db: db, log: log}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var profile domain.Profile
	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Skills,
		&profile.Experiences,
		&profile.Information,
		&profile.Deleted,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Experiences == nil {
		profile.Experiences = []domain.Experience{}
	}
	if profile.Information == nil {
		profile.Information = map[string]any{}
	}

	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context, filter domain.ListProfilesFilter) (*domain.ProfilePage, error) {
	const op = "storage.postgres.ListProfiles"

	filter = filter.Normalize()
	where, args := listWhere(filter)

	var total int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM profiles WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("%s: count profiles: %w", op, err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, profileColumns, where, orderBy(filter.Sort), len(args)+1, len(args)+2)

	rows, err := s.db.Query(ctx, query, append(args, filter.Limit, filter.Skip())...)
	if err != nil {
		return nil, fmt.Errorf("%s: query profiles: %w", op, err)
	}
	defer rows.Close()

	profiles := []*domain.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan profile: %w", op, err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return &domain.ProfilePage{
		Profiles:   profiles,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (s *Storage) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	const op = "storage.postgres.GetProfile"

	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrProfileNotFound
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND NOT deleted`

	profile, err := scanProfile(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

func (s *Storage) CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error) {
	const op = "storage.postgres.CreateProfile"

	query := `
		INSERT INTO profiles (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING ` + profileColumns

	profile, err := scanProfile(s.db.QueryRow(ctx, query, uuid.New().String(), req.Name, req.Email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("Profile created", slog.String("profile_id", profile.ID))
	return profile, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if req.Empty() {
		return s.GetProfile(ctx, req.ID)
	}

	// Build dynamic query
	var setParts []string
	var args []any
	argIndex := 2

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, *req.Email)
	}

	return s.updateActive(ctx, "storage.postgres.UpdateProfile", req.ID, strings.Join(setParts, ", "), "", args...)
}

func (s *Storage) DeleteProfile(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteProfile"

	if _, err := uuid.Parse(id); err != nil {
		return storage.ErrProfileNotFound
	}

	query := `UPDATE profiles SET deleted = TRUE, updated_at = now() WHERE id = $1`

	result, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrProfileNotFound
	}

	s.log.Info("Profile deleted", slog.String("profile_id", id))
	return nil
}

func (s *Storage) AddExperience(ctx context.Context, id string, exp domain.ExperienceInput) (*domain.Profile, error) {
	entry := []domain.Experience{{
		ID:          uuid.New().String(),
		Title:       exp.Title,
		Company:     exp.Company,
		StartDate:   exp.StartDate,
		EndDate:     exp.EndDate,
		Description: exp.Description,
	}}

	return s.updateActive(ctx, "storage.postgres.AddExperience", id,
		"experiences = experiences || $2::jsonb", "", entry)
}

func (s *Storage) RemoveExperience(ctx context.Context, id, expID string) (*domain.Profile, error) {
	const set = `experiences = COALESCE((
		SELECT jsonb_agg(e.value ORDER BY e.ord)
		FROM jsonb_array_elements(experiences) WITH ORDINALITY AS e(value, ord)
		WHERE e.value->>'_id' IS DISTINCT FROM $2::text
	), '[]'::jsonb)`

	return s.updateActive(ctx, "storage.postgres.RemoveExperience", id, set, "", expID)
}

func (s *Storage) AddSkill(ctx context.Context, id, skill string) (*domain.Profile, error) {
	profile, err := s.updateActive(ctx, "storage.postgres.AddSkill", id,
		"skills = array_append(skills, $2::text)", "NOT ($2::text = ANY(skills))", skill)
	if errors.Is(err, storage.ErrProfileNotFound) {
		return nil, storage.ErrSkillNotAdded
	}
	return profile, err
}

func (s *Storage) RemoveSkill(ctx context.Context, id, skill string) (*domain.Profile, error) {
	return s.updateActive(ctx, "storage.postgres.RemoveSkill", id,
		"skills = array_remove(skills, $2::text)", "", skill)
}

func (s *Storage) ReplaceInformation(ctx context.Context, id string, info map[string]any) (*domain.Profile, error) {
	return s.updateActive(ctx, "storage.postgres.ReplaceInformation", id,
		"information = $2::jsonb", "", info)
}

// updateActive runs a single UPDATE ... RETURNING against the non-deleted
// profile with the given id. The id is always $1; set and cond may refer to
// args from $2 on.
func (s *Storage) updateActive(ctx context.Context, op, id, set, cond string, args ...any) (*domain.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrProfileNotFound
	}

	where := "id = $1 AND NOT deleted"
	if cond != "" {
		where += " AND " + cond
	}

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s, updated_at = now()
		WHERE %s
		RETURNING %s
	`, set, where, profileColumns)

	profile, err := scanProfile(s.db.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("Profile updated", slog.String("op", op), slog.String("profile_id", profile.ID))
	return profile, nil
}
