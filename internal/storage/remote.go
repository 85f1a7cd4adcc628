package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/growth"
)

// RemoteConfig holds the PostgreSQL connection settings.
type RemoteConfig struct {
	URL            string
	MaxConnections int32
	ConnectTimeout time.Duration
}

// RemoteStore persists entities in PostgreSQL. Every network or server error is
// reported as ErrStoreUnavailable. The unlock overlay and the API config cache
// stay in the local SQLite file.
type RemoteStore struct {
	localState
	pool   *pgxpool.Pool
	local  *sql.DB
	now    func() time.Time
	logger *zap.Logger
}

// ConnectRemote opens the pool, probes it and makes sure the tables exist.
func ConnectRemote(ctx context.Context, cfg RemoteConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 4
	}
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create remote pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping remote: %w", err)
	}
	if err := ensureRemoteSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewRemoteStore wraps an open pool. local is the SQLite handle backing kv; it is
// closed together with the pool.
func NewRemoteStore(pool *pgxpool.Pool, local *sql.DB, kv *KV, logger *zap.Logger) *RemoteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteStore{
		localState: localState{kv: kv},
		pool:       pool,
		local:      local,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.Named("remote"),
	}
}

func (s *RemoteStore) Backend() Backend { return BackendRemote }

func (s *RemoteStore) Close() error {
	s.pool.Close()
	return s.local.Close()
}

func pgPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func (s *RemoteStore) CreateAnimal(ctx context.Context, in AnimalInsert) (*Animal, error) {
	if err := validateAnimalInsert(in); err != nil {
		return nil, err
	}
	g := growth.Clamped(0)
	now := s.now()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $9)
		ON CONFLICT (owner_id, type) DO NOTHING
		RETURNING `+animalColumns,
		uuid.NewString(), in.OwnerID, string(in.Type), in.Name, in.Personality, string(in.GardenZone),
		g.Tier, growth.Affection(g), now)
	a, err := scanAnimalPG(row)
	if err != nil {
		return nil, apperrors.Unavailable("animal insert", err)
	}
	if a == nil {
		return nil, apperrors.ValidationError{Field: "type", Reason: "is already owned"}
	}
	return a, nil
}

func (s *RemoteStore) GetAnimal(ctx context.Context, id string) (*Animal, error) {
	a, err := scanAnimalPG(s.pool.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id))
	return a, apperrors.Unavailable("animal get", err)
}

func (s *RemoteStore) ListAnimals(ctx context.Context, ownerID string) ([]Animal, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+animalColumns+` FROM animals WHERE owner_id = $1 ORDER BY seq ASC`, ownerID)
	if err != nil {
		return nil, apperrors.Unavailable("animal list", err)
	}
	defer rows.Close()

	var out []Animal
	for rows.Next() {
		a, err := scanAnimalPG(rows)
		if err != nil {
			return nil, apperrors.Unavailable("animal list", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("animal list", err)
	}
	return out, nil
}

func (s *RemoteStore) UpdateAnimalExperience(ctx context.Context, animalID string, newExperience int) (*Animal, error) {
	if newExperience < 0 {
		return nil, fmt.Errorf("experience %d: %w", newExperience, apperrors.ErrInvalidArgument)
	}
	var out *Animal
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		a, err := lockAnimal(ctx, tx, animalID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperrors.NotFound("animal", animalID)
		}
		if newExperience < a.ExperiencePoints {
			return fmt.Errorf("experience %d below current %d: %w", newExperience, a.ExperiencePoints, apperrors.ErrInvalidArgument)
		}
		if err := s.applyExperience(ctx, tx, a, newExperience); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, apperrors.Unavailable("animal update experience", err)
	}
	return out, nil
}

func lockAnimal(ctx context.Context, tx pgx.Tx, id string) (*Animal, error) {
	return scanAnimalPG(tx.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1 FOR UPDATE`, id))
}

// applyExperience writes exp and the derived fields only if the row still holds
// the experience a was read with.
func (s *RemoteStore) applyExperience(ctx context.Context, tx pgx.Tx, a *Animal, exp int) error {
	g, err := growth.Compute(exp)
	if err != nil {
		return err
	}
	now := s.now()
	tag, err := tx.Exec(ctx, `
		UPDATE animals
		SET experience_points = $2, growth_tier = $3, affection_level = $4, updated_at = $5
		WHERE id = $1 AND experience_points = $6
	`, a.ID, exp, g.Tier, growth.Affection(g), now, a.ExperiencePoints)
	if err != nil {
		return fmt.Errorf("animal update experience: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("animal %s changed concurrently: %w", a.ID, apperrors.ErrStoreUnavailable)
	}
	a.ExperiencePoints = exp
	a.GrowthTier = g.Tier
	a.AffectionLevel = growth.Affection(g)
	a.UpdatedAt = now
	return nil
}

func (s *RemoteStore) CreateTask(ctx context.Context, in TaskInsert) (*Task, error) {
	in, err := normalizeTaskInsert(in)
	if err != nil {
		return nil, err
	}
	if in.AnimalID != nil {
		a, err := s.GetAnimal(ctx, *in.AnimalID)
		if err != nil {
			return nil, err
		}
		if err := checkTaskAnimal(in, a); err != nil {
			return nil, err
		}
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, owner_id, animal_id, title, description, garden_zone, experience_reward, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns,
		uuid.NewString(), in.OwnerID, in.AnimalID, in.Title, in.Description, string(in.GardenZone), in.ExperienceReward, s.now())
	t, err := scanTaskPG(row)
	if isForeignKeyViolation(err) {
		return nil, apperrors.ValidationError{Field: "animal", Reason: "is not owned by this owner"}
	}
	if err != nil {
		return nil, apperrors.Unavailable("task insert", err)
	}
	return t, nil
}

// isForeignKeyViolation reports PostgreSQL error 23503.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (s *RemoteStore) GetTask(ctx context.Context, id string) (*Task, error) {
	t, err := scanTaskPG(s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	return t, apperrors.Unavailable("task get", err)
}

func (s *RemoteStore) ListTasks(ctx context.Context, ownerID string, f TaskFilter) ([]Task, error) {
	where, args := f.where(ownerID, pgPlaceholder)
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where+` ORDER BY seq ASC`, args...)
	if err != nil {
		return nil, apperrors.Unavailable("task list", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskPG(rows)
		if err != nil {
			return nil, apperrors.Unavailable("task list", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("task list", err)
	}
	return out, nil
}

// CompleteTask flips is_completed with a conditional update so only one caller can
// win, then applies the reward to the locked animal row in the same transaction.
func (s *RemoteStore) CompleteTask(ctx context.Context, taskID string) (*Completion, error) {
	var out *Completion
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		t, err := scanTaskPG(tx.QueryRow(ctx, `
			UPDATE tasks SET is_completed = true, completed_at = $2
			WHERE id = $1 AND is_completed = false
			RETURNING `+taskColumns, taskID, s.now()))
		if err != nil {
			return err
		}
		if t == nil {
			return taskGuardError(ctx, tx, taskID, apperrors.ErrAlreadyCompleted)
		}
		out = &Completion{Task: *t}
		if t.AnimalID == nil {
			return nil
		}

		a, err := lockAnimal(ctx, tx, *t.AnimalID)
		if err != nil {
			return err
		}
		if a == nil {
			s.logger.Warn("completed task references missing animal",
				zap.String("task", taskID), zap.String("animal", *t.AnimalID))
			return nil
		}
		out.TierBefore = a.GrowthTier
		if err := s.applyExperience(ctx, tx, a, a.ExperiencePoints+t.ExperienceReward); err != nil {
			return err
		}
		out.Animal = a
		out.XPAwarded = t.ExperienceReward
		out.TierAfter = a.GrowthTier
		return nil
	})
	if err != nil {
		return nil, apperrors.Unavailable("task complete", err)
	}
	return out, nil
}

func (s *RemoteStore) SoftDeleteTask(ctx context.Context, taskID string) (*Task, error) {
	var out *Task
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		t, err := scanTaskPG(tx.QueryRow(ctx, `
			UPDATE tasks SET is_deleted = true, deleted_at = $2
			WHERE id = $1 AND is_deleted = false
			RETURNING `+taskColumns, taskID, s.now()))
		if err != nil {
			return err
		}
		if t == nil {
			return taskGuardError(ctx, tx, taskID, apperrors.ErrAlreadyDeleted)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, apperrors.Unavailable("task soft delete", err)
	}
	return out, nil
}

// taskGuardError tells a missing task apart from one whose guard already tripped.
func taskGuardError(ctx context.Context, tx pgx.Tx, taskID string, guard error) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM tasks WHERE id = $1`, taskID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("task", taskID)
	}
	if err != nil {
		return fmt.Errorf("task lookup: %w", err)
	}
	return fmt.Errorf("task %s: %w", taskID, guard)
}

func (s *RemoteStore) UpsertMoodRecord(ctx context.Context, ownerID string, date string, m catalog.WeatherMood) (*MoodRecord, error) {
	if err := validateMoodRecord(ownerID, date, m); err != nil {
		return nil, err
	}
	rec := &MoodRecord{OwnerID: ownerID, Date: date, WeatherMood: m, UpdatedAt: s.now()}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO mood_records (owner_id, date, weather_mood, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, date) DO UPDATE SET weather_mood = EXCLUDED.weather_mood, updated_at = EXCLUDED.updated_at
	`, rec.OwnerID, rec.Date, string(rec.WeatherMood), rec.UpdatedAt)
	if err != nil {
		return nil, apperrors.Unavailable("mood upsert", err)
	}
	return rec, nil
}

func (s *RemoteStore) GetMoodRecord(ctx context.Context, ownerID string, date string) (*MoodRecord, error) {
	var (
		rec  MoodRecord
		mood string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT owner_id, date, weather_mood, updated_at FROM mood_records WHERE owner_id = $1 AND date = $2
	`, ownerID, date).Scan(&rec.OwnerID, &rec.Date, &mood, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Unavailable("mood get", err)
	}
	rec.WeatherMood = catalog.WeatherMood(mood)
	return &rec, nil
}

func (s *RemoteStore) AppendChatEntry(ctx context.Context, e ChatEntry) (*ChatEntry, error) {
	if err := validateChatEntry(e); err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_history (`+chatColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.OwnerID, e.AnimalID, string(e.Sender), e.Message, e.CreatedAt)
	if err != nil {
		return nil, apperrors.Unavailable("chat insert", err)
	}
	return &e, nil
}

func (s *RemoteStore) ListChatHistory(ctx context.Context, animalID string, limit int) ([]ChatEntry, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+chatColumns+` FROM chat_history
		WHERE animal_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`, animalID, lim)
	if err != nil {
		return nil, apperrors.Unavailable("chat list", err)
	}
	defer rows.Close()

	var out []ChatEntry
	for rows.Next() {
		e, err := scanChatEntry(rows)
		if err != nil {
			return nil, apperrors.Unavailable("chat list", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("chat list", err)
	}
	slices.Reverse(out)
	return out, nil
}

// GetAPIConfig serves the local cache and only falls back to the remote copy when
// nothing is cached, refreshing the cache from it.
func (s *RemoteStore) GetAPIConfig(ctx context.Context, ownerID string) (*APIConfig, error) {
	c, err := s.cachedAPIConfig(ctx)
	if err != nil || c != nil {
		return c, err
	}

	var rc APIConfig
	err = s.pool.QueryRow(ctx, `SELECT api_url, api_key, model_name FROM api_config WHERE owner_id = $1`, ownerID).
		Scan(&rc.EndpointURL, &rc.APIKey, &rc.ModelName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Unavailable("api config get", err)
	}
	if err := s.cacheAPIConfig(ctx, rc); err != nil {
		s.logger.Warn("cache remote api config", zap.Error(err))
	}
	return &rc, nil
}

func (s *RemoteStore) SaveAPIConfig(ctx context.Context, ownerID string, c APIConfig) error {
	if err := s.cacheAPIConfig(ctx, c); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO api_config (owner_id, api_url, api_key, model_name, updated_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id) DO UPDATE
		SET api_url = EXCLUDED.api_url, api_key = EXCLUDED.api_key, model_name = EXCLUDED.model_name, updated_at = EXCLUDED.updated_at
	`, ownerID, c.EndpointURL, c.APIKey, c.ModelName, s.now())
	if err != nil {
		s.logger.Warn("remote api config write failed, kept local copy", zap.Error(err))
		return &apperrors.PartialFailure{Op: "save api config", Cause: err}
	}
	return nil
}

func scanAnimalPG(row pgx.Row) (*Animal, error) {
	a, err := scanAnimal(row)
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func scanTaskPG(row pgx.Row) (*Task, error) {
	var (
		t           Task
		zone        string
		completedAt *time.Time
		deletedAt   *time.Time
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.AnimalID, &t.Title, &t.Description, &zone, &t.ExperienceReward,
		&t.CreatedAt, &t.IsCompleted, &completedAt, &t.IsDeleted, &deletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}
	t.GardenZone = catalog.Zone(zone)
	t.CompletedAt = completedAt
	t.DeletedAt = deletedAt
	return &t, nil
}
