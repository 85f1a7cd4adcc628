package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/growth"
)

const (
	animalColumns = `id, owner_id, type, name, personality, garden_zone, experience_points,
		growth_tier, affection_level, created_at, updated_at`
	taskColumns = `id, owner_id, animal_id, title, description, garden_zone, experience_reward,
		created_at, is_completed, completed_at, is_deleted, deleted_at`
	chatColumns = `id, owner_id, animal_id, sender, message, created_at`
)

// LocalStore keeps every entity in the embedded SQLite file. It never fails for
// connectivity reasons.
type LocalStore struct {
	localState
	db     *sql.DB
	locks  *keyedMutex
	now    func() time.Time
	logger *zap.Logger
}

func NewLocalStore(db *sql.DB, kv *KV, logger *zap.Logger) *LocalStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStore{
		localState: localState{kv: kv},
		db:         db,
		locks:      newKeyedMutex(),
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.Named("local"),
	}
}

func (s *LocalStore) Backend() Backend { return BackendLocal }

func (s *LocalStore) Close() error { return s.db.Close() }

func (s *LocalStore) CreateAnimal(ctx context.Context, in AnimalInsert) (*Animal, error) {
	if err := validateAnimalInsert(in); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock("animal-type:" + in.OwnerID + ":" + string(in.Type))
	defer unlock()

	g := growth.Clamped(0)
	now := s.now()
	a := &Animal{
		ID:             uuid.NewString(),
		OwnerID:        in.OwnerID,
		Type:           in.Type,
		Name:           in.Name,
		Personality:    in.Personality,
		GardenZone:     in.GardenZone,
		GrowthTier:     g.Tier,
		AffectionLevel: growth.Affection(g),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM animals WHERE owner_id = ? AND type = ?`, in.OwnerID, string(in.Type)).Scan(&one)
		if err == nil {
			return apperrors.ValidationError{Field: "type", Reason: "is already owned"}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("animal lookup: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO animals (`+animalColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.OwnerID, string(a.Type), a.Name, a.Personality, string(a.GardenZone), a.ExperiencePoints,
			a.GrowthTier, a.AffectionLevel, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("animal insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *LocalStore) GetAnimal(ctx context.Context, id string) (*Animal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = ?`, id)
	return scanAnimal(row)
}

func (s *LocalStore) ListAnimals(ctx context.Context, ownerID string) ([]Animal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE owner_id = ? ORDER BY seq ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("animal list: %w", err)
	}
	defer rows.Close()

	var out []Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("animal list rows: %w", err)
	}
	return out, nil
}

func (s *LocalStore) UpdateAnimalExperience(ctx context.Context, animalID string, newExperience int) (*Animal, error) {
	if newExperience < 0 {
		return nil, fmt.Errorf("experience %d: %w", newExperience, apperrors.ErrInvalidArgument)
	}
	unlock := s.locks.Lock("animal:" + animalID)
	defer unlock()

	return inTx(ctx, s.db, func(tx *sql.Tx) (*Animal, error) {
		a, err := scanAnimal(tx.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = ?`, animalID))
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, apperrors.NotFound("animal", animalID)
		}
		if newExperience < a.ExperiencePoints {
			return nil, fmt.Errorf("experience %d below current %d: %w", newExperience, a.ExperiencePoints, apperrors.ErrInvalidArgument)
		}
		if err := s.applyExperience(ctx, tx, a, newExperience); err != nil {
			return nil, err
		}
		return a, nil
	})
}

// applyExperience sets a's experience, recomputes its derived fields and writes
// the row inside tx.
func (s *LocalStore) applyExperience(ctx context.Context, tx *sql.Tx, a *Animal, exp int) error {
	g, err := growth.Compute(exp)
	if err != nil {
		return err
	}
	a.ExperiencePoints = exp
	a.GrowthTier = g.Tier
	a.AffectionLevel = growth.Affection(g)
	a.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx, `
		UPDATE animals
		SET experience_points = ?, growth_tier = ?, affection_level = ?, updated_at = ?
		WHERE id = ?
	`, a.ExperiencePoints, a.GrowthTier, a.AffectionLevel, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("animal update experience: %w", err)
	}
	return nil
}

func (s *LocalStore) CreateTask(ctx context.Context, in TaskInsert) (*Task, error) {
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
	t := &Task{
		ID:               uuid.NewString(),
		OwnerID:          in.OwnerID,
		AnimalID:         in.AnimalID,
		Title:            in.Title,
		Description:      in.Description,
		GardenZone:       in.GardenZone,
		ExperienceReward: in.ExperienceReward,
		CreatedAt:        s.now(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, animal_id, title, description, garden_zone, experience_reward, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.OwnerID, t.AnimalID, t.Title, t.Description, string(t.GardenZone), t.ExperienceReward, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("task insert: %w", err)
	}
	return t, nil
}

func (s *LocalStore) GetTask(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (s *LocalStore) ListTasks(ctx context.Context, ownerID string, f TaskFilter) ([]Task, error) {
	where, args := f.where(ownerID, func(int) string { return "?" })
	for i, a := range args {
		if b, ok := a.(bool); ok {
			args[i] = boolToInt(b)
		}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where+` ORDER BY seq ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

func (s *LocalStore) CompleteTask(ctx context.Context, taskID string) (*Completion, error) {
	// The animal id never changes after insert, so it is safe to learn it before
	// taking the locks. Locks are always taken task first, then animal.
	pre, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if pre == nil {
		return nil, apperrors.NotFound("task", taskID)
	}
	unlockTask := s.locks.Lock("task:" + taskID)
	defer unlockTask()
	if pre.AnimalID != nil {
		unlockAnimal := s.locks.Lock("animal:" + *pre.AnimalID)
		defer unlockAnimal()
	}

	var out *Completion
	err = WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID))
		if err != nil {
			return err
		}
		if t == nil {
			return apperrors.NotFound("task", taskID)
		}
		if t.IsCompleted {
			return fmt.Errorf("task %s: %w", taskID, apperrors.ErrAlreadyCompleted)
		}

		now := s.now()
		res, err := tx.ExecContext(ctx, `UPDATE tasks SET is_completed = 1, completed_at = ? WHERE id = ? AND is_completed = 0`, now, taskID)
		if err != nil {
			return fmt.Errorf("task complete: %w", err)
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return fmt.Errorf("task %s: %w", taskID, apperrors.ErrAlreadyCompleted)
		}
		t.IsCompleted = true
		t.CompletedAt = &now
		out = &Completion{Task: *t}

		if t.AnimalID == nil {
			return nil
		}
		a, err := scanAnimal(tx.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = ?`, *t.AnimalID))
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
		return nil, err
	}
	return out, nil
}

func (s *LocalStore) SoftDeleteTask(ctx context.Context, taskID string) (*Task, error) {
	unlock := s.locks.Lock("task:" + taskID)
	defer unlock()

	return inTx(ctx, s.db, func(tx *sql.Tx) (*Task, error) {
		t, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID))
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperrors.NotFound("task", taskID)
		}
		if t.IsDeleted {
			return nil, fmt.Errorf("task %s: %w", taskID, apperrors.ErrAlreadyDeleted)
		}
		now := s.now()
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET is_deleted = 1, deleted_at = ? WHERE id = ?`, now, taskID); err != nil {
			return nil, fmt.Errorf("task soft delete: %w", err)
		}
		t.IsDeleted = true
		t.DeletedAt = &now
		return t, nil
	})
}

func (s *LocalStore) UpsertMoodRecord(ctx context.Context, ownerID string, date string, m catalog.WeatherMood) (*MoodRecord, error) {
	if err := validateMoodRecord(ownerID, date, m); err != nil {
		return nil, err
	}
	rec := &MoodRecord{OwnerID: ownerID, Date: date, WeatherMood: m, UpdatedAt: s.now()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mood_records (owner_id, date, weather_mood, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, date) DO UPDATE SET weather_mood = excluded.weather_mood, updated_at = excluded.updated_at
	`, rec.OwnerID, rec.Date, string(rec.WeatherMood), rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("mood upsert: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) GetMoodRecord(ctx context.Context, ownerID string, date string) (*MoodRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT owner_id, date, weather_mood, updated_at FROM mood_records WHERE owner_id = ? AND date = ?`, ownerID, date)
	var (
		rec  MoodRecord
		mood string
	)
	if err := row.Scan(&rec.OwnerID, &rec.Date, &mood, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mood scan: %w", err)
	}
	rec.WeatherMood = catalog.WeatherMood(mood)
	return &rec, nil
}

func (s *LocalStore) AppendChatEntry(ctx context.Context, e ChatEntry) (*ChatEntry, error) {
	if err := validateChatEntry(e); err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_history (`+chatColumns+`) VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.OwnerID, e.AnimalID, string(e.Sender), e.Message, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("chat insert: %w", err)
	}
	return &e, nil
}

func (s *LocalStore) ListChatHistory(ctx context.Context, animalID string, limit int) ([]ChatEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+chatColumns+` FROM chat_history
		WHERE animal_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`, animalID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat list: %w", err)
	}
	defer rows.Close()

	var out []ChatEntry
	for rows.Next() {
		e, err := scanChatEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat list rows: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}

// GetAPIConfig reads the local cache, which is the only copy for this backend.
func (s *LocalStore) GetAPIConfig(ctx context.Context, ownerID string) (*APIConfig, error) {
	return s.cachedAPIConfig(ctx)
}

func (s *LocalStore) SaveAPIConfig(ctx context.Context, ownerID string, c APIConfig) error {
	return s.cacheAPIConfig(ctx, c)
}

func scanAnimal(row scanner) (*Animal, error) {
	var (
		a          Animal
		typ, zone string
	)
	if err := row.Scan(&a.ID, &a.OwnerID, &typ, &a.Name, &a.Personality, &zone, &a.ExperiencePoints,
		&a.GrowthTier, &a.AffectionLevel, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("animal scan: %w", err)
	}
	a.Type = catalog.CompanionType(typ)
	a.GardenZone = catalog.Zone(zone)
	return &a, nil
}

func scanTask(row scanner) (*Task, error) {
	var (
		t           Task
		animalID    sql.NullString
		zone        string
		isCompleted int
		completedAt sql.NullTime
		isDeleted   int
		deletedAt   sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &animalID, &t.Title, &t.Description, &zone, &t.ExperienceReward,
		&t.CreatedAt, &isCompleted, &completedAt, &isDeleted, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}
	t.GardenZone = catalog.Zone(zone)
	if animalID.Valid {
		v := animalID.String
		t.AnimalID = &v
	}
	t.IsCompleted = isCompleted != 0
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	t.IsDeleted = isDeleted != 0
	if deletedAt.Valid {
		v := deletedAt.Time
		t.DeletedAt = &v
	}
	return &t, nil
}

func scanChatEntry(row scanner) (*ChatEntry, error) {
	var (
		e      ChatEntry
		sender string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.AnimalID, &sender, &e.Message, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("chat scan: %w", err)
	}
	e.Sender = Sender(sender)
	return &e, nil
}
