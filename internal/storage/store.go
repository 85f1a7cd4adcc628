package storage

import (
	"context"
	"strings"
	"time"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
)

type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
)

// DefaultTaskReward is the reward of a task created without an explicit one.
const DefaultTaskReward = 10

// Store is the persistence contract shared by RemoteStore and LocalStore.
// Mutations on one entity id are serialized; a losing concurrent writer sees
// ErrAlreadyCompleted or ErrAlreadyDeleted instead of corrupting state.
// Get* methods return (nil, nil) when the row does not exist.
type Store interface {
	Backend() Backend
	// OwnerID returns the implicit owner of this installation, generating and
	// persisting one locally on first use.
	OwnerID(ctx context.Context) (string, error)

	CreateAnimal(ctx context.Context, in AnimalInsert) (*Animal, error)
	GetAnimal(ctx context.Context, id string) (*Animal, error)
	ListAnimals(ctx context.Context, ownerID string) ([]Animal, error)
	// UpdateAnimalExperience sets the experience and recomputes the derived
	// fields. Negative or decreasing values fail with ErrInvalidArgument.
	UpdateAnimalExperience(ctx context.Context, animalID string, newExperience int) (*Animal, error)

	CreateTask(ctx context.Context, in TaskInsert) (*Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, ownerID string, f TaskFilter) ([]Task, error)
	// CompleteTask marks the task completed and applies its reward to the
	// associated animal as one transaction.
	CompleteTask(ctx context.Context, taskID string) (*Completion, error)
	SoftDeleteTask(ctx context.Context, taskID string) (*Task, error)

	UpsertMoodRecord(ctx context.Context, ownerID string, date string, m catalog.WeatherMood) (*MoodRecord, error)
	GetMoodRecord(ctx context.Context, ownerID string, date string) (*MoodRecord, error)

	AppendChatEntry(ctx context.Context, e ChatEntry) (*ChatEntry, error)
	// ListChatHistory returns the latest limit entries in creation order.
	ListChatHistory(ctx context.Context, animalID string, limit int) ([]ChatEntry, error)

	// GetAPIConfig reads the local cache first. A nil config means none saved.
	GetAPIConfig(ctx context.Context, ownerID string) (*APIConfig, error)
	// SaveAPIConfig always commits locally; a failed remote copy is reported
	// as *apperrors.PartialFailure.
	SaveAPIConfig(ctx context.Context, ownerID string, c APIConfig) error

	UnlockedCompanions(ctx context.Context) ([]catalog.CompanionType, error)
	MarkUnlocked(ctx context.Context, t catalog.CompanionType) (added bool, err error)
	RewardShown(ctx context.Context, t catalog.CompanionType) (bool, error)
	MarkRewardShown(ctx context.Context, t catalog.CompanionType) (first bool, err error)

	Close() error
}

type AnimalInsert struct {
	OwnerID     string
	Type        catalog.CompanionType
	Name        string
	Personality string
	GardenZone  catalog.Zone
}

type TaskInsert struct {
	OwnerID          string
	AnimalID         *string
	Title            string
	Description      string
	GardenZone       catalog.Zone
	ExperienceReward int
}

// TaskFilter narrows ListTasks. Open, not-deleted tasks are always included.
type TaskFilter struct {
	AnimalID         *string
	IncludeDeleted   bool
	IncludeCompleted bool
}

// where renders the filter as SQL conditions over the tasks table. ph returns the
// placeholder for the n-th (1-based) argument.
func (f TaskFilter) where(ownerID string, ph func(n int) string) (string, []any) {
	args := []any{ownerID}
	conds := []string{"owner_id = " + ph(1)}
	if f.AnimalID != nil {
		args = append(args, *f.AnimalID)
		conds = append(conds, "animal_id = "+ph(len(args)))
	}
	if !f.IncludeDeleted {
		conds = append(conds, "is_deleted = "+ph(len(args)+1))
		args = append(args, false)
	}
	if !f.IncludeCompleted {
		conds = append(conds, "is_completed = "+ph(len(args)+1))
		args = append(args, false)
	}
	return strings.Join(conds, " AND "), args
}

func validateAnimalInsert(in AnimalInsert) error {
	if in.OwnerID == "" {
		return apperrors.ValidationError{Field: "owner", Reason: "is required"}
	}
	if !in.Type.IsValid() {
		return apperrors.ValidationError{Field: "type", Reason: "is not a known companion"}
	}
	if !in.GardenZone.IsValid() {
		return apperrors.ValidationError{Field: "zone", Reason: "is not a known garden zone"}
	}
	return nil
}

func normalizeTaskInsert(in TaskInsert) (TaskInsert, error) {
	if in.OwnerID == "" {
		return in, apperrors.ValidationError{Field: "owner", Reason: "is required"}
	}
	if in.Title == "" {
		return in, apperrors.ValidationError{Field: "title", Reason: "is required"}
	}
	if !in.GardenZone.IsValid() {
		return in, apperrors.ValidationError{Field: "zone", Reason: "is not a known garden zone"}
	}
	if in.ExperienceReward == 0 {
		in.ExperienceReward = DefaultTaskReward
	}
	if in.ExperienceReward < 0 {
		return in, apperrors.ValidationError{Field: "reward", Reason: "must be positive"}
	}
	return in, nil
}

// checkTaskAnimal rejects a task assigned to an animal that is missing or
// belongs to another owner. a is the looked-up row for in.AnimalID.
func checkTaskAnimal(in TaskInsert, a *Animal) error {
	if in.AnimalID == nil {
		return nil
	}
	if a == nil || a.OwnerID != in.OwnerID {
		return apperrors.ValidationError{Field: "animal", Reason: "is not owned by this owner"}
	}
	return nil
}

func validateChatEntry(e ChatEntry) error {
	if e.AnimalID == "" {
		return apperrors.ValidationError{Field: "animal", Reason: "is required"}
	}
	if !e.Sender.IsValid() {
		return apperrors.ValidationError{Field: "sender", Reason: "must be user or companion"}
	}
	return nil
}

func validateMoodRecord(ownerID, date string, m catalog.WeatherMood) error {
	if ownerID == "" {
		return apperrors.ValidationError{Field: "owner", Reason: "is required"}
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return apperrors.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if !m.IsValid() {
		return apperrors.ValidationError{Field: "mood", Reason: "is not a known weather"}
	}
	return nil
}
