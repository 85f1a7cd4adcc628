package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/growth"
	"zootopia/internal/storage"
)

type CompleteStatus string

const (
	StatusCompleted        CompleteStatus = "completed"
	StatusAlreadyCompleted CompleteStatus = "already_completed"
)

type CompleteResult struct {
	Status CompleteStatus
	Task   storage.Task
	// Animal is the rewarded companion after the update; nil for unassigned
	// tasks and for already completed ones.
	Animal     *storage.Animal
	XPAwarded  int
	TierBefore int
	TierAfter  int
	TierUp     bool
}

type DeleteStatus string

const (
	StatusDeleted        DeleteStatus = "deleted"
	StatusAlreadyDeleted DeleteStatus = "already_deleted"
)

type DeleteResult struct {
	Status DeleteStatus
	Task   storage.Task
}

// CompleteTask completes the task and rewards its companion in one store
// transaction. Completing twice is a no-op reported as StatusAlreadyCompleted.
func (s *Service) CompleteTask(ctx context.Context, id string) (*CompleteResult, error) {
	c, err := s.store.CompleteTask(ctx, id)
	if errors.Is(err, apperrors.ErrAlreadyCompleted) {
		t, gerr := s.store.GetTask(ctx, id)
		if gerr != nil {
			return nil, translate("get task", gerr)
		}
		res := &CompleteResult{Status: StatusAlreadyCompleted}
		if t != nil {
			res.Task = *t
		}
		return res, nil
	}
	if err != nil {
		return nil, translate("complete task", err)
	}

	res := &CompleteResult{
		Status:     StatusCompleted,
		Task:       c.Task,
		Animal:     c.Animal,
		XPAwarded:  c.XPAwarded,
		TierBefore: c.TierBefore,
		TierAfter:  c.TierAfter,
		TierUp:     c.Animal != nil && c.TierAfter > c.TierBefore,
	}
	s.logger.Debug("task completed",
		zap.String("task", id),
		zap.Int("xp", res.XPAwarded),
		zap.Int("tier_before", res.TierBefore),
		zap.Int("tier_after", res.TierAfter))
	return res, nil
}

// DeleteTask soft-deletes the task. Completion state and granted experience are
// left untouched; deleting twice is reported as StatusAlreadyDeleted.
func (s *Service) DeleteTask(ctx context.Context, id string) (*DeleteResult, error) {
	t, err := s.store.SoftDeleteTask(ctx, id)
	if errors.Is(err, apperrors.ErrAlreadyDeleted) {
		cur, gerr := s.store.GetTask(ctx, id)
		if gerr != nil {
			return nil, translate("get task", gerr)
		}
		res := &DeleteResult{Status: StatusAlreadyDeleted}
		if cur != nil {
			res.Task = *cur
		}
		return res, nil
	}
	if err != nil {
		return nil, translate("delete task", err)
	}
	return &DeleteResult{Status: StatusDeleted, Task: *t}, nil
}

// SetAnimalExperience sets a companion's experience directly. A negative value
// fails with ErrInvalidArgument in debug mode and is clamped to zero otherwise.
func (s *Service) SetAnimalExperience(ctx context.Context, animalID string, exp int) (*storage.Animal, error) {
	if exp < 0 {
		if s.debug {
			return nil, fmt.Errorf("set experience %d: %w", exp, apperrors.ErrInvalidArgument)
		}
		s.logger.Warn("clamping negative experience", zap.String("animal", animalID), zap.Int("experience", exp))
		exp = 0
	}
	a, err := s.store.UpdateAnimalExperience(ctx, animalID, exp)
	if err != nil {
		return nil, translate("update experience", err)
	}
	return a, nil
}

type ListOptions struct {
	Companion        catalog.CompanionType
	IncludeCompleted bool
	IncludeDeleted   bool
}

// ListTasks lists the owner's tasks. Filtering by a companion that is not owned
// yields no tasks.
func (s *Service) ListTasks(ctx context.Context, opts ListOptions) ([]storage.Task, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	f := storage.TaskFilter{IncludeCompleted: opts.IncludeCompleted, IncludeDeleted: opts.IncludeDeleted}
	if opts.Companion != "" {
		if _, err := parseCompanion(opts.Companion); err != nil {
			return nil, err
		}
		a, err := s.ownedAnimal(ctx, opts.Companion)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, nil
		}
		f.AnimalID = &a.ID
	}
	tasks, err := s.store.ListTasks(ctx, owner, f)
	if err != nil {
		return nil, translate("list tasks", err)
	}
	return tasks, nil
}

type TaskStats struct {
	Total     int
	Completed int
	Pending   int
	Deleted   int
}

// TaskStats counts every task ever created, deleted ones included.
func (s *Service) TaskStats(ctx context.Context) (TaskStats, error) {
	tasks, err := s.ListTasks(ctx, ListOptions{IncludeCompleted: true, IncludeDeleted: true})
	if err != nil {
		return TaskStats{}, err
	}
	st := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			st.Completed++
		}
		if t.IsDeleted {
			st.Deleted++
		}
		if !t.IsCompleted && !t.IsDeleted {
			st.Pending++
		}
	}
	return st, nil
}

type CompanionProgress struct {
	Animal storage.Animal
	Def    catalog.CompanionDef
	Growth growth.State
}

// GrowthOverview reports the growth state of every owned companion.
func (s *Service) GrowthOverview(ctx context.Context) ([]CompanionProgress, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	animals, err := s.store.ListAnimals(ctx, owner)
	if err != nil {
		return nil, translate("list animals", err)
	}
	out := make([]CompanionProgress, 0, len(animals))
	for _, a := range animals {
		def, _ := catalog.Companion(a.Type)
		out = append(out, CompanionProgress{Animal: a, Def: def, Growth: growth.Clamped(a.ExperiencePoints)})
	}
	return out, nil
}
