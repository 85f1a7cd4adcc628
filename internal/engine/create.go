package engine

import (
	"context"
	"fmt"
	"strings"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/storage"
)

const (
	UserTaskReward      = storage.DefaultTaskReward
	GeneratedTaskReward = 15
)

type CreateTaskInput struct {
	Title       string
	Zone        catalog.Zone
	Description string
}

// CreateUserTask stores a user-authored task worth the default reward. It is
// assigned to the first owned companion living in the same zone, if any.
func (s *Service) CreateUserTask(ctx context.Context, in CreateTaskInput) (*storage.Task, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Zone == "" {
		return nil, apperrors.ValidationError{Field: "zone", Reason: "is required"}
	}
	if !in.Zone.IsValid() {
		return nil, apperrors.ValidationError{Field: "zone", Reason: fmt.Sprintf("%q is not a garden zone", in.Zone)}
	}

	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	animals, err := s.store.ListAnimals(ctx, owner)
	if err != nil {
		return nil, translate("list animals", err)
	}
	var animalID *string
	for _, a := range animals {
		if a.GardenZone == in.Zone {
			id := a.ID
			animalID = &id
			break
		}
	}

	return s.insertTask(ctx, storage.TaskInsert{
		OwnerID:          owner,
		AnimalID:         animalID,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		GardenZone:       in.Zone,
		ExperienceReward: UserTaskReward,
	})
}

// GenerateRandomTask rolls a template from the companion's zone for an owned
// companion.
func (s *Service) GenerateRandomTask(ctx context.Context, t catalog.CompanionType) (*storage.Task, error) {
	def, err := parseCompanion(t)
	if err != nil {
		return nil, err
	}
	a, err := s.ownedAnimal(ctx, def.Type)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NotOwnedError{Companion: def.Type}
	}

	return s.insertTask(ctx, storage.TaskInsert{
		OwnerID:          a.OwnerID,
		AnimalID:         &a.ID,
		Title:            catalog.RandomTaskTemplate(def.Zone, s.rnd),
		Description:      fmt.Sprintf("为%s生成的自我关怀任务", def.Name),
		GardenZone:       def.Zone,
		ExperienceReward: GeneratedTaskReward,
	})
}

// CreateTaskFromSuggestion turns a chat suggestion into a task for companion t.
// The task stays unassigned when t is not owned.
func (s *Service) CreateTaskFromSuggestion(ctx context.Context, suggestion string, t catalog.CompanionType) (*storage.Task, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return nil, apperrors.ValidationError{Field: "suggestion", Reason: "is required"}
	}
	def, err := parseCompanion(t)
	if err != nil {
		return nil, err
	}
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.ownedAnimal(ctx, def.Type)
	if err != nil {
		return nil, err
	}
	var animalID *string
	if a != nil {
		animalID = &a.ID
	}

	title, zone := ExtractSuggestedTask(suggestion)
	return s.insertTask(ctx, storage.TaskInsert{
		OwnerID:          owner,
		AnimalID:         animalID,
		Title:            title,
		Description:      suggestion,
		GardenZone:       zone,
		ExperienceReward: GeneratedTaskReward,
	})
}

func (s *Service) insertTask(ctx context.Context, in storage.TaskInsert) (*storage.Task, error) {
	t, err := s.store.CreateTask(ctx, in)
	if err != nil {
		return nil, translate("create task", err)
	}
	return t, nil
}

// ExtractSuggestedTask derives a task title and zone from suggestion text.
func ExtractSuggestedTask(suggestion string) (string, catalog.Zone) {
	zone := catalog.DefaultZone
	for _, zk := range suggestionZones {
		if containsAny(suggestion, zk.keywords) {
			zone = zk.zone
			break
		}
	}

	for _, st := range suggestionTitles {
		if containsAny(suggestion, st.keywords) {
			return st.title, zone
		}
	}
	r := []rune(suggestion)
	if len(r) > 20 {
		return string(r[:20]) + "...", zone
	}
	return suggestion, zone
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
