package engine

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"zootopia/internal/catalog"
	"zootopia/internal/storage"
)

type UnlockStatus string

const (
	UnlockNew     UnlockStatus = "newly_unlocked"
	UnlockAlready UnlockStatus = "already_unlocked"
)

type UnlockResult struct {
	Status UnlockStatus
	Animal storage.Animal
	// RewardPending is set when the reward card for this companion has never
	// been claimed; ClaimReward hands it out once.
	RewardPending bool
}

// Bootstrap resolves the owner and, for an owner without companions, creates the
// default companions plus any already in the local unlock set.
func (s *Service) Bootstrap(ctx context.Context) ([]storage.Animal, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	animals, err := s.store.ListAnimals(ctx, owner)
	if err != nil {
		return nil, translate("list animals", err)
	}
	if len(animals) > 0 {
		return animals, nil
	}

	unlocked, err := s.store.UnlockedCompanions(ctx)
	if err != nil {
		return nil, translate("unlocked companions", err)
	}
	for _, t := range unlocked {
		def, ok := catalog.Companion(t)
		if !ok {
			continue
		}
		a, err := s.createAnimal(ctx, owner, def)
		if err != nil {
			return nil, err
		}
		animals = append(animals, *a)
	}
	s.logger.Info("bootstrapped companions", zap.Int("count", len(animals)), zap.String("backend", string(s.store.Backend())))
	return animals, nil
}

func (s *Service) createAnimal(ctx context.Context, owner string, def catalog.CompanionDef) (*storage.Animal, error) {
	a, err := s.store.CreateAnimal(ctx, storage.AnimalInsert{
		OwnerID:     owner,
		Type:        def.Type,
		Name:        def.Name,
		Personality: def.Personality,
		GardenZone:  def.Zone,
	})
	if err != nil {
		return nil, translate("create animal", err)
	}
	return a, nil
}

// UnlockCompanion is idempotent: an owned companion reports UnlockAlready, a new
// one is created with zero experience at tier 1 and reports UnlockNew.
func (s *Service) UnlockCompanion(ctx context.Context, t catalog.CompanionType) (*UnlockResult, error) {
	def, err := parseCompanion(t)
	if err != nil {
		return nil, err
	}
	mu := s.unlockMu[def.Type]
	mu.Lock()
	defer mu.Unlock()

	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.ownedAnimal(ctx, def.Type)
	if err != nil {
		return nil, err
	}

	res := &UnlockResult{Status: UnlockAlready}
	if existing != nil {
		res.Animal = *existing
	} else {
		a, err := s.createAnimal(ctx, owner, def)
		if err != nil {
			return nil, err
		}
		res.Status = UnlockNew
		res.Animal = *a
	}

	if _, err := s.store.MarkUnlocked(ctx, def.Type); err != nil {
		return nil, translate("mark unlocked", err)
	}
	shown, err := s.store.RewardShown(ctx, def.Type)
	if err != nil {
		return nil, translate("reward shown", err)
	}
	res.RewardPending = res.Status == UnlockNew && !shown
	return res, nil
}

// ClaimReward returns the companion's reward card the first time it is claimed
// and false on every later call. A companion that is not owned yet has no card
// to claim and reports NotOwnedError, leaving the reward pending.
func (s *Service) ClaimReward(ctx context.Context, t catalog.CompanionType) (*catalog.RewardCard, bool, error) {
	def, err := parseCompanion(t)
	if err != nil {
		return nil, false, err
	}
	owned, err := s.ownedAnimal(ctx, def.Type)
	if err != nil {
		return nil, false, err
	}
	if owned == nil {
		return nil, false, NotOwnedError{Companion: def.Type}
	}
	first, err := s.store.MarkRewardShown(ctx, def.Type)
	if err != nil {
		return nil, false, translate("mark reward shown", err)
	}
	if !first {
		return nil, false, nil
	}
	card := def.Reward
	return &card, true, nil
}

// Companions lists every catalog companion with its unlock state.
func (s *Service) Companions(ctx context.Context) ([]CompanionEntry, error) {
	unlocked, err := s.store.UnlockedCompanions(ctx)
	if err != nil {
		return nil, translate("unlocked companions", err)
	}
	var out []CompanionEntry
	for _, def := range catalog.Companions() {
		out = append(out, CompanionEntry{Def: def, Unlocked: slices.Contains(unlocked, def.Type)})
	}
	return out, nil
}

type CompanionEntry struct {
	Def      catalog.CompanionDef
	Unlocked bool
}
