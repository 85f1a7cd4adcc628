// Package engine is the progression coordinator: it drives the task lifecycle,
// companion unlocking, mood records and companion chat on top of a storage.Store.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/llm"
	"zootopia/internal/mood"
	"zootopia/internal/storage"
)

type Options struct {
	// OwnerID pins the owner; empty uses the id persisted by the store.
	OwnerID string
	// Debug turns growth contract violations into errors instead of clamping.
	Debug bool
	Rand  catalog.Rand
	Now   func() time.Time
	LLM   llm.Factory
	// DefaultAPIConfig is used for chat when nothing has been saved.
	DefaultAPIConfig *storage.APIConfig
	Logger           *zap.Logger
}

type Service struct {
	store    storage.Store
	llm      llm.Factory
	rnd      catalog.Rand
	reporter *mood.Reporter
	now      func() time.Time
	debug    bool
	seedAPI  *storage.APIConfig
	logger   *zap.Logger

	ownerMu sync.Mutex
	owner   string

	// unlockMu serializes unlocks per companion type; the set is fixed by the
	// catalog so the map is never written after construction.
	unlockMu map[catalog.CompanionType]*sync.Mutex
}

func NewService(store storage.Store, opts Options) *Service {
	if opts.Rand == nil {
		opts.Rand = catalog.SharedRand{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LLM == nil {
		opts.LLM = llm.NewClientFactory(opts.Logger)
	}

	locks := make(map[catalog.CompanionType]*sync.Mutex)
	for _, c := range catalog.Companions() {
		locks[c.Type] = &sync.Mutex{}
	}

	return &Service{
		store:    store,
		llm:      opts.LLM,
		rnd:      opts.Rand,
		reporter: mood.NewReporter(opts.Rand),
		now:      opts.Now,
		debug:    opts.Debug,
		seedAPI:  opts.DefaultAPIConfig,
		logger:   opts.Logger.Named("engine"),
		owner:    opts.OwnerID,
		unlockMu: locks,
	}
}

func (s *Service) Store() storage.Store { return s.store }

func (s *Service) Backend() storage.Backend { return s.store.Backend() }

// OwnerID returns the owner every operation is scoped to.
func (s *Service) OwnerID(ctx context.Context) (string, error) {
	s.ownerMu.Lock()
	defer s.ownerMu.Unlock()
	if s.owner != "" {
		return s.owner, nil
	}
	id, err := s.store.OwnerID(ctx)
	if err != nil {
		return "", translate("resolve owner", err)
	}
	s.owner = id
	return id, nil
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", apperrors.ValidationError{Field: "title", Reason: "is required"}
	}
	return t, nil
}

// ownedAnimal returns the owner's companion of type t, or nil when not owned.
func (s *Service) ownedAnimal(ctx context.Context, t catalog.CompanionType) (*storage.Animal, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	animals, err := s.store.ListAnimals(ctx, owner)
	if err != nil {
		return nil, translate("list animals", err)
	}
	for i := range animals {
		if animals[i].Type == t {
			return &animals[i], nil
		}
	}
	return nil, nil
}

func (s *Service) pick(lines []string) string {
	return lines[s.rnd.IntN(len(lines))]
}
