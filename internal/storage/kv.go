package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"zootopia/internal/catalog"
)

const (
	keyOwnerID      = "owner_id"
	keyUnlocked     = "unlocked_animals"
	keyRewardsShown = "shown_reward_cards"
	keyAPIConfig    = "api_config"
)

// KV is process-local key-value state kept in the local SQLite file. Both store
// variants use it for the unlock set, the shown-reward set, the owner id and the
// API config cache.
type KV struct {
	db *sql.DB
	// mu guards read-modify-write of the JSON set values.
	mu sync.Mutex
}

func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	row := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	_, err := k.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// OwnerID returns the persisted owner id, generating one on first use.
func (k *KV) OwnerID(ctx context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	v, ok, err := k.Get(ctx, keyOwnerID)
	if err != nil {
		return "", err
	}
	if ok && v != "" {
		return v, nil
	}
	id := "user_" + uuid.NewString()
	if err := k.Set(ctx, keyOwnerID, id); err != nil {
		return "", err
	}
	return id, nil
}

func (k *KV) members(ctx context.Context, key string) ([]string, error) {
	v, ok, err := k.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, fmt.Errorf("kv decode %s: %w", key, err)
	}
	return out, nil
}

// addMember adds m to the JSON set under key and reports whether it was new.
func (k *KV) addMember(ctx context.Context, key, m string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	list, err := k.members(ctx, key)
	if err != nil {
		return false, err
	}
	if slices.Contains(list, m) {
		return false, nil
	}
	data, err := json.Marshal(append(list, m))
	if err != nil {
		return false, fmt.Errorf("kv encode %s: %w", key, err)
	}
	if err := k.Set(ctx, key, string(data)); err != nil {
		return false, err
	}
	return true, nil
}

func (k *KV) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	v, ok, err := k.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		return false, fmt.Errorf("kv decode %s: %w", key, err)
	}
	return true, nil
}

func (k *KV) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	return k.Set(ctx, key, string(data))
}

// localState implements the overlay part of Store on top of KV. The unlock set
// starts out as the catalog defaults.
type localState struct {
	kv *KV
}

func (s localState) OwnerID(ctx context.Context) (string, error) {
	return s.kv.OwnerID(ctx)
}

func (s localState) UnlockedCompanions(ctx context.Context) ([]catalog.CompanionType, error) {
	list, err := s.kv.members(ctx, keyUnlocked)
	if err != nil {
		return nil, err
	}
	out := catalog.DefaultUnlocked()
	for _, m := range list {
		t := catalog.CompanionType(m)
		if t.IsValid() && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s localState) MarkUnlocked(ctx context.Context, t catalog.CompanionType) (bool, error) {
	return s.kv.addMember(ctx, keyUnlocked, string(t))
}

func (s localState) RewardShown(ctx context.Context, t catalog.CompanionType) (bool, error) {
	list, err := s.kv.members(ctx, keyRewardsShown)
	if err != nil {
		return false, err
	}
	return slices.Contains(list, string(t)), nil
}

func (s localState) MarkRewardShown(ctx context.Context, t catalog.CompanionType) (bool, error) {
	return s.kv.addMember(ctx, keyRewardsShown, string(t))
}

// cachedAPIConfig reads the locally cached API config; nil when absent.
func (s localState) cachedAPIConfig(ctx context.Context) (*APIConfig, error) {
	var c APIConfig
	ok, err := s.kv.getJSON(ctx, keyAPIConfig, &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (s localState) cacheAPIConfig(ctx context.Context, c APIConfig) error {
	return s.kv.setJSON(ctx, keyAPIConfig, c)
}
