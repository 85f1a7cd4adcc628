//go:build integration

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
)

var (
	pgURL     string
	pgURLErr  error
	pgURLOnce sync.Once
)

// postgresURL starts one PostgreSQL container for the whole run.
func postgresURL(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode (requires Docker)")
	}
	pgURLOnce.Do(func() {
		ctx := context.Background()
		req := testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "zoo",
				"POSTGRES_USER":     "zoo",
				"POSTGRES_PASSWORD": "zoo",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		}
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			pgURLErr = fmt.Errorf("start postgres: %w", err)
			return
		}
		host, err := c.Host(ctx)
		if err != nil {
			pgURLErr = err
			return
		}
		port, err := c.MappedPort(ctx, "5432")
		if err != nil {
			pgURLErr = err
			return
		}
		pgURL = fmt.Sprintf("postgres://zoo:zoo@%s:%s/zoo?sslmode=disable", host, port.Port())
	})
	if pgURLErr != nil {
		t.Fatalf("postgres container: %v", pgURLErr)
	}
	return pgURL
}

func newTestRemoteStore(t *testing.T) *RemoteStore {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Options{
		LocalPath: filepath.Join(t.TempDir(), "zoo.db"),
		Remote:    RemoteConfig{URL: postgresURL(t), MaxConnections: 8},
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	rs, ok := s.(*RemoteStore)
	require.True(t, ok, "expected remote backend, got %s", s.Backend())
	return rs
}

func TestRemoteStoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return newTestRemoteStore(t) })
}

func TestRemoteStoreConcurrentCompletion(t *testing.T) {
	ctx := context.Background()
	s := newTestRemoteStore(t)
	owner := uniqueOwner(t)

	a, err := s.CreateAnimal(ctx, AnimalInsert{OwnerID: owner, Type: catalog.CompanionPenguin, Name: "小企鹅", GardenZone: catalog.ZoneEmotional})
	require.NoError(t, err)
	tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &a.ID, Title: "听音乐", GardenZone: catalog.ZoneEmotional})
	require.NoError(t, err)

	var wins atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := s.CompleteTask(ctx, tk.ID)
			if err == nil {
				wins.Add(1)
				return nil
			}
			if errors.Is(err, apperrors.ErrAlreadyCompleted) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, wins.Load())

	got, err := s.GetAnimal(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTaskReward, got.ExperiencePoints)
}

func TestRemoteStoreSaveAPIConfigPartialFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestRemoteStore(t)
	owner := uniqueOwner(t)

	// Closing the pool makes the remote write fail while the local cache still works.
	s.pool.Close()
	c := APIConfig{EndpointURL: "https://api.example.com/v1", APIKey: "k", ModelName: "m"}
	err := s.SaveAPIConfig(ctx, owner, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPartialFailure)

	got, err := s.GetAPIConfig(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c, *got)

	_, err = s.ListAnimals(ctx, owner)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}
