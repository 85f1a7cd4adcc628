package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
)

// runStoreContract checks the behaviour both backends must share. newStore must
// return an empty store; owner ids are unique per subtest so a shared remote
// database does not leak state between cases.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("animal derived fields follow experience", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		a, err := s.CreateAnimal(ctx, AnimalInsert{OwnerID: owner, Type: catalog.CompanionCat, Name: "小猫咪", GardenZone: catalog.ZoneSelfCare})
		require.NoError(t, err)
		assert.Equal(t, 0, a.ExperiencePoints)
		assert.Equal(t, 1, a.GrowthTier)
		assert.Equal(t, 0, a.AffectionLevel)

		up, err := s.UpdateAnimalExperience(ctx, a.ID, 150)
		require.NoError(t, err)
		assert.Equal(t, 150, up.ExperiencePoints)
		assert.Equal(t, 2, up.GrowthTier)
		assert.Equal(t, 25, up.AffectionLevel)

		got, err := s.GetAnimal(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.GrowthTier)
		assert.Equal(t, 25, got.AffectionLevel)

		_, err = s.UpdateAnimalExperience(ctx, a.ID, -1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		_, err = s.UpdateAnimalExperience(ctx, a.ID, 100)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		_, err = s.UpdateAnimalExperience(ctx, "missing", 10)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("one animal per type", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		in := AnimalInsert{OwnerID: owner, Type: catalog.CompanionFox, Name: "小狐狸", GardenZone: catalog.ZoneCreative}
		_, err := s.CreateAnimal(ctx, in)
		require.NoError(t, err)
		_, err = s.CreateAnimal(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		list, err := s.ListAnimals(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("missing rows read as nil", func(t *testing.T) {
		s := newStore(t)
		a, err := s.GetAnimal(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, a)
		tk, err := s.GetTask(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, tk)
		m, err := s.GetMoodRecord(ctx, uniqueOwner(t), "2024-01-01")
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("task validation and default reward", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		_, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, GardenZone: catalog.ZoneRest})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = s.CreateTask(ctx, TaskInsert{OwnerID: owner, Title: "nap", GardenZone: "garage"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, Title: "午睡", GardenZone: catalog.ZoneRest})
		require.NoError(t, err)
		assert.Equal(t, DefaultTaskReward, tk.ExperienceReward)
		assert.Nil(t, tk.AnimalID)
		assert.False(t, tk.IsCompleted)
		assert.Nil(t, tk.CompletedAt)
	})

	t.Run("task animal must belong to owner", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		missing := "no-such-animal"
		_, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &missing, Title: "喝水", GardenZone: catalog.ZoneSelfCare})
		var verr apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "animal", verr.Field)

		other, err := s.CreateAnimal(ctx, AnimalInsert{OwnerID: uniqueOwner(t), Type: catalog.CompanionCat, Name: "小猫咪", GardenZone: catalog.ZoneSelfCare})
		require.NoError(t, err)
		_, err = s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &other.ID, Title: "喝水", GardenZone: catalog.ZoneSelfCare})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		tasks, err := s.ListTasks(ctx, owner, TaskFilter{IncludeCompleted: true, IncludeDeleted: true})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("readers never see half a completion", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		a, err := s.CreateAnimal(ctx, AnimalInsert{OwnerID: owner, Type: catalog.CompanionParrot, Name: "小鹦鹉", GardenZone: catalog.ZoneSocial})
		require.NoError(t, err)
		const reward, n = 15, 8
		var ids []string
		for i := 0; i < n; i++ {
			tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &a.ID, Title: "给朋友打电话", GardenZone: catalog.ZoneSocial, ExperienceReward: reward})
			require.NoError(t, err)
			ids = append(ids, tk.ID)
		}

		done := make(chan struct{})
		var writers, readers errgroup.Group
		for _, id := range ids {
			writers.Go(func() error {
				_, err := s.CompleteTask(ctx, id)
				return err
			})
		}
		for r := 0; r < 4; r++ {
			readers.Go(func() error {
				for {
					select {
					case <-done:
						return nil
					default:
					}
					completed := 0
					for _, id := range ids {
						tk, err := s.GetTask(ctx, id)
						if err != nil {
							return err
						}
						if tk.IsCompleted {
							completed++
						}
					}
					got, err := s.GetAnimal(ctx, a.ID)
					if err != nil {
						return err
					}
					if got.ExperiencePoints < completed*reward {
						return fmt.Errorf("saw %d completed tasks but only %d experience", completed, got.ExperiencePoints)
					}
				}
			})
		}
		require.NoError(t, writers.Wait())
		close(done)
		require.NoError(t, readers.Wait())

		got, err := s.GetAnimal(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, n*reward, got.ExperiencePoints)
	})

	t.Run("complete applies reward atomically", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		a, err := s.CreateAnimal(ctx, AnimalInsert{OwnerID: owner, Type: catalog.CompanionDeer, Name: "小鹿", GardenZone: catalog.ZonePhysical})
		require.NoError(t, err)
		_, err = s.UpdateAnimalExperience(ctx, a.ID, 95)
		require.NoError(t, err)

		tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &a.ID, Title: "散步", GardenZone: catalog.ZonePhysical, ExperienceReward: 15})
		require.NoError(t, err)

		c, err := s.CompleteTask(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, c.Task.IsCompleted)
		require.NotNil(t, c.Task.CompletedAt)
		require.NotNil(t, c.Animal)
		assert.Equal(t, 110, c.Animal.ExperiencePoints)
		assert.Equal(t, 15, c.XPAwarded)
		assert.Equal(t, 1, c.TierBefore)
		assert.Equal(t, 2, c.TierAfter)

		gotTask, err := s.GetTask(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, gotTask.IsCompleted)
		gotAnimal, err := s.GetAnimal(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 110, gotAnimal.ExperiencePoints)

		_, err = s.CompleteTask(ctx, tk.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)
		gotAnimal, err = s.GetAnimal(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 110, gotAnimal.ExperiencePoints)

		_, err = s.CompleteTask(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unassigned task completes without animal", func(t *testing.T) {
		s := newStore(t)
		tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: uniqueOwner(t), Title: "整理书桌", GardenZone: catalog.ZoneOrganization})
		require.NoError(t, err)
		c, err := s.CompleteTask(ctx, tk.ID)
		require.NoError(t, err)
		assert.Nil(t, c.Animal)
		assert.Equal(t, 0, c.XPAwarded)
	})

	t.Run("soft delete keeps completion", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, Title: "喝水", GardenZone: catalog.ZoneSelfCare})
		require.NoError(t, err)
		_, err = s.CompleteTask(ctx, tk.ID)
		require.NoError(t, err)

		del, err := s.SoftDeleteTask(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, del.IsDeleted)
		assert.True(t, del.IsCompleted)
		require.NotNil(t, del.DeletedAt)

		_, err = s.SoftDeleteTask(ctx, tk.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyDeleted)

		got, err := s.GetTask(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
		assert.True(t, got.IsDeleted)
		require.NotNil(t, got.CompletedAt)

		_, err = s.SoftDeleteTask(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("deleted open task can still be completed", func(t *testing.T) {
		s := newStore(t)
		tk, err := s.CreateTask(ctx, TaskInsert{OwnerID: uniqueOwner(t), Title: "写日记", GardenZone: catalog.ZoneEmotional})
		require.NoError(t, err)
		_, err = s.SoftDeleteTask(ctx, tk.ID)
		require.NoError(t, err)
		c, err := s.CompleteTask(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, c.Task.IsDeleted)
		assert.True(t, c.Task.IsCompleted)
	})

	t.Run("list filter", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		a, err := s.CreateAnimal(ctx, AnimalInsert{OwnerID: owner, Type: catalog.CompanionParrot, Name: "小鹦鹉", GardenZone: catalog.ZoneSocial})
		require.NoError(t, err)

		open, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &a.ID, Title: "open", GardenZone: catalog.ZoneSocial})
		require.NoError(t, err)
		done, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, AnimalID: &a.ID, Title: "done", GardenZone: catalog.ZoneSocial})
		require.NoError(t, err)
		gone, err := s.CreateTask(ctx, TaskInsert{OwnerID: owner, Title: "gone", GardenZone: catalog.ZoneSocial})
		require.NoError(t, err)
		_, err = s.CompleteTask(ctx, done.ID)
		require.NoError(t, err)
		_, err = s.SoftDeleteTask(ctx, gone.ID)
		require.NoError(t, err)

		ids := func(ts []Task) []string {
			var out []string
			for _, t := range ts {
				out = append(out, t.ID)
			}
			return out
		}

		got, err := s.ListTasks(ctx, owner, TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{open.ID}, ids(got))

		got, err = s.ListTasks(ctx, owner, TaskFilter{IncludeCompleted: true})
		require.NoError(t, err)
		assert.Equal(t, []string{open.ID, done.ID}, ids(got))

		got, err = s.ListTasks(ctx, owner, TaskFilter{IncludeCompleted: true, IncludeDeleted: true})
		require.NoError(t, err)
		assert.Equal(t, []string{open.ID, done.ID, gone.ID}, ids(got))

		got, err = s.ListTasks(ctx, owner, TaskFilter{AnimalID: &a.ID, IncludeCompleted: true, IncludeDeleted: true})
		require.NoError(t, err)
		assert.Equal(t, []string{open.ID, done.ID}, ids(got))

		got, err = s.ListTasks(ctx, uniqueOwner(t), TaskFilter{IncludeDeleted: true})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("mood upsert is last write wins", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		date := DateKey(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

		_, err := s.UpsertMoodRecord(ctx, owner, date, catalog.MoodRainy)
		require.NoError(t, err)
		_, err = s.UpsertMoodRecord(ctx, owner, date, catalog.MoodSunny)
		require.NoError(t, err)

		got, err := s.GetMoodRecord(ctx, owner, date)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, catalog.MoodSunny, got.WeatherMood)
		assert.Equal(t, "2024-05-01", got.Date)

		_, err = s.UpsertMoodRecord(ctx, owner, "yesterday", catalog.MoodSunny)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = s.UpsertMoodRecord(ctx, owner, date, "foggy")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("chat history keeps the latest entries in order", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		animal := "animal-" + owner
		for _, msg := range []string{"one", "two", "three", "four"} {
			_, err := s.AppendChatEntry(ctx, ChatEntry{OwnerID: owner, AnimalID: animal, Sender: SenderUser, Message: msg})
			require.NoError(t, err)
		}
		_, err := s.AppendChatEntry(ctx, ChatEntry{OwnerID: owner, AnimalID: animal, Sender: "robot", Message: "x"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		got, err := s.ListChatHistory(ctx, animal, 3)
		require.NoError(t, err)
		var msgs []string
		for _, e := range got {
			msgs = append(msgs, e.Message)
		}
		assert.Equal(t, []string{"two", "three", "four"}, msgs)

		all, err := s.ListChatHistory(ctx, animal, 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("api config round trip", func(t *testing.T) {
		s := newStore(t)
		owner := uniqueOwner(t)
		got, err := s.GetAPIConfig(ctx, owner)
		require.NoError(t, err)
		assert.Nil(t, got)

		c := APIConfig{EndpointURL: "https://api.example.com/v1", APIKey: "sk-test", ModelName: "gpt-4o-mini"}
		require.NoError(t, s.SaveAPIConfig(ctx, owner, c))
		got, err = s.GetAPIConfig(ctx, owner)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, c, *got)
	})

	t.Run("unlock overlay", func(t *testing.T) {
		s := newStore(t)
		got, err := s.UnlockedCompanions(ctx)
		require.NoError(t, err)
		assert.Equal(t, catalog.DefaultUnlocked(), got)

		added, err := s.MarkUnlocked(ctx, catalog.CompanionSloth)
		require.NoError(t, err)
		assert.True(t, added)
		added, err = s.MarkUnlocked(ctx, catalog.CompanionSloth)
		require.NoError(t, err)
		assert.False(t, added)

		got, err = s.UnlockedCompanions(ctx)
		require.NoError(t, err)
		assert.Contains(t, got, catalog.CompanionSloth)

		shown, err := s.RewardShown(ctx, catalog.CompanionSloth)
		require.NoError(t, err)
		assert.False(t, shown)
		first, err := s.MarkRewardShown(ctx, catalog.CompanionSloth)
		require.NoError(t, err)
		assert.True(t, first)
		first, err = s.MarkRewardShown(ctx, catalog.CompanionSloth)
		require.NoError(t, err)
		assert.False(t, first)
	})
}

func uniqueOwner(t *testing.T) string {
	return "owner-" + t.Name() + "-" + time.Now().Format("150405.000000000")
}
