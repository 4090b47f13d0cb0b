package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	prefix := "contract-run-" + time.Now().Format("20060102150405")

	record := func(id string) *domain.RunRecord {
		started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		return &domain.RunRecord{
			ID:         id,
			MachineID:  "machine-1",
			StartedAt:  started,
			FinishedAt: started.Add(1500 * time.Millisecond),
			Duration:   1500 * time.Millisecond,
			Randomized: true,
			Seed:       1<<63 + 7,
			Ticks:      321,
			TotalTicks: 400,
			FinalState: domain.Accept,
			Position:   17,
			Halted:     true,
			Reason:     domain.StopHalted,
			NonBlank:   12,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-save"
		rec := record(id)

		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, rec.MachineID, loaded.MachineID)
		assert.True(t, rec.StartedAt.Equal(loaded.StartedAt))
		assert.True(t, rec.FinishedAt.Equal(loaded.FinishedAt))
		assert.Equal(t, rec.Duration, loaded.Duration)
		assert.Equal(t, rec.Seed, loaded.Seed, "seeds survive serialization without precision loss")
		assert.Equal(t, rec.Ticks, loaded.Ticks)
		assert.Equal(t, rec.FinalState, loaded.FinalState)
		assert.Equal(t, rec.Reason, loaded.Reason)
		assert.Equal(t, rec.NonBlank, loaded.NonBlank)

		_ = store.Delete(ctx, id)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		id := prefix + "-overwrite"
		rec := record(id)
		require.NoError(t, store.Save(ctx, rec))

		rec.Reason = domain.StopCancelled
		rec.Halted = false
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StopCancelled, loaded.Reason)
		assert.False(t, loaded.Halted)

		_ = store.Delete(ctx, id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-delete"
		require.NoError(t, store.Save(ctx, record(id)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete is idempotent")
	})

	t.Run("Reserved-Looking IDs", func(t *testing.T) {
		ids := []string{"index", prefix + "-neighbour"}
		for _, id := range ids {
			require.NoError(t, store.Save(ctx, record(id)), id)
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err, "an ID named like an internal key must not break listing")
		for _, id := range ids {
			assert.Contains(t, listed, id)
		}

		loaded, err := store.Load(ctx, "index")
		require.NoError(t, err)
		assert.Equal(t, "index", loaded.ID)
	})

	t.Run("List", func(t *testing.T) {
		var ids []string
		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("%s-list-%d", prefix, i)
			require.NoError(t, store.Save(ctx, record(id)))
			ids = append(ids, id)
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Contains(t, listed, id)
		}

		require.NoError(t, store.Delete(ctx, ids[0]))
		listed, err = store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, listed, ids[0])
	})
}
