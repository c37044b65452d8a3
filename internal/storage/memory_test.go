package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doorstep-labs/proptext/internal/models"
)

func TestMemoryGetOpenTasksByTenant_SkipsTerminalStatuses(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	statuses := []string{"open", "In Progress", "Completed", "CLOSED", "cancelled"}
	for i, status := range statuses {
		require.NoError(t, store.UpsertTask(ctx, &models.Task{
			ID: fmt.Sprintf("task-%d", i), TenantID: "t-1",
			Title: status, Status: status,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	tasks, err := store.GetOpenTasksByTenant(ctx, "t-1", 10)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.NotContains(t, models.TerminalTaskStatuses, task.Status)
	}
}

func TestMemoryListActiveProperties_CapAppliedAfterUnitFilter(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	// 16 active properties; only the alphabetically last one has a matching
	// unit. The cap must not cut it off before the unit filter runs.
	for i := 0; i < 16; i++ {
		id := fmt.Sprintf("p-%02d", i)
		require.NoError(t, store.UpsertProperty(ctx, &models.Property{
			ID: id, Name: "Property " + id, City: "Springfield", Active: true,
		}))
	}
	require.NoError(t, store.UpsertUnit(ctx, &models.Unit{
		ID: "u-last", PropertyID: "p-15", Name: "1A", Beds: 2, MarketRent: 1200, Active: true,
	}))

	props, err := store.ListActiveProperties(ctx, ListingFilter{
		City: "Springfield", Beds: 2, MaxRent: 1500, Limit: 15,
	})

	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "p-15", props[0].ID)
}
