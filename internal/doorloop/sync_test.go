package doorloop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/storage"
)

func page(records ...any) map[string]any {
	return map[string]any{"data": records, "total": len(records)}
}

func newSyncFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	fixtures := map[string]map[string]any{
		"/properties": page(map[string]any{
			"id":   "p-1",
			"name": "Aspen Row",
			"address": map[string]any{
				"street1": "1 Aspen Way", "city": "Springfield", "state": "OR", "zip": "97477",
			},
			"type":      "residential",
			"active":    true,
			"amenities": []string{"pool"},
			"petsPolicy": map[string]any{
				"cats": map[string]any{"restrictions": "allowed with deposit"},
			},
		}),
		"/units": page(
			map[string]any{
				"id": "u-1", "name": "1A", "property": "p-1",
				"beds": 2, "baths": 1, "size": 850, "marketRent": 1200, "active": true,
			},
			map[string]any{
				// No property link; skipped.
				"id": "u-orphan", "name": "??",
			},
		),
		"/leases": page(map[string]any{
			"id": "l-1", "property": "p-1", "units": []string{"u-1"},
			"tenants": []string{"t-1"}, "status": "active",
			"start": "2024-09-01", "end": "2025-08-31",
			"totalRecurringRent": 1200, "totalDepositsHeld": 1200,
		}),
		"/tasks": page(map[string]any{
			"id": "task-1", "subject": "Leaky faucet", "status": "open",
			"priority": "low", "property": "p-1", "unit": "u-1",
			"requestedByTenant": "t-1", "createdAt": "2025-05-01T12:00:00Z",
		}),
		"/tenants": page(map[string]any{
			"id": "t-1", "firstName": "Jordan", "lastName": "Reyes",
			"phones": []map[string]any{
				{"type": "mobile", "number": "(555) 123-4567"},
			},
			"emails": []map[string]any{{"address": "jordan@example.com"}},
		}),
		"/owners": page(map[string]any{
			"id": "o-1", "firstName": "Dana", "lastName": "Whitfield",
			"phones":     []map[string]any{{"type": "home", "number": "555-222-3333"}},
			"properties": []string{"p-1"},
		}),
		"/vendors": page(map[string]any{
			"id": "v-1", "firstName": "Sam", "lastName": "Okafor",
			"notes":  "Okafor Plumbing | emergencies",
			"phones": []map[string]any{{"type": "mobile", "number": "5554445555"}},
		}),
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fixture, ok := fixtures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "1", r.URL.Query().Get("page_number"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fixture)
	}))
}

func TestSyncAll(t *testing.T) {
	srv := newSyncFixtureServer(t)
	defer srv.Close()

	store := storage.NewMemoryStorage()
	client := NewClient(srv.URL, "test-key", zap.NewNop())
	syncer := NewSyncer(client, store, zap.NewNop())

	counts, err := syncer.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Counts{
		Properties: 1, Units: 1, Leases: 1, Tasks: 1,
		Tenants: 1, Owners: 1, Vendors: 1,
	}, counts)

	ctx := context.Background()

	// Phones are normalized at write time, so the webhook lookup key matches.
	person, err := store.GetPersonByPhone(ctx, "5551234567")
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, models.CallerTenant, person.Role)
	assert.Equal(t, "+15551234567", person.MobilePhone)
	assert.Equal(t, "jordan@example.com", person.Email)

	owner, err := store.GetPersonByPhone(ctx, "5552223333")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, models.CallerOwner, owner.Role)
	// The raw payload keeps the owned-property ids for identification.
	var payload struct {
		Properties []string `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(owner.RawData, &payload))
	assert.Equal(t, []string{"p-1"}, payload.Properties)

	lease, err := store.GetActiveLease(ctx, "t-1")
	require.NoError(t, err)
	require.NotNil(t, lease)
	assert.Equal(t, "u-1", lease.UnitID)
	require.NotNil(t, lease.StartDate)

	props, err := store.ListActiveProperties(ctx, storage.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Aspen Row", props[0].Name)
	assert.Equal(t, "allowed with deposit", props[0].PetPolicyCats)
	require.Len(t, props[0].Units, 1)

	tasks, err := store.GetOpenTasksByTenant(ctx, "t-1", 5)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Leaky faucet", tasks[0].Title)
}

func TestSyncAll_PropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := storage.NewMemoryStorage()
	syncer := NewSyncer(NewClient(srv.URL, "bad-key", zap.NewNop()), store, zap.NewNop())

	_, err := syncer.SyncAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
