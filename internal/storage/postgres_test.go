package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doorstep-labs/proptext/internal/models"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStorage) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, NewPostgresStorageWithDB(db)
}

func TestGetPersonByPhone_Match(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	synced := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "primary_phone", "mobile_phone",
		"email", "role", "notes", "raw_data", "synced_at",
	}).AddRow("t-1", "Jordan", "Reyes", "+15551234567", "", "jordan@example.com", "tenant", "", nil, synced)

	mock.ExpectQuery(`FROM people`).
		WithArgs("5551234567").
		WillReturnRows(rows)

	person, err := store.GetPersonByPhone(context.Background(), "5551234567")

	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, "t-1", person.ID)
	assert.Equal(t, models.CallerTenant, person.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPersonByPhone_NoMatchReturnsNil(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM people`).
		WithArgs("0000000000").
		WillReturnError(sql.ErrNoRows)

	person, err := store.GetPersonByPhone(context.Background(), "0000000000")

	require.NoError(t, err)
	assert.Nil(t, person)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveLease_PicksMostRecent(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "property_id", "unit_id", "status",
		"start_date", "end_date", "monthly_rent", "deposit",
	}).AddRow("l-1", "t-1", "p-1", "u-1", "active", start, nil, 1450.0, 1450.0)

	mock.ExpectQuery(`FROM leases`).
		WithArgs("t-1").
		WillReturnRows(rows)

	lease, err := store.GetActiveLease(context.Background(), "t-1")

	require.NoError(t, err)
	require.NotNil(t, lease)
	assert.Equal(t, "l-1", lease.ID)
	require.NotNil(t, lease.StartDate)
	assert.True(t, lease.StartDate.Equal(start))
	assert.Nil(t, lease.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOpenTasksByTenant(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "property_id", "unit_id", "assignee",
		"title", "description", "status", "priority", "created_at", "updated_at",
	}).
		AddRow("task-2", "t-1", "p-1", "u-1", "", "Broken heater", "", "open", "high", now, now).
		AddRow("task-1", "t-1", "p-1", "u-1", "", "Leaky faucet", "", "in progress", "low", now.Add(-time.Hour), now)

	mock.ExpectQuery(`FROM tasks`).
		WithArgs("t-1", 5).
		WillReturnRows(rows)

	tasks, err := store.GetOpenTasksByTenant(context.Background(), "t-1", 5)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Broken heater", tasks[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMessageStatus_GuardsTransition(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE messages`).
		WithArgs(models.StatusApproved, "m-1", models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SetMessageStatus(context.Background(), "m-1", models.StatusPending, models.StatusApproved)
	require.NoError(t, err)

	// A second approval finds the row no longer pending.
	mock.ExpectExec(`UPDATE messages`).
		WithArgs(models.StatusApproved, "m-1", models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.SetMessageStatus(context.Background(), "m-1", models.StatusPending, models.StatusApproved)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in status")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveProperties_AttachesFilteredUnits(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	synced := time.Now()
	propRows := sqlmock.NewRows([]string{
		"id", "name", "street1", "street2", "city", "state", "zip", "type", "description", "amenities",
		"pet_policy_small_dogs", "pet_policy_large_dogs", "pet_policy_cats", "active", "synced_at",
	}).
		AddRow("p-1", "Aspen Row", "1 Aspen Way", "", "Springfield", "OR", "97477", "residential", "", pq.Array([]string{"pool"}), "", "", "", true, synced).
		AddRow("p-2", "Birch Landing", "2 Birch Ct", "", "Springfield", "OR", "97477", "residential", "", pq.Array([]string{}), "", "", "", true, synced)

	mock.ExpectQuery(`FROM properties`).
		WithArgs("Springfield").
		WillReturnRows(propRows)

	unitRows := sqlmock.NewRows([]string{
		"id", "property_id", "name", "beds", "baths", "size", "market_rent",
		"description", "amenities", "active",
	}).AddRow("u-1", "p-1", "1A", 2.0, 1.0, 850, 1200.0, "", pq.Array([]string{}), true)

	mock.ExpectQuery(`FROM units`).
		WithArgs(pq.Array([]string{"p-1", "p-2"}), 2, 1500.0).
		WillReturnRows(unitRows)

	props, err := store.ListActiveProperties(context.Background(), ListingFilter{
		City: "Springfield", Beds: 2, MaxRent: 1500, Limit: 15,
	})

	require.NoError(t, err)
	// Birch Landing has no unit under the ceiling, so it drops out.
	require.Len(t, props, 1)
	assert.Equal(t, "Aspen Row", props[0].Name)
	require.Len(t, props[0].Units, 1)
	assert.Equal(t, "1A", props[0].Units[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveProperties_CapAppliedAfterUnitFilter(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	// 16 active properties, and only the alphabetically last one has a unit
	// matching the filter. The cap must not cut it off before the unit
	// filter runs.
	synced := time.Now()
	propRows := sqlmock.NewRows([]string{
		"id", "name", "street1", "street2", "city", "state", "zip", "type", "description", "amenities",
		"pet_policy_small_dogs", "pet_policy_large_dogs", "pet_policy_cats", "active", "synced_at",
	})
	ids := make([]string, 16)
	for i := 0; i < 16; i++ {
		ids[i] = fmt.Sprintf("p-%02d", i)
		propRows.AddRow(ids[i], "Property "+ids[i], "", "", "Springfield", "OR", "97477",
			"residential", "", pq.Array([]string{}), "", "", "", true, synced)
	}

	// Unit-filtered queries carry no LIMIT; the city is the only argument.
	mock.ExpectQuery(`FROM properties`).
		WithArgs("Springfield").
		WillReturnRows(propRows)

	unitRows := sqlmock.NewRows([]string{
		"id", "property_id", "name", "beds", "baths", "size", "market_rent",
		"description", "amenities", "active",
	}).AddRow("u-last", "p-15", "1A", 2.0, 1.0, 850, 1200.0, "", pq.Array([]string{}), true)

	mock.ExpectQuery(`FROM units`).
		WithArgs(pq.Array(ids), 2, 1500.0).
		WillReturnRows(unitRows)

	props, err := store.ListActiveProperties(context.Background(), ListingFilter{
		City: "Springfield", Beds: 2, MaxRent: 1500, Limit: 15,
	})

	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "p-15", props[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveCities(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"city"}).
		AddRow("Portland").
		AddRow("Springfield")

	mock.ExpectQuery(`SELECT DISTINCT city`).WillReturnRows(rows)

	cities, err := store.ListActiveCities(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Portland", "Springfield"}, cities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMessagesByPhone_AscendingWindow(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "from_phone", "to_phone", "incoming_message", "ai_reply",
		"status", "caller_type", "caller_name", "created_at", "updated_at",
	}).
		AddRow("m-1", "+15551234567", "+15550000000", "hi", "hello!", "sent", "prospect", "", now.Add(-time.Hour), now).
		AddRow("m-2", "+15551234567", "+15550000000", "still there?", "yes!", "sent", "prospect", "", now, now)

	mock.ExpectQuery(`FROM \(`).
		WithArgs("+15551234567", 50).
		WillReturnRows(rows)

	msgs, err := store.GetMessagesByPhone(context.Background(), "+15551234567", 50)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
