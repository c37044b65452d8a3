package doorloop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/phone"
	"github.com/doorstep-labs/proptext/internal/storage"
)

// Counts reports how many records each entity sync wrote.
type Counts struct {
	Properties int `json:"properties"`
	Units      int `json:"units"`
	Leases     int `json:"leases"`
	Tasks      int `json:"tasks"`
	Tenants    int `json:"tenants"`
	Owners     int `json:"owners"`
	Vendors    int `json:"vendors"`
}

type Syncer struct {
	client *Client
	store  storage.Storage
	logger *zap.Logger
}

func NewSyncer(client *Client, store storage.Storage, logger *zap.Logger) *Syncer {
	return &Syncer{
		client: client,
		store:  store,
		logger: logger,
	}
}

// SyncAll pulls every entity type. Properties and units come first so
// leases and tasks always reference rows that exist.
func (s *Syncer) SyncAll(ctx context.Context) (Counts, error) {
	var counts Counts
	var err error

	if counts.Properties, err = s.syncProperties(ctx); err != nil {
		return counts, err
	}
	if counts.Units, err = s.syncUnits(ctx); err != nil {
		return counts, err
	}
	if counts.Leases, err = s.syncLeases(ctx); err != nil {
		return counts, err
	}
	if counts.Tasks, err = s.syncTasks(ctx); err != nil {
		return counts, err
	}
	if counts.Tenants, err = s.syncPeople(ctx, "/tenants", models.CallerTenant); err != nil {
		return counts, err
	}
	if counts.Owners, err = s.syncPeople(ctx, "/owners", models.CallerOwner); err != nil {
		return counts, err
	}
	if counts.Vendors, err = s.syncPeople(ctx, "/vendors", models.CallerVendor); err != nil {
		return counts, err
	}

	s.logger.Info("DoorLoop sync complete",
		zap.Int("properties", counts.Properties),
		zap.Int("units", counts.Units),
		zap.Int("leases", counts.Leases),
		zap.Int("tasks", counts.Tasks),
		zap.Int("tenants", counts.Tenants),
		zap.Int("owners", counts.Owners),
		zap.Int("vendors", counts.Vendors))

	return counts, nil
}

func (s *Syncer) syncProperties(ctx context.Context) (int, error) {
	raws, err := s.client.fetchAll(ctx, "/properties")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range raws {
		var rec propertyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return count, fmt.Errorf("failed to decode property: %w", err)
		}

		p := &models.Property{
			ID:                 rec.ID,
			Name:               rec.Name,
			Street1:            rec.Address.Street1,
			Street2:            rec.Address.Street2,
			City:               rec.Address.City,
			State:              rec.Address.State,
			Zip:                rec.Address.Zip,
			Type:               rec.Type,
			Description:        rec.Description,
			Amenities:          rec.Amenities,
			PetPolicySmallDogs: rec.PetsPolicy.SmallDogs.Restrictions,
			PetPolicyLargeDogs: rec.PetsPolicy.LargeDogs.Restrictions,
			PetPolicyCats:      rec.PetsPolicy.Cats.Restrictions,
			Active:             rec.Active == nil || *rec.Active,
			RawData:            raw,
		}
		if err := s.store.UpsertProperty(ctx, p); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (s *Syncer) syncUnits(ctx context.Context) (int, error) {
	raws, err := s.client.fetchAll(ctx, "/units")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range raws {
		var rec unitRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return count, fmt.Errorf("failed to decode unit: %w", err)
		}
		if rec.Property == "" {
			// Orphan unit, nothing to attach it to.
			continue
		}

		u := &models.Unit{
			ID:          rec.ID,
			PropertyID:  rec.Property,
			Name:        rec.Name,
			Beds:        rec.Beds,
			Baths:       rec.Baths,
			Size:        rec.Size,
			MarketRent:  rec.MarketRent,
			Description: rec.Description,
			Amenities:   rec.Amenities,
			Active:      rec.Active == nil || *rec.Active,
			RawData:     raw,
		}
		if err := s.store.UpsertUnit(ctx, u); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (s *Syncer) syncLeases(ctx context.Context) (int, error) {
	raws, err := s.client.fetchAll(ctx, "/leases")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range raws {
		var rec leaseRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return count, fmt.Errorf("failed to decode lease: %w", err)
		}

		l := &models.Lease{
			ID:          rec.ID,
			PropertyID:  rec.Property,
			Status:      rec.Status,
			StartDate:   parseDate(rec.Start),
			EndDate:     parseDate(rec.End),
			MonthlyRent: rec.TotalRent,
			Deposit:     rec.TotalDeposit,
		}
		if len(rec.Tenants) > 0 {
			l.TenantID = rec.Tenants[0]
		}
		if len(rec.Units) > 0 {
			l.UnitID = rec.Units[0]
		}
		if err := s.store.UpsertLease(ctx, l); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (s *Syncer) syncTasks(ctx context.Context) (int, error) {
	raws, err := s.client.fetchAll(ctx, "/tasks")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range raws {
		var rec taskRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return count, fmt.Errorf("failed to decode task: %w", err)
		}

		t := &models.Task{
			ID:          rec.ID,
			TenantID:    rec.Tenant,
			PropertyID:  rec.Property,
			UnitID:      rec.Unit,
			Assignee:    rec.Assignee,
			Title:       rec.Subject,
			Description: rec.Description,
			Status:      rec.Status,
			Priority:    rec.Priority,
			CreatedAt:   parseTimestamp(rec.CreatedAt),
			UpdatedAt:   parseTimestamp(rec.UpdatedAt),
		}
		if err := s.store.UpsertTask(ctx, t); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (s *Syncer) syncPeople(ctx context.Context, endpoint string, role models.CallerType) (int, error) {
	raws, err := s.client.fetchAll(ctx, endpoint)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range raws {
		var rec personRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return count, fmt.Errorf("failed to decode person from %s: %w", endpoint, err)
		}

		p := &models.Person{
			ID:        rec.ID,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Role:      role,
			Notes:     rec.Notes,
			RawData:   raw,
		}
		// Phones are normalized at write time so webhook lookups match
		// regardless of how the platform formatted them.
		for _, ph := range rec.Phones {
			normalized := phone.Normalize(ph.Number)
			if ph.Type == "mobile" && p.MobilePhone == "" {
				p.MobilePhone = normalized
			} else if p.PrimaryPhone == "" {
				p.PrimaryPhone = normalized
			}
		}
		if len(rec.Emails) > 0 {
			p.Email = rec.Emails[0].Address
		}
		if err := s.store.UpsertPerson(ctx, p); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	if t := parseDate(s); t != nil {
		return *t
	}
	return time.Time{}
}
