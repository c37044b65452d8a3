package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/doorstep-labs/proptext/internal/models"
)

// MemoryStorage is an in-memory Storage used for local development and
// tests. Ordering matches the Postgres implementation so the responder
// behaves the same against either.
type MemoryStorage struct {
	mu         sync.RWMutex
	people     map[string]*models.Person
	properties map[string]*models.Property
	units      map[string]*models.Unit
	leases     map[string]*models.Lease
	tasks      map[string]*models.Task
	messages   map[string]*models.Message
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		people:     make(map[string]*models.Person),
		properties: make(map[string]*models.Property),
		units:      make(map[string]*models.Unit),
		leases:     make(map[string]*models.Lease),
		tasks:      make(map[string]*models.Task),
		messages:   make(map[string]*models.Message),
	}
}

func (s *MemoryStorage) GetPersonByPhone(ctx context.Context, last10 string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if last10 == "" {
		return nil, nil
	}
	for _, p := range sortedValues(s.people) {
		if strings.Contains(p.PrimaryPhone, last10) || strings.Contains(p.MobilePhone, last10) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) GetActiveLease(ctx context.Context, tenantID string) (*models.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *models.Lease
	for _, l := range sortedValues(s.leases) {
		if l.TenantID != tenantID || !isActiveLease(l.Status) {
			continue
		}
		if best == nil || laterStart(l, best) {
			best = l
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func laterStart(a, b *models.Lease) bool {
	if a.StartDate == nil {
		return false
	}
	if b.StartDate == nil {
		return true
	}
	return a.StartDate.After(*b.StartDate)
}

func isActiveLease(status string) bool {
	switch strings.ToLower(status) {
	case "active", "current":
		return true
	}
	return false
}

func isOpenTask(status string) bool {
	lower := strings.ToLower(status)
	for _, terminal := range models.TerminalTaskStatuses {
		if lower == terminal {
			return false
		}
	}
	return true
}

func (s *MemoryStorage) openTasks(match func(*models.Task) bool, limit int) []models.Task {
	var tasks []models.Task
	for _, t := range sortedValues(s.tasks) {
		if isOpenTask(t.Status) && match(t) {
			tasks = append(tasks, *t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}

func (s *MemoryStorage) GetOpenTasksByTenant(ctx context.Context, tenantID string, limit int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.openTasks(func(t *models.Task) bool { return t.TenantID == tenantID }, limit), nil
}

func (s *MemoryStorage) GetOpenTasksByProperties(ctx context.Context, propertyIDs []string, limit int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		ids[id] = true
	}
	return s.openTasks(func(t *models.Task) bool { return ids[t.PropertyID] }, limit), nil
}

func (s *MemoryStorage) GetOpenTasksByAssignee(ctx context.Context, name, company string, limit int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.openTasks(func(t *models.Task) bool {
		assignee := strings.ToLower(t.Assignee)
		if name != "" && strings.Contains(assignee, strings.ToLower(name)) {
			return true
		}
		return company != "" && strings.Contains(assignee, strings.ToLower(company))
	}, limit), nil
}

func (s *MemoryStorage) GetUnitWithProperty(ctx context.Context, unitID string) (*models.Unit, *models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.units[unitID]
	if !ok {
		return nil, nil, nil
	}
	p, ok := s.properties[u.PropertyID]
	if !ok {
		return nil, nil, nil
	}
	uc, pc := *u, *p
	pc.Units = nil
	return &uc, &pc, nil
}

func (s *MemoryStorage) GetPropertiesByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var props []models.Property
	for _, p := range s.sortedProperties() {
		if !want[p.ID] {
			continue
		}
		cp := *p
		cp.Units = s.activeUnits(p.ID, ListingFilter{})
		props = append(props, cp)
	}
	return props, nil
}

func (s *MemoryStorage) GetActiveLeasesByProperties(ctx context.Context, propertyIDs []string) ([]models.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		ids[id] = true
	}

	var leases []models.Lease
	for _, l := range sortedValues(s.leases) {
		if ids[l.PropertyID] && isActiveLease(l.Status) {
			leases = append(leases, *l)
		}
	}
	return leases, nil
}

func (s *MemoryStorage) ListActiveProperties(ctx context.Context, filter ListingFilter) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var props []models.Property
	for _, p := range s.sortedProperties() {
		if !p.Active {
			continue
		}
		if filter.City != "" && !strings.EqualFold(p.City, filter.City) {
			continue
		}
		cp := *p
		cp.Units = s.activeUnits(p.ID, filter)
		if filter.UnitFiltered() && len(cp.Units) == 0 {
			continue
		}
		props = append(props, cp)
		if filter.Limit > 0 && len(props) == filter.Limit {
			break
		}
	}
	return props, nil
}

func (s *MemoryStorage) activeUnits(propertyID string, filter ListingFilter) []models.Unit {
	var units []models.Unit
	for _, u := range sortedValues(s.units) {
		if u.PropertyID != propertyID || !u.Active {
			continue
		}
		if filter.Beds > 0 && int(u.Beds) != filter.Beds {
			continue
		}
		if filter.MaxRent > 0 && u.MarketRent > filter.MaxRent {
			continue
		}
		units = append(units, *u)
	}
	return units
}

func (s *MemoryStorage) sortedProperties() []*models.Property {
	props := make([]*models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool {
		if props[i].Name != props[j].Name {
			return props[i].Name < props[j].Name
		}
		return props[i].ID < props[j].ID
	})
	return props
}

func (s *MemoryStorage) ListActiveCities(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var cities []string
	for _, p := range s.properties {
		if p.Active && p.City != "" && !seen[p.City] {
			seen[p.City] = true
			cities = append(cities, p.City)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

func (s *MemoryStorage) CreateMessage(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *MemoryStorage) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStorage) ListMessages(ctx context.Context, status string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var msgs []models.Message
	for _, m := range s.messages {
		if status == "" || m.Status == status {
			msgs = append(msgs, *m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (s *MemoryStorage) GetMessagesByPhone(ctx context.Context, phoneNumber string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var msgs []models.Message
	for _, m := range s.messages {
		if m.FromPhone == phoneNumber {
			msgs = append(msgs, *m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (s *MemoryStorage) SetMessageStatus(ctx context.Context, id, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok || m.Status != from {
		return fmt.Errorf("message %s is not in status %q", id, from)
	}
	m.Status = to
	m.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) UpsertPerson(ctx context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.SyncedAt = time.Now()
	s.people[p.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpsertProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Units = nil
	cp.SyncedAt = time.Now()
	s.properties[p.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpsertUnit(ctx context.Context, u *models.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.units[u.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpsertLease(ctx context.Context, l *models.Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *l
	s.leases[l.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpsertTask(ctx context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

func sortedValues[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]T, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, m[k])
	}
	return vals
}
