package storage

import (
	"context"

	"github.com/doorstep-labs/proptext/internal/models"
)

// ListingFilter narrows the active-property query for prospect-facing
// context. Zero values mean "no constraint".
type ListingFilter struct {
	City    string
	Beds    int
	MaxRent float64
	Limit   int
}

// UnitFiltered reports whether the filter constrains individual units, in
// which case properties with no matching unit are dropped from the result.
func (f ListingFilter) UnitFiltered() bool {
	return f.Beds > 0 || f.MaxRent > 0
}

// Storage is the persistence boundary. The CRM side (people, leases, tasks,
// properties, units) is written only by the DoorLoop sync; the responder has
// read-only access. Messages are written by the webhook and approval
// handlers.
type Storage interface {
	// Caller identification and role context reads.
	GetPersonByPhone(ctx context.Context, last10 string) (*models.Person, error)
	GetActiveLease(ctx context.Context, tenantID string) (*models.Lease, error)
	GetOpenTasksByTenant(ctx context.Context, tenantID string, limit int) ([]models.Task, error)
	GetOpenTasksByProperties(ctx context.Context, propertyIDs []string, limit int) ([]models.Task, error)
	GetOpenTasksByAssignee(ctx context.Context, name, company string, limit int) ([]models.Task, error)
	GetUnitWithProperty(ctx context.Context, unitID string) (*models.Unit, *models.Property, error)
	GetPropertiesByIDs(ctx context.Context, ids []string) ([]models.Property, error)
	GetActiveLeasesByProperties(ctx context.Context, propertyIDs []string) ([]models.Lease, error)

	// Prospect listing reads.
	ListActiveProperties(ctx context.Context, filter ListingFilter) ([]models.Property, error)
	ListActiveCities(ctx context.Context) ([]string, error)

	// Message log.
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	ListMessages(ctx context.Context, status string, limit int) ([]models.Message, error)
	GetMessagesByPhone(ctx context.Context, phone string, limit int) ([]models.Message, error)
	SetMessageStatus(ctx context.Context, id, from, to string) error

	// DoorLoop sync upserts.
	UpsertPerson(ctx context.Context, p *models.Person) error
	UpsertProperty(ctx context.Context, p *models.Property) error
	UpsertUnit(ctx context.Context, u *models.Unit) error
	UpsertLease(ctx context.Context, l *models.Lease) error
	UpsertTask(ctx context.Context, t *models.Task) error

	Close() error
}
