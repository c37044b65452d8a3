package responder

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/phone"
)

const (
	tenantTaskLimit = 5
	ownerTaskLimit  = 10
	vendorTaskLimit = 10
)

// Classification is the result of caller identification: a role tag plus
// exactly one role payload (none for prospects). It is the single dispatch
// key for context building and prompt selection.
type Classification struct {
	CallerType models.CallerType
	Person     *models.Person
	Tenant     *TenantContext
	Owner      *OwnerContext
	Vendor     *VendorContext
}

// CallerName is the display name carried through to the approval dashboard.
// Empty for prospects.
func (c Classification) CallerName() string {
	if c.Person == nil {
		return ""
	}
	return c.Person.FullName()
}

// TenantContext carries the tenant's lease and maintenance state.
type TenantContext struct {
	Lease        *models.Lease
	Unit         *models.Unit
	Property     *models.Property
	OpenTasks    []models.Task
	HasOpenTasks bool
}

// OwnerContext carries the owner's portfolio state.
type OwnerContext struct {
	Properties   []models.Property
	Leases       []models.Lease
	OpenTasks    []models.Task
	HasOpenTasks bool
}

// VendorContext carries the vendor's assigned work orders.
type VendorContext struct {
	Company      string
	OpenTasks    []models.Task
	HasOpenTasks bool
}

func prospect() Classification {
	return Classification{CallerType: models.CallerProspect}
}

// Identify classifies the caller by phone number. Store failures degrade to
// the prospect classification; identification must never abort the
// response pipeline.
func (r *Responder) Identify(ctx context.Context, phoneNumber string) Classification {
	key := phone.Last10(phoneNumber)
	if key == "" {
		return prospect()
	}

	person, err := r.store.GetPersonByPhone(ctx, key)
	if err != nil {
		r.logger.Warn("Caller lookup failed, treating as prospect",
			zap.Error(err),
			zap.String("phone", phoneNumber))
		return prospect()
	}
	if person == nil {
		return prospect()
	}

	switch person.Role {
	case models.CallerTenant:
		return Classification{
			CallerType: models.CallerTenant,
			Person:     person,
			Tenant:     r.loadTenantContext(ctx, person),
		}
	case models.CallerOwner:
		return Classification{
			CallerType: models.CallerOwner,
			Person:     person,
			Owner:      r.loadOwnerContext(ctx, person),
		}
	case models.CallerVendor:
		return Classification{
			CallerType: models.CallerVendor,
			Person:     person,
			Vendor:     r.loadVendorContext(ctx, person),
		}
	default:
		// Known person with no role tag; treat like a prospect but keep
		// the name for the dashboard.
		return Classification{CallerType: models.CallerProspect, Person: person}
	}
}

func (r *Responder) loadTenantContext(ctx context.Context, person *models.Person) *TenantContext {
	tc := &TenantContext{}

	lease, err := r.store.GetActiveLease(ctx, person.ID)
	if err != nil {
		r.logger.Warn("Tenant lease lookup failed", zap.Error(err), zap.String("person_id", person.ID))
	} else {
		tc.Lease = lease
	}

	tasks, err := r.store.GetOpenTasksByTenant(ctx, person.ID, tenantTaskLimit)
	if err != nil {
		r.logger.Warn("Tenant task lookup failed", zap.Error(err), zap.String("person_id", person.ID))
	} else {
		tc.OpenTasks = tasks
		tc.HasOpenTasks = len(tasks) > 0
	}

	if tc.Lease != nil && tc.Lease.UnitID != "" {
		unit, property, err := r.store.GetUnitWithProperty(ctx, tc.Lease.UnitID)
		if err != nil {
			r.logger.Warn("Tenant unit lookup failed", zap.Error(err), zap.String("unit_id", tc.Lease.UnitID))
		} else {
			tc.Unit = unit
			tc.Property = property
		}
	}

	return tc
}

// ownedPropertyIDs reads the property ids embedded in the owner's raw
// provider payload.
func ownedPropertyIDs(person *models.Person) []string {
	if len(person.RawData) == 0 {
		return nil
	}
	var payload struct {
		Properties []string `json:"properties"`
	}
	if err := json.Unmarshal(person.RawData, &payload); err != nil {
		return nil
	}
	return payload.Properties
}

func (r *Responder) loadOwnerContext(ctx context.Context, person *models.Person) *OwnerContext {
	oc := &OwnerContext{}

	ids := ownedPropertyIDs(person)
	if len(ids) == 0 {
		// Owner with no linked properties: empty lists everywhere.
		return oc
	}

	props, err := r.store.GetPropertiesByIDs(ctx, ids)
	if err != nil {
		r.logger.Warn("Owner property lookup failed", zap.Error(err), zap.String("person_id", person.ID))
	} else {
		oc.Properties = props
	}

	leases, err := r.store.GetActiveLeasesByProperties(ctx, ids)
	if err != nil {
		r.logger.Warn("Owner lease lookup failed", zap.Error(err), zap.String("person_id", person.ID))
	} else {
		oc.Leases = leases
	}

	tasks, err := r.store.GetOpenTasksByProperties(ctx, ids, ownerTaskLimit)
	if err != nil {
		r.logger.Warn("Owner task lookup failed", zap.Error(err), zap.String("person_id", person.ID))
	} else {
		oc.OpenTasks = tasks
		oc.HasOpenTasks = len(tasks) > 0
	}

	return oc
}

// companyFromNotes parses the company name out of the notes field's first
// |-delimited segment, a convention carried over from the CRM import.
func companyFromNotes(notes string) string {
	if notes == "" {
		return ""
	}
	segment := notes
	if i := strings.Index(notes, "|"); i >= 0 {
		segment = notes[:i]
	}
	return strings.TrimSpace(segment)
}

func (r *Responder) loadVendorContext(ctx context.Context, person *models.Person) *VendorContext {
	vc := &VendorContext{Company: companyFromNotes(person.Notes)}

	tasks, err := r.store.GetOpenTasksByAssignee(ctx, person.FullName(), vc.Company, vendorTaskLimit)
	if err != nil {
		r.logger.Warn("Vendor task lookup failed", zap.Error(err), zap.String("person_id", person.ID))
	} else {
		vc.OpenTasks = tasks
		vc.HasOpenTasks = len(tasks) > 0
	}

	return vc
}
