package models

import (
	"encoding/json"
	"time"
)

// CallerType is the four-way classification assigned to an inbound phone number.
type CallerType string

const (
	CallerTenant   CallerType = "tenant"
	CallerOwner    CallerType = "owner"
	CallerVendor   CallerType = "vendor"
	CallerProspect CallerType = "prospect"
)

// Message lifecycle statuses. A reply starts pending, a human approves or
// rejects it, and an approved reply becomes sent once relayed to the provider.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusSent     = "sent"
)

// Person is a unit of identity synced from the property-management platform.
// Phone numbers are stored normalized so webhook lookups succeed regardless
// of the format the provider sends.
type Person struct {
	ID           string          `json:"id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	PrimaryPhone string          `json:"primary_phone"`
	MobilePhone  string          `json:"mobile_phone"`
	Email        string          `json:"email"`
	Role         CallerType      `json:"role"`
	Notes        string          `json:"notes"`
	RawData      json.RawMessage `json:"raw_data,omitempty"`
	SyncedAt     time.Time       `json:"synced_at"`
}

// FullName joins the name parts, tolerating either being empty.
func (p *Person) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// Lease links a tenant to a unit/property. Only active/current leases are
// relevant to context building.
type Lease struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	PropertyID  string     `json:"property_id"`
	UnitID      string     `json:"unit_id"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MonthlyRent float64    `json:"monthly_rent"`
	Deposit     float64    `json:"deposit"`
}

// Task is a maintenance request or work order.
type Task struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	PropertyID  string    `json:"property_id"`
	UnitID      string    `json:"unit_id"`
	Assignee    string    `json:"assignee"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TerminalTaskStatuses make a task invisible to the responder; everything
// else counts as open.
var TerminalTaskStatuses = []string{"completed", "closed", "cancelled"}

// Property is a rental property with its pet policy and amenities.
// Units is populated by queries that fetch nested active units.
type Property struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Street1            string          `json:"street1"`
	Street2            string          `json:"street2"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	Zip                string          `json:"zip"`
	Type               string          `json:"type"`
	Description        string          `json:"description"`
	Amenities          []string        `json:"amenities"`
	PetPolicySmallDogs string          `json:"pet_policy_small_dogs"`
	PetPolicyLargeDogs string          `json:"pet_policy_large_dogs"`
	PetPolicyCats      string          `json:"pet_policy_cats"`
	Active             bool            `json:"active"`
	RawData            json.RawMessage `json:"raw_data,omitempty"`
	SyncedAt           time.Time       `json:"synced_at"`
	Units              []Unit          `json:"units,omitempty"`
}

// Address renders the single-line street address.
func (p *Property) Address() string {
	addr := p.Street1
	if p.Street2 != "" {
		addr += ", " + p.Street2
	}
	if p.City != "" {
		addr += ", " + p.City
	}
	if p.State != "" {
		addr += ", " + p.State
	}
	if p.Zip != "" {
		addr += " " + p.Zip
	}
	return addr
}

// Unit belongs to exactly one Property.
type Unit struct {
	ID          string          `json:"id"`
	PropertyID  string          `json:"property_id"`
	Name        string          `json:"name"`
	Beds        float64         `json:"beds"`
	Baths       float64         `json:"baths"`
	Size        int             `json:"size"`
	MarketRent  float64         `json:"market_rent"`
	Description string          `json:"description"`
	Amenities   []string        `json:"amenities"`
	Active      bool            `json:"active"`
	RawData     json.RawMessage `json:"raw_data,omitempty"`
}

// Message is one inbound text plus its generated reply, held for approval.
type Message struct {
	ID              string     `json:"id"`
	FromPhone       string     `json:"from_phone"`
	ToPhone         string     `json:"to_phone"`
	IncomingMessage string     `json:"incoming_message"`
	AIReply         string     `json:"ai_reply"`
	Status          string     `json:"status"`
	CallerType      CallerType `json:"caller_type"`
	CallerName      string     `json:"caller_name"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
