package responder

import (
	"fmt"
	"strings"
	"time"

	"github.com/doorstep-labs/proptext/internal/models"
)

// noneSentinel is the placeholder the prompt templates rely on to forbid
// the model from inventing history for an empty collection.
const noneSentinel = "None"

const dateLayout = "1/2/2006"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return formatDate(*t)
}

func renderContactHeader(b *strings.Builder, person *models.Person, company string) {
	b.WriteString("Name: " + person.FullName() + "\n")
	if company != "" {
		b.WriteString("Company: " + company + "\n")
	}
	phoneNumber := person.MobilePhone
	if phoneNumber == "" {
		phoneNumber = person.PrimaryPhone
	}
	if phoneNumber != "" {
		b.WriteString("Phone: " + phoneNumber + "\n")
	}
	if person.Email != "" {
		b.WriteString("Email: " + person.Email + "\n")
	}
}

// renderTenantContext formats the tenant's lease, unit, and maintenance
// state. Pure formatting; all data was fetched during identification.
func renderTenantContext(person *models.Person, tc *TenantContext) string {
	var b strings.Builder
	b.WriteString("TENANT PROFILE:\n")
	renderContactHeader(&b, person, "")

	if tc.Lease != nil {
		b.WriteString("\nLEASE:\n")
		b.WriteString("Status: " + tc.Lease.Status + "\n")
		fmt.Fprintf(&b, "Monthly rent: $%.2f\n", tc.Lease.MonthlyRent)
		b.WriteString("Start date: " + formatDatePtr(tc.Lease.StartDate) + "\n")
		b.WriteString("End date: " + formatDatePtr(tc.Lease.EndDate) + "\n")
	}

	if tc.Property != nil {
		b.WriteString("\nRESIDENCE:\n")
		b.WriteString("Property: " + tc.Property.Name + "\n")
		if addr := tc.Property.Address(); addr != "" {
			b.WriteString("Address: " + addr + "\n")
		}
		if tc.Unit != nil {
			b.WriteString("Unit: " + tc.Unit.Name + "\n")
		}
	}

	b.WriteString("\nOPEN MAINTENANCE REQUESTS:\n")
	if !tc.HasOpenTasks {
		b.WriteString(noneSentinel + "\n")
	} else {
		for i, t := range tc.OpenTasks {
			fmt.Fprintf(&b, "%d. %s (status: %s, opened: %s)\n",
				i+1, t.Title, t.Status, formatDate(t.CreatedAt))
		}
	}

	return b.String()
}

// renderOwnerContext formats the owner's portfolio with per-property
// occupancy derived from active leases vs active units.
func renderOwnerContext(person *models.Person, oc *OwnerContext) string {
	var b strings.Builder
	b.WriteString("OWNER PROFILE:\n")
	renderContactHeader(&b, person, companyFromNotes(person.Notes))

	leasesPerProperty := make(map[string]int)
	for _, l := range oc.Leases {
		leasesPerProperty[l.PropertyID]++
	}

	b.WriteString("\nPORTFOLIO:\n")
	if len(oc.Properties) == 0 {
		b.WriteString(noneSentinel + "\n")
	} else {
		for i, p := range oc.Properties {
			activeUnits := len(p.Units)
			occupied := leasesPerProperty[p.ID]
			vacant := activeUnits - occupied
			if vacant < 0 {
				vacant = 0
			}
			fmt.Fprintf(&b, "%d. %s (%s): %d active units, %d occupied, %d vacant\n",
				i+1, p.Name, p.Address(), activeUnits, occupied, vacant)
		}
	}

	b.WriteString("\nACTIVE LEASES:\n")
	if len(oc.Leases) == 0 {
		b.WriteString(noneSentinel + "\n")
	} else {
		for i, l := range oc.Leases {
			fmt.Fprintf(&b, "%d. Property %s: $%.2f/mo, ends %s\n",
				i+1, l.PropertyID, l.MonthlyRent, formatDatePtr(l.EndDate))
		}
	}

	b.WriteString("\nOPEN TASKS:\n")
	if !oc.HasOpenTasks {
		b.WriteString(noneSentinel + "\n")
	} else {
		for i, t := range oc.OpenTasks {
			fmt.Fprintf(&b, "%d. %s (status: %s, priority: %s, opened: %s)\n",
				i+1, t.Title, t.Status, t.Priority, formatDate(t.CreatedAt))
		}
	}

	return b.String()
}

// renderVendorContext formats the vendor's assigned work orders.
func renderVendorContext(person *models.Person, vc *VendorContext) string {
	var b strings.Builder
	b.WriteString("VENDOR PROFILE:\n")
	renderContactHeader(&b, person, vc.Company)

	b.WriteString("\nASSIGNED WORK ORDERS:\n")
	if !vc.HasOpenTasks {
		b.WriteString("None currently assigned\n")
	} else {
		for i, t := range vc.OpenTasks {
			fmt.Fprintf(&b, "%d. %s (property: %s", i+1, t.Title, t.PropertyID)
			if t.UnitID != "" {
				b.WriteString(", unit: " + t.UnitID)
			}
			fmt.Fprintf(&b, ", status: %s, priority: %s, opened: %s)\n",
				t.Status, t.Priority, formatDate(t.CreatedAt))
			if t.Description != "" {
				b.WriteString("   " + t.Description + "\n")
			}
		}
	}

	return b.String()
}
