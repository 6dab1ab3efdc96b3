// Package ports defines the interfaces that the quotes domain requires from
// the CRM. Adapters translate the CRM's payloads into these shapes so the
// resolver never sees field-name variants.
package ports

import "context"

// Contact is a CRM contact matched by a phone search.
type Contact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	UpdatedAt string `json:"date_updated"`
}

// Opportunity is a CRM deal with the pricing fields the booking funnel writes.
// Numeric fields are nil when the CRM carried nothing parseable.
type Opportunity struct {
	ID              string
	Status          string
	UpdatedAt       string
	ServiceType     string
	PriceBreakdown  string
	EstimatedPrice  *float64
	FirstCleanPrice *float64
	RecurringPrice  *float64
	Frequency       string
	Discount        string
}

// ContactSearcher runs a free-text contact search.
type ContactSearcher interface {
	SearchContacts(ctx context.Context, query string) ([]Contact, error)
}

// OpportunityReader lists the opportunities attached to a contact.
type OpportunityReader interface {
	ListOpportunities(ctx context.Context, contactID string) ([]Opportunity, error)
}
