package adapters

import (
	"context"
	"fmt"

	"github.com/ksquared-16/alloy/internal/ghl"
	"github.com/ksquared-16/alloy/internal/pricing"
	quoteports "github.com/ksquared-16/alloy/internal/quotes/ports"
)

// Label variants the booking funnel has used for each opportunity field,
// in priority order.
var (
	breakdownFields  = []string{"price_breakdown", "quote_breakdown", "breakdown"}
	estimatedFields  = []string{"estimated_price", "quote_total", "total_price"}
	firstCleanFields = []string{"first_clean_price", "first_cleaning_price", "initial_clean_price"}
	recurringFields  = []string{"recurring_price", "recurring_clean_price", "recurring_cleaning_price"}
	frequencyFields  = []string{"frequency", "cleaning_frequency", "recurring_frequency", "preferred_frequency"}
	serviceFields    = []string{"service_type", "service", "cleaning_type"}
	discountFields   = []string{"discount", "recurring_discount"}
)

// ContactSearchClient is the narrow interface for the CRM contact search.
type ContactSearchClient interface {
	SearchContacts(ctx context.Context, query string) (ghl.SearchResult, error)
}

// OpportunityClient is the narrow interface for listing a contact's opportunities.
type OpportunityClient interface {
	ListOpportunities(ctx context.Context, contactID string) ([]ghl.Opportunity, error)
}

// QuotesContactSearcher adapts the CRM contact search to quotes/ports.ContactSearcher.
type QuotesContactSearcher struct {
	crm ContactSearchClient
}

func NewQuotesContactSearcher(crm ContactSearchClient) *QuotesContactSearcher {
	return &QuotesContactSearcher{crm: crm}
}

func (a *QuotesContactSearcher) SearchContacts(ctx context.Context, query string) ([]quoteports.Contact, error) {
	result, err := a.crm.SearchContacts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search crm contacts: %w", err)
	}

	out := make([]quoteports.Contact, 0, len(result.Contacts))
	for _, c := range result.Contacts {
		name := c.Name
		if name == "" {
			name = "Unknown"
		}
		out = append(out, quoteports.Contact{
			ID:        c.ID,
			Name:      name,
			Phone:     c.Phone,
			Email:     c.Email,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}

// QuotesOpportunityReader adapts CRM opportunities to quotes/ports.OpportunityReader,
// resolving the field-name variants into typed pricing fields.
type QuotesOpportunityReader struct {
	crm OpportunityClient
}

func NewQuotesOpportunityReader(crm OpportunityClient) *QuotesOpportunityReader {
	return &QuotesOpportunityReader{crm: crm}
}

func (a *QuotesOpportunityReader) ListOpportunities(ctx context.Context, contactID string) ([]quoteports.Opportunity, error) {
	opps, err := a.crm.ListOpportunities(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("list crm opportunities: %w", err)
	}

	out := make([]quoteports.Opportunity, 0, len(opps))
	for _, o := range opps {
		out = append(out, toQuoteOpportunity(o))
	}
	return out, nil
}

func toQuoteOpportunity(o ghl.Opportunity) quoteports.Opportunity {
	opp := quoteports.Opportunity{
		ID:              o.ID,
		Status:          o.Status,
		UpdatedAt:       o.UpdatedAt,
		ServiceType:     o.Fields.Get(serviceFields...),
		PriceBreakdown:  o.Fields.Get(breakdownFields...),
		FirstCleanPrice: amountField(o.Fields, firstCleanFields),
		RecurringPrice:  amountField(o.Fields, recurringFields),
		Frequency:       o.Fields.Get(frequencyFields...),
		Discount:        o.Fields.Get(discountFields...),
		EstimatedPrice:  amountField(o.Fields, estimatedFields),
	}
	if opp.EstimatedPrice == nil && o.MonetaryValue != nil && *o.MonetaryValue > 0 {
		v := *o.MonetaryValue
		opp.EstimatedPrice = &v
	}
	return opp
}

func amountField(fields ghl.Fields, names []string) *float64 {
	for _, name := range names {
		if v, ok := pricing.ParseAmount(fields.Get(name)); ok {
			return &v
		}
	}
	return nil
}

var (
	_ quoteports.ContactSearcher   = (*QuotesContactSearcher)(nil)
	_ quoteports.OpportunityReader = (*QuotesOpportunityReader)(nil)
)
