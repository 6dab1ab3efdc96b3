package transport

import (
	"github.com/ksquared-16/alloy/internal/pricing"
	"github.com/ksquared-16/alloy/internal/quotes/ports"
)

// QuoteResponse is returned by GET /quote/cleaning.
type QuoteResponse struct {
	Status          string          `json:"status"`
	ContactID       string          `json:"contact_id,omitempty"`
	OpportunityID   string          `json:"opportunity_id,omitempty"`
	Service         *string         `json:"service,omitempty"`
	FirstCleanPrice *float64        `json:"first_clean_price,omitempty"`
	RecurringPrice  *float64        `json:"recurring_price,omitempty"`
	Frequency       *string         `json:"frequency,omitempty"`
	Discount        *string         `json:"discount,omitempty"`
	AddOns          []pricing.AddOn `json:"add_ons,omitempty"`
	EstimatedPrice  *float64        `json:"estimated_price,omitempty"`
	PriceBreakdown  string          `json:"price_breakdown,omitempty"`
}

type SearchAttempt struct {
	Candidate string `json:"candidate"`
	Count     int    `json:"count"`
	Error     string `json:"error,omitempty"`
}

// ContactSearchResponse is returned by GET /debug/contact-search.
type ContactSearchResponse struct {
	InputPhone       string          `json:"input_phone"`
	Candidates       []string        `json:"candidates"`
	Attempts         []SearchAttempt `json:"attempts"`
	MatchedCandidate string          `json:"matched_candidate,omitempty"`
	Count            int             `json:"count"`
	TopMatches       []ports.Contact `json:"top_matches"`
}
