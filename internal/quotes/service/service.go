package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ksquared-16/alloy/internal/pricing"
	"github.com/ksquared-16/alloy/internal/quotes/ports"
	"github.com/ksquared-16/alloy/internal/telemetry"
	"github.com/ksquared-16/alloy/platform/logger"
	"github.com/ksquared-16/alloy/platform/phone"
)

// Status is the normalized state of a quote lookup.
type Status string

const (
	StatusReady    Status = "ready"
	StatusPending  Status = "pending"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

const maxDebugMatches = 10

// closedStatuses are the opportunity states that no longer represent a live quote.
var closedStatuses = map[string]struct{}{
	"won":       {},
	"lost":      {},
	"abandoned": {},
}

// QuoteResult is the outcome of GetQuote. Price fields stay nil when unresolved.
type QuoteResult struct {
	Status          Status
	ContactID       string
	OpportunityID   string
	Service         *string
	FirstCleanPrice *float64
	RecurringPrice  *float64
	Frequency       *string
	Discount        *string
	AddOns          []pricing.AddOn
	EstimatedPrice  *float64
	PriceBreakdown  string
}

// Service resolves cleaning quotes from CRM contacts and opportunities.
type Service struct {
	contacts      ports.ContactSearcher
	opportunities ports.OpportunityReader
	log           *logger.Logger
}

// New creates a quotes service.
func New(contacts ports.ContactSearcher, opportunities ports.OpportunityReader, log *logger.Logger) *Service {
	return &Service{contacts: contacts, opportunities: opportunities, log: log}
}

// GetQuote finds the contact behind phoneInput and reports its quote. It
// never fails: CRM errors and panics in the parsing code become StatusError.
func (s *Service) GetQuote(ctx context.Context, phoneInput string) (result QuoteResult) {
	log := s.log.WithContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("quote lookup panicked", "phone", phoneInput, "panic", fmt.Sprint(r))
			result = QuoteResult{Status: StatusError}
		}
		telemetry.QuoteStatuses.WithLabelValues(string(result.Status)).Inc()
	}()

	contact, found, err := s.findContact(ctx, phoneInput)
	if err != nil {
		log.Error("quote contact search failed", "phone", phoneInput, "error", err)
		return QuoteResult{Status: StatusError}
	}
	if !found {
		log.Info("quote lookup found no contact", "phone", phoneInput)
		return QuoteResult{Status: StatusNotFound}
	}

	opps, err := s.opportunities.ListOpportunities(ctx, contact.ID)
	if err != nil {
		log.Error("quote opportunity lookup failed", "contactId", contact.ID, "error", err)
		return QuoteResult{Status: StatusError, ContactID: contact.ID}
	}
	if len(opps) == 0 {
		log.Info("quote lookup found no opportunity", "contactId", contact.ID)
		return QuoteResult{Status: StatusNotFound, ContactID: contact.ID}
	}

	opp, ok := SelectOpportunity(opps)
	if !ok {
		return QuoteResult{Status: StatusPending, ContactID: contact.ID}
	}

	result = BuildQuote(opp)
	result.ContactID = contact.ID
	log.Info("quote resolved", "contactId", contact.ID, "opportunityId", opp.ID, "status", result.Status)
	return result
}

// findContact searches the phone candidates in order and stops at the first one
// with matches. A search error on one candidate does not stop the search; it is
// returned only when no candidate matched.
func (s *Service) findContact(ctx context.Context, phoneInput string) (ports.Contact, bool, error) {
	var errs []error
	for _, candidate := range phone.Candidates(phoneInput) {
		contacts, err := s.contacts.SearchContacts(ctx, candidate)
		if err != nil {
			errs = append(errs, fmt.Errorf("search %q: %w", candidate, err))
			continue
		}
		if len(contacts) > 0 {
			return MostRecentContact(contacts), true, nil
		}
	}
	return ports.Contact{}, false, errors.Join(errs...)
}

// MostRecentContact returns the contact with the greatest UpdatedAt.
// Ties keep the CRM's order.
func MostRecentContact(contacts []ports.Contact) ports.Contact {
	best := contacts[0]
	for _, c := range contacts[1:] {
		if c.UpdatedAt > best.UpdatedAt {
			best = c
		}
	}
	return best
}

// SelectOpportunity picks the opportunity to quote from: among those carrying
// a pricing signal, the most recently updated open one, else the most recently
// updated overall. It reports false when none carries a pricing signal.
func SelectOpportunity(opps []ports.Opportunity) (ports.Opportunity, bool) {
	priced := make([]ports.Opportunity, 0, len(opps))
	for _, o := range opps {
		if hasPricingSignal(o) {
			priced = append(priced, o)
		}
	}
	if len(priced) == 0 {
		return ports.Opportunity{}, false
	}

	sort.SliceStable(priced, func(i, j int) bool { return priced[i].UpdatedAt > priced[j].UpdatedAt })
	for _, o := range priced {
		if _, closed := closedStatuses[o.Status]; !closed {
			return o, true
		}
	}
	return priced[0], true
}

func hasPricingSignal(o ports.Opportunity) bool {
	return o.PriceBreakdown != "" ||
		(o.EstimatedPrice != nil && *o.EstimatedPrice > 0) ||
		o.FirstCleanPrice != nil ||
		o.RecurringPrice != nil
}

// BuildQuote merges the parsed breakdown with the opportunity's raw fields.
// Breakdown values win; raw fields only fill gaps.
func BuildQuote(opp ports.Opportunity) QuoteResult {
	parsed := pricing.ParseBreakdown(opp.PriceBreakdown)

	result := QuoteResult{
		OpportunityID:   opp.ID,
		Service:         firstString(parsed.Service, opp.ServiceType),
		FirstCleanPrice: firstFloat(parsed.FirstCleanPrice, opp.FirstCleanPrice),
		RecurringPrice:  firstFloat(parsed.RecurringPrice, opp.RecurringPrice),
		Frequency:       firstString(parsed.Frequency, opp.Frequency),
		Discount:        firstString(parsed.Discount, opp.Discount),
		AddOns:          parsed.AddOns,
		PriceBreakdown:  opp.PriceBreakdown,
	}
	if opp.EstimatedPrice != nil && *opp.EstimatedPrice > 0 {
		result.EstimatedPrice = opp.EstimatedPrice
	} else {
		result.EstimatedPrice = parsed.Total
	}

	result.Status = StatusPending
	if result.FirstCleanPrice != nil && result.RecurringPrice != nil && result.Frequency != nil {
		result.Status = StatusReady
	}
	return result
}

// SearchAttempt records one candidate tried by SearchContacts.
type SearchAttempt struct {
	Candidate string
	Count     int
	Error     string
}

// SearchReport is the diagnostic view of a phone lookup.
type SearchReport struct {
	Input            string
	Candidates       []string
	Attempts         []SearchAttempt
	MatchedCandidate string
	TopMatches       []ports.Contact
}

// SearchContacts runs the same candidate search as GetQuote and reports every
// attempt along with up to ten matches of the winning candidate.
func (s *Service) SearchContacts(ctx context.Context, phoneInput string) SearchReport {
	report := SearchReport{Input: phoneInput, Candidates: phone.Candidates(phoneInput)}
	for _, candidate := range report.Candidates {
		contacts, err := s.contacts.SearchContacts(ctx, candidate)
		attempt := SearchAttempt{Candidate: candidate, Count: len(contacts)}
		if err != nil {
			attempt.Error = err.Error()
		}
		report.Attempts = append(report.Attempts, attempt)
		if len(contacts) == 0 {
			continue
		}

		sorted := append([]ports.Contact(nil), contacts...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UpdatedAt > sorted[j].UpdatedAt })
		if len(sorted) > maxDebugMatches {
			sorted = sorted[:maxDebugMatches]
		}
		report.MatchedCandidate = candidate
		report.TopMatches = sorted
		break
	}
	return report
}

func firstString(parsed *string, raw string) *string {
	if parsed != nil {
		return parsed
	}
	if raw == "" {
		return nil
	}
	return &raw
}

func firstFloat(parsed, raw *float64) *float64 {
	if parsed != nil {
		return parsed
	}
	return raw
}
