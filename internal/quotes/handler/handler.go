package handler

import (
	"strings"

	"github.com/ksquared-16/alloy/internal/quotes/ports"
	"github.com/ksquared-16/alloy/internal/quotes/service"
	"github.com/ksquared-16/alloy/internal/quotes/transport"
	"github.com/ksquared-16/alloy/platform/apperr"
	"github.com/ksquared-16/alloy/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for quote lookups.
type Handler struct {
	svc *service.Service
}

// New creates a new quotes handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the public quote route
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quote/cleaning", h.GetCleaningQuote)
}

// RegisterDebugRoutes registers the contact search diagnostics
func (h *Handler) RegisterDebugRoutes(rg *gin.RouterGroup) {
	rg.GET("/contact-search", h.SearchContacts)
}

// GetCleaningQuote handles GET /api/v1/quote/cleaning?phone=
// The lookup always answers 200; failures are reported in the status field.
func (h *Handler) GetCleaningQuote(c *gin.Context) {
	phoneInput := strings.TrimSpace(c.Query("phone"))
	if phoneInput == "" {
		httpkit.OK(c, transport.QuoteResponse{Status: string(service.StatusNotFound)})
		return
	}

	result := h.svc.GetQuote(c.Request.Context(), phoneInput)
	httpkit.OK(c, transport.QuoteResponse{
		Status:          string(result.Status),
		ContactID:       result.ContactID,
		OpportunityID:   result.OpportunityID,
		Service:         result.Service,
		FirstCleanPrice: result.FirstCleanPrice,
		RecurringPrice:  result.RecurringPrice,
		Frequency:       result.Frequency,
		Discount:        result.Discount,
		AddOns:          result.AddOns,
		EstimatedPrice:  result.EstimatedPrice,
		PriceBreakdown:  result.PriceBreakdown,
	})
}

// SearchContacts handles GET /api/v1/debug/contact-search?phone=
func (h *Handler) SearchContacts(c *gin.Context) {
	phoneInput := strings.TrimSpace(c.Query("phone"))
	if phoneInput == "" {
		httpkit.HandleError(c, apperr.Validation("phone is required"))
		return
	}

	report := h.svc.SearchContacts(c.Request.Context(), phoneInput)
	attempts := make([]transport.SearchAttempt, 0, len(report.Attempts))
	for _, a := range report.Attempts {
		attempts = append(attempts, transport.SearchAttempt{Candidate: a.Candidate, Count: a.Count, Error: a.Error})
	}
	matches := report.TopMatches
	if matches == nil {
		matches = []ports.Contact{}
	}
	httpkit.OK(c, transport.ContactSearchResponse{
		InputPhone:       report.Input,
		Candidates:       report.Candidates,
		Attempts:         attempts,
		MatchedCandidate: report.MatchedCandidate,
		Count:            len(matches),
		TopMatches:       matches,
	})
}
