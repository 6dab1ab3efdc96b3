package handler

import (
	"github.com/ksquared-16/alloy/internal/leads/service"
	"github.com/ksquared-16/alloy/internal/leads/transport"
	"github.com/ksquared-16/alloy/platform/apperr"
	"github.com/ksquared-16/alloy/platform/httpkit"
	"github.com/ksquared-16/alloy/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles the public website forms.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the public lead intake routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads/cleaning", h.SubmitCleaningLead)
	rg.POST("/leads/pros", h.SubmitProsApplication)
}

// SubmitCleaningLead handles POST /api/v1/leads/cleaning
func (h *Handler) SubmitCleaningLead(c *gin.Context) {
	var req transport.CleaningLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest, err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(err.Error()))
		return
	}

	contactID, err := h.svc.SubmitCleaningLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadResponse{
		OK:        true,
		ContactID: contactID,
		Message:   "Lead submitted successfully. We'll contact you shortly.",
	})
}

// SubmitProsApplication handles POST /api/v1/leads/pros
func (h *Handler) SubmitProsApplication(c *gin.Context) {
	var req transport.ProsApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest, err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(err.Error()))
		return
	}

	contactID, err := h.svc.SubmitProsApplication(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadResponse{
		OK:        true,
		ContactID: contactID,
		Message:   "Application submitted successfully. We'll review and contact you soon.",
	})
}
