package handler

import (
	"sort"

	"github.com/ksquared-16/alloy/internal/jobs/service"
	"github.com/ksquared-16/alloy/internal/jobs/transport"
	"github.com/ksquared-16/alloy/platform/apperr"
	"github.com/ksquared-16/alloy/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for job dispatch and contractor replies.
type Handler struct {
	svc *service.Service
}

// New creates a new jobs handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the webhook and directory routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/dispatch", h.Dispatch)
	rg.POST("/contractor-reply", h.ContractorReply)
	rg.GET("/contractors", h.ListContractors)
}

// RegisterDebugRoutes registers the store inspection routes
func (h *Handler) RegisterDebugRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.ListJobs)
}

// Dispatch handles the appointment-booked webhook.
func (h *Handler) Dispatch(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest, err).WithDetails(err.Error()))
		return
	}

	result, err := h.svc.Dispatch(c.Request.Context(), transport.DecodeBooking(payload))
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.DispatchResponse{
		OK:                  result.Outcome == service.DispatchBroadcast,
		Job:                 result.Job,
		ContractorsNotified: result.Notified,
		SendFailures:        result.SendFailures,
	}
	if !resp.OK {
		resp.Reason = string(result.Outcome)
	}
	httpkit.OK(c, resp)
}

// ContractorReply handles the inbound-message webhook. Every resolution,
// including rejections, is reported with 200 so the CRM does not retry.
func (h *Handler) ContractorReply(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest, err).WithDetails(err.Error()))
		return
	}

	result, err := h.svc.ResolveReply(c.Request.Context(), transport.DecodeReply(payload))
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ReplyResponse{
		OK:    result.Outcome == service.ReplyAssigned,
		JobID: result.JobID,
	}
	switch result.Outcome {
	case service.ReplyAssigned:
		resp.ContractorID = result.ContractorID
		resp.ContractorName = result.ContractorName
	case service.ReplyAlreadyAssigned:
		resp.Reason = string(result.Outcome)
		resp.ContractorID = result.ContractorID
		resp.AssignedTo = result.AssignedContractorID
		resp.AssignedToName = result.AssignedContractorName
	case service.ReplyInvalidFormat:
		resp.Reason = string(result.Outcome)
		resp.MessageText = result.Message
	default:
		resp.Reason = string(result.Outcome)
		resp.ContactID = result.ContractorID
	}
	httpkit.OK(c, resp)
}

// ListContractors returns the currently eligible contractors.
func (h *Handler) ListContractors(c *gin.Context) {
	contractors, err := h.svc.EligibleContractors(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, apperr.Upstream("contractor directory unavailable", err))
		return
	}

	items := make([]transport.ContractorResponse, 0, len(contractors))
	for _, ct := range contractors {
		items = append(items, transport.ContractorResponse{
			ID:     ct.ID,
			Name:   ct.Name,
			Phone:  ct.Phone,
			Tags:   ct.Tags,
			Source: ct.Source,
		})
	}
	httpkit.OK(c, transport.ContractorListResponse{Count: len(items), Contractors: items})
}

// ListJobs dumps the job store, most recent dispatch first.
func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.svc.Jobs(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, apperr.Internal("job store unavailable", err))
		return
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].DispatchedAt > jobs[j].DispatchedAt })
	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	httpkit.OK(c, transport.JobListResponse{Count: len(jobs), JobIDs: ids, Jobs: jobs})
}
