// Package events defines the dispatch and lead events. The bus itself lives
// in platform/events and is aliased here so modules import one package.
package events

import (
	"github.com/ksquared-16/alloy/platform/events"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Dispatch Domain Events
// =============================================================================

// JobDispatched is published after a booking has been turned into a job and broadcast.
type JobDispatched struct {
	BaseEvent
	JobID         string `json:"jobId"`
	Outcome       string `json:"outcome"`
	NotifiedCount int    `json:"notifiedCount"`
}

func (e JobDispatched) EventName() string { return "jobs.job.dispatched" }

// JobAssigned is published once, when the first contractor claims a job.
type JobAssigned struct {
	BaseEvent
	JobID          string `json:"jobId"`
	ContractorID   string `json:"contractorId"`
	ContractorName string `json:"contractorName"`
}

func (e JobAssigned) EventName() string { return "jobs.job.assigned" }

// JobWriteBackFailed is published when the CRM job record could not be updated
// after an assignment. The scheduler retries it when Redis is configured.
type JobWriteBackFailed struct {
	BaseEvent
	JobID          string `json:"jobId"`
	ContractorID   string `json:"contractorId"`
	ContractorName string `json:"contractorName"`
	Status         string `json:"status"`
	AccessMethod   string `json:"accessMethod"`
	AccessNotes    string `json:"accessNotes"`
	Error          string `json:"error"`
}

func (e JobWriteBackFailed) EventName() string { return "jobs.writeback.failed" }

// =============================================================================
// Lead Intake Events
// =============================================================================

// LeadSubmitted is published when a website form created a CRM contact.
type LeadSubmitted struct {
	BaseEvent
	Kind      string `json:"kind"`
	ContactID string `json:"contactId"`
}

func (e LeadSubmitted) EventName() string { return "leads.lead.submitted" }
