package transport

import "github.com/ksquared-16/alloy/internal/jobs/domain"

// Booking is the normalized booking event produced by DecodeBooking.
type Booking struct {
	JobID          string
	ContactID      string
	CustomerName   string
	EstimatedPrice string
	PriceBreakdown string
	StartTime      string
	EndTime        string
	AccessMethod   string
	AccessNotes    string
}

// Reply is the normalized contractor reply produced by DecodeReply.
type Reply struct {
	ContactID string
	Message   string
	JobID     string
}

// DispatchResponse is returned by POST /dispatch.
type DispatchResponse struct {
	OK                  bool       `json:"ok"`
	Reason              string     `json:"reason,omitempty"`
	Job                 domain.Job `json:"job"`
	ContractorsNotified []string   `json:"contractors_notified"`
	SendFailures        []string   `json:"send_failures,omitempty"`
}

// ReplyResponse is returned by POST /contractor-reply.
type ReplyResponse struct {
	OK             bool   `json:"ok"`
	Reason         string `json:"reason,omitempty"`
	JobID          string `json:"job_id,omitempty"`
	ContractorID   string `json:"contractor_id,omitempty"`
	ContractorName string `json:"contractor_name,omitempty"`
	AssignedTo     string `json:"assigned_to,omitempty"`
	AssignedToName string `json:"assigned_to_name,omitempty"`
	ContactID      string `json:"contact_id,omitempty"`
	MessageText    string `json:"message_text,omitempty"`
}

// ContractorResponse is one entry of GET /contractors.
type ContractorResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Phone  string   `json:"phone"`
	Tags   []string `json:"tags"`
	Source string   `json:"contact_source"`
}

// ContractorListResponse is returned by GET /contractors.
type ContractorListResponse struct {
	Count       int                  `json:"count"`
	Contractors []ContractorResponse `json:"contractors"`
}

// JobListResponse is returned by GET /debug/jobs.
type JobListResponse struct {
	Count  int          `json:"count"`
	JobIDs []string     `json:"job_ids"`
	Jobs   []domain.Job `json:"jobs"`
}
