// Package domain provides core business rules for the job dispatch bounded context.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Service tiers recognised from the booking's price breakdown.
const (
	ServiceTypeStandard = "Standard Home Cleaning"
	ServiceTypeDeep     = "Deep Cleaning"
)

// StatusContractorAssigned is written to the CRM job record after a claim.
const StatusContractorAssigned = "contractor_assigned"

// TimestampLayout is fixed-width UTC so dispatch times sort lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var (
	// ErrJobNotFound is returned by stores when no job has the identifier.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists is returned by Store.Insert when the id is already stored.
	ErrJobExists = errors.New("job already exists")
	// ErrAlreadyAssigned is returned when a second contractor tries to claim a job.
	ErrAlreadyAssigned = errors.New("job already assigned")
	// ErrMissingContractor is returned when an assignment carries no contractor id.
	ErrMissingContractor = errors.New("contractor id is required")
)

// Job is one dispatchable service appointment moving from pending to assigned.
type Job struct {
	ID                     string   `json:"job_id"`
	CustomerName           string   `json:"customer_name"`
	CustomerContactID      string   `json:"contact_id,omitempty"`
	ServiceType            string   `json:"service_type"`
	EstimatedPrice         float64  `json:"estimated_price"`
	PriceBreakdown         string   `json:"price_breakdown,omitempty"`
	StartTime              string   `json:"start_time,omitempty"`
	EndTime                string   `json:"end_time,omitempty"`
	AccessMethod           string   `json:"access_method,omitempty"`
	AccessNotes            string   `json:"access_notes,omitempty"`
	NotifiedContractors    []string `json:"notified_contractors"`
	AssignedContractorID   string   `json:"assigned_contractor_id,omitempty"`
	AssignedContractorName string   `json:"assigned_contractor_name,omitempty"`
	DispatchedAt           string   `json:"dispatched_at"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ServiceTypeFromBreakdown classifies the job tier. The check is a plain
// case-sensitive substring match on "Deep".
func ServiceTypeFromBreakdown(breakdown string) string {
	if strings.Contains(breakdown, "Deep") {
		return ServiceTypeDeep
	}
	return ServiceTypeStandard
}

// IsAssigned reports whether a contractor already holds the job.
func (j *Job) IsAssigned() bool {
	return j.AssignedContractorID != ""
}

// WasNotified reports whether the contractor received the broadcast for this job.
func (j *Job) WasNotified(contractorID string) bool {
	for _, id := range j.NotifiedContractors {
		if id == contractorID {
			return true
		}
	}
	return false
}

// MarkNotified appends the contractor to the notified set. The set only grows
// and keeps insertion order; repeated ids are ignored.
func (j *Job) MarkNotified(contractorID string) {
	if contractorID == "" || j.WasNotified(contractorID) {
		return
	}
	j.NotifiedContractors = append(j.NotifiedContractors, contractorID)
}

// Assign moves the job into the assigned state. The first caller wins;
// later callers get ErrAlreadyAssigned and the job is left untouched.
func (j *Job) Assign(contractorID, contractorName string) error {
	if strings.TrimSpace(contractorID) == "" {
		return ErrMissingContractor
	}
	if j.IsAssigned() {
		return ErrAlreadyAssigned
	}
	j.AssignedContractorID = contractorID
	j.AssignedContractorName = contractorName
	return nil
}

// Rebook applies a repeated booking for the same id. A pending job takes the
// booking details and the new dispatch time but keeps its notified set. An
// assigned job is left untouched and ErrAlreadyAssigned is returned.
func (j *Job) Rebook(booked Job) error {
	if j.IsAssigned() {
		return ErrAlreadyAssigned
	}
	id, notified := j.ID, j.NotifiedContractors
	*j = booked.Clone()
	j.ID = id
	j.NotifiedContractors = notified
	if j.NotifiedContractors == nil {
		j.NotifiedContractors = []string{}
	}
	j.AssignedContractorID = ""
	j.AssignedContractorName = ""
	return nil
}

// Clone returns a deep copy so callers never share the notified slice.
func (j Job) Clone() Job {
	out := j
	if j.NotifiedContractors != nil {
		out.NotifiedContractors = append([]string(nil), j.NotifiedContractors...)
	}
	return out
}

// LatestNotifiedJob returns the most recently dispatched job whose notified set
// contains the contractor.
func LatestNotifiedJob(jobs []Job, contractorID string) (Job, bool) {
	var (
		latest Job
		found  bool
	)
	for _, job := range jobs {
		if !job.WasNotified(contractorID) {
			continue
		}
		if !found || job.DispatchedAt > latest.DispatchedAt {
			latest = job
			found = true
		}
	}
	return latest, found
}
