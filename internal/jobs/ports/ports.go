// Package ports defines the interfaces that the jobs domain requires from
// external systems. These interfaces form the Anti-Corruption Layer (ACL):
// the jobs domain only knows about the data it needs, formatted the way it wants.
package ports

import (
	"context"

	"github.com/ksquared-16/alloy/internal/jobs/domain"
)

// ContractorDirectory returns the CRM contacts that may be contractors.
// Eligibility filtering is done by the jobs domain, not the directory.
type ContractorDirectory interface {
	ListContractors(ctx context.Context) ([]domain.Contractor, error)
}

// Messenger sends a text message to a CRM contact.
type Messenger interface {
	SendSMS(ctx context.Context, contactID, message string) error
}

// JobAssignment is the data written back to the CRM job record after a claim.
type JobAssignment struct {
	ExternalJobID  string `json:"external_job_id"`
	ContractorID   string `json:"contractor_id"`
	ContractorName string `json:"contractor_name"`
	Status         string `json:"status"`
	AccessMethod   string `json:"access_method"`
	AccessNotes    string `json:"access_notes"`
}

// JobRecordWriter locates the CRM job record by its external id and updates it.
type JobRecordWriter interface {
	WriteAssignment(ctx context.Context, assignment JobAssignment) error
}
