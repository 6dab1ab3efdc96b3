package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ksquared-16/alloy/internal/ghl"
	"github.com/ksquared-16/alloy/internal/jobs/ports"
)

// ErrJobRecordNotFound is returned when no CRM Jobs record carries the external id.
var ErrJobRecordNotFound = errors.New("crm job record not found")

// JobRecordStore is the narrow interface over the CRM Jobs custom object.
type JobRecordStore interface {
	FindJobRecordID(ctx context.Context, externalID string) (string, error)
	UpdateJobRecord(ctx context.Context, recordID string, props ghl.JobRecordProperties) error
}

// JobRecordWriter adapts the CRM Jobs custom object to jobs/ports.JobRecordWriter.
type JobRecordWriter struct {
	crm JobRecordStore
}

// NewJobRecordWriter creates a new write-back adapter.
func NewJobRecordWriter(crm JobRecordStore) *JobRecordWriter {
	return &JobRecordWriter{crm: crm}
}

// WriteAssignment locates the record by external_job_id and overwrites its
// assignment properties.
func (a *JobRecordWriter) WriteAssignment(ctx context.Context, assignment ports.JobAssignment) error {
	if assignment.ExternalJobID == "" || assignment.ContractorID == "" {
		return fmt.Errorf("write job assignment: job id and contractor id are required")
	}

	recordID, err := a.crm.FindJobRecordID(ctx, assignment.ExternalJobID)
	if ghl.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("external_job_id %s: %w", assignment.ExternalJobID, ErrJobRecordNotFound)
	}
	if err != nil {
		return fmt.Errorf("find crm job record %s: %w", assignment.ExternalJobID, err)
	}
	if recordID == "" {
		return fmt.Errorf("external_job_id %s: %w", assignment.ExternalJobID, ErrJobRecordNotFound)
	}

	err = a.crm.UpdateJobRecord(ctx, recordID, ghl.JobRecordProperties{
		ExternalJobID:          assignment.ExternalJobID,
		ContractorAssignedID:   assignment.ContractorID,
		ContractorAssignedName: assignment.ContractorName,
		JobStatus:              assignment.Status,
		AccessMethod:           assignment.AccessMethod,
		AccessNotes:            assignment.AccessNotes,
	})
	if ghl.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("record %s: %w", recordID, ErrJobRecordNotFound)
	}
	if err != nil {
		return fmt.Errorf("update crm job record %s: %w", recordID, err)
	}
	return nil
}

var _ ports.JobRecordWriter = (*JobRecordWriter)(nil)
