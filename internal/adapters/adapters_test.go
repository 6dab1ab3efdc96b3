package adapters

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ksquared-16/alloy/internal/ghl"
	"github.com/ksquared-16/alloy/internal/jobs/ports"
)

type fakeJobRecords struct {
	recordID  string
	findErr   error
	updateErr error
	updates   map[string]ghl.JobRecordProperties
}

func (f *fakeJobRecords) FindJobRecordID(_ context.Context, _ string) (string, error) {
	return f.recordID, f.findErr
}

func (f *fakeJobRecords) UpdateJobRecord(_ context.Context, recordID string, props ghl.JobRecordProperties) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = map[string]ghl.JobRecordProperties{}
	}
	f.updates[recordID] = props
	return nil
}

func TestJobRecordWriterUpdatesLocatedRecord(t *testing.T) {
	crm := &fakeJobRecords{recordID: "rec-1"}
	writer := NewJobRecordWriter(crm)

	err := writer.WriteAssignment(context.Background(), ports.JobAssignment{
		ExternalJobID:  "A1",
		ContractorID:   "X",
		ContractorName: "Xena",
		Status:         "contractor_assigned",
		AccessMethod:   "Lockbox",
		AccessNotes:    "Code 4412",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := crm.updates["rec-1"]
	if props.ExternalJobID != "A1" || props.ContractorAssignedName != "Xena" || props.AccessNotes != "Code 4412" {
		t.Fatalf("unexpected properties %+v", props)
	}
}

func TestJobRecordWriterMissingRecord(t *testing.T) {
	writer := NewJobRecordWriter(&fakeJobRecords{})
	err := writer.WriteAssignment(context.Background(), ports.JobAssignment{ExternalJobID: "A1", ContractorID: "X"})
	if !errors.Is(err, ErrJobRecordNotFound) {
		t.Fatalf("expected ErrJobRecordNotFound, got %v", err)
	}
}

func TestJobRecordWriterMapsCRMNotFound(t *testing.T) {
	notFound := &ghl.StatusError{Operation: "search_job_records", StatusCode: http.StatusNotFound, Body: "{}"}
	assignment := ports.JobAssignment{ExternalJobID: "A1", ContractorID: "X"}

	err := NewJobRecordWriter(&fakeJobRecords{findErr: notFound}).WriteAssignment(context.Background(), assignment)
	if !errors.Is(err, ErrJobRecordNotFound) {
		t.Fatalf("expected ErrJobRecordNotFound for a 404 search, got %v", err)
	}

	err = NewJobRecordWriter(&fakeJobRecords{recordID: "rec-1", updateErr: notFound}).WriteAssignment(context.Background(), assignment)
	if !errors.Is(err, ErrJobRecordNotFound) {
		t.Fatalf("expected ErrJobRecordNotFound for a 404 update, got %v", err)
	}

	serverErr := &ghl.StatusError{Operation: "search_job_records", StatusCode: http.StatusBadGateway}
	err = NewJobRecordWriter(&fakeJobRecords{findErr: serverErr}).WriteAssignment(context.Background(), assignment)
	if err == nil || errors.Is(err, ErrJobRecordNotFound) {
		t.Fatalf("expected a plain CRM error for a 502, got %v", err)
	}
}

func TestToQuoteOpportunityResolvesVariants(t *testing.T) {
	monetary := 310.0
	opp := toQuoteOpportunity(ghl.Opportunity{
		ID:            "o1",
		Status:        "open",
		MonetaryValue: &monetary,
		Fields: ghl.Fields{
			"quotebreakdown":     "Service: Deep Cleaning",
			"firstcleaningprice": "$1,180.00",
			"recurringprice":     "not set",
			"cleaningfrequency":  "Weekly",
		},
	})

	if opp.PriceBreakdown != "Service: Deep Cleaning" {
		t.Fatalf("unexpected breakdown %q", opp.PriceBreakdown)
	}
	if opp.FirstCleanPrice == nil || *opp.FirstCleanPrice != 1180 {
		t.Fatalf("expected first clean 1180, got %v", opp.FirstCleanPrice)
	}
	if opp.RecurringPrice != nil {
		t.Fatalf("expected unparseable recurring price to stay nil, got %v", *opp.RecurringPrice)
	}
	if opp.Frequency != "Weekly" {
		t.Fatalf("unexpected frequency %q", opp.Frequency)
	}
	if opp.EstimatedPrice == nil || *opp.EstimatedPrice != 310 {
		t.Fatalf("expected monetary value fallback, got %v", opp.EstimatedPrice)
	}
}
