package domain

import (
	"errors"
	"testing"
)

func TestAssignFirstWriteWins(t *testing.T) {
	job := Job{ID: "A1"}

	if err := job.Assign("X", "Xavier"); err != nil {
		t.Fatalf("expected first assignment to succeed, got %v", err)
	}
	if err := job.Assign("Y", "Yolanda"); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if job.AssignedContractorID != "X" || job.AssignedContractorName != "Xavier" {
		t.Fatalf("expected X to keep the job, got %q/%q", job.AssignedContractorID, job.AssignedContractorName)
	}
}

func TestAssignRequiresContractor(t *testing.T) {
	job := Job{ID: "A1"}
	if err := job.Assign("  ", "Nobody"); !errors.Is(err, ErrMissingContractor) {
		t.Fatalf("expected ErrMissingContractor, got %v", err)
	}
	if job.IsAssigned() {
		t.Fatalf("expected job to stay pending")
	}
}

func TestMarkNotifiedOnlyGrows(t *testing.T) {
	job := Job{ID: "A1"}
	job.MarkNotified("X")
	job.MarkNotified("Y")
	job.MarkNotified("X")
	job.MarkNotified("")

	if len(job.NotifiedContractors) != 2 || job.NotifiedContractors[0] != "X" || job.NotifiedContractors[1] != "Y" {
		t.Fatalf("unexpected notified set %v", job.NotifiedContractors)
	}
}

func TestRebookKeepsNotifiedSet(t *testing.T) {
	job := Job{ID: "A1", CustomerName: "Jane", NotifiedContractors: []string{"X"}, DispatchedAt: "2026-03-01T09:00:01.000000Z"}
	booked := Job{ID: "A1", CustomerName: "Jane Doe", StartTime: "Tuesday 9am", DispatchedAt: "2026-03-01T09:00:05.000000Z", NotifiedContractors: []string{}}

	if err := job.Rebook(booked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.CustomerName != "Jane Doe" || job.StartTime != "Tuesday 9am" || job.DispatchedAt != booked.DispatchedAt {
		t.Fatalf("expected booking details to be applied, got %+v", job)
	}
	if len(job.NotifiedContractors) != 1 || job.NotifiedContractors[0] != "X" {
		t.Fatalf("expected notified set to be kept, got %v", job.NotifiedContractors)
	}
}

func TestRebookLeavesAssignedJobUntouched(t *testing.T) {
	job := Job{ID: "A1", CustomerName: "Jane", NotifiedContractors: []string{"X", "Y"}}
	if err := job.Assign("X", "Xavier"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	err := job.Rebook(Job{ID: "A1", CustomerName: "Someone Else"})
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if job.AssignedContractorID != "X" || job.CustomerName != "Jane" || len(job.NotifiedContractors) != 2 {
		t.Fatalf("expected assigned job to stay unchanged, got %+v", job)
	}
}

func TestServiceTypeFromBreakdownIsCaseSensitive(t *testing.T) {
	if got := ServiceTypeFromBreakdown("Service: Deep Cleaning"); got != ServiceTypeDeep {
		t.Fatalf("expected deep tier, got %q", got)
	}
	if got := ServiceTypeFromBreakdown("service: deep cleaning"); got != ServiceTypeStandard {
		t.Fatalf("expected standard tier for lowercase deep, got %q", got)
	}
	if got := ServiceTypeFromBreakdown(""); got != ServiceTypeStandard {
		t.Fatalf("expected standard tier by default, got %q", got)
	}
}

func TestLatestNotifiedJob(t *testing.T) {
	jobs := []Job{
		{ID: "old", NotifiedContractors: []string{"X"}, DispatchedAt: "2026-01-01T09:00:00.000000Z"},
		{ID: "new", NotifiedContractors: []string{"X", "Y"}, DispatchedAt: "2026-01-02T09:00:00.000000Z"},
		{ID: "other", NotifiedContractors: []string{"Y"}, DispatchedAt: "2026-01-03T09:00:00.000000Z"},
	}

	job, ok := LatestNotifiedJob(jobs, "X")
	if !ok || job.ID != "new" {
		t.Fatalf("expected latest job for X to be new, got %q (%v)", job.ID, ok)
	}
	if _, ok := LatestNotifiedJob(jobs, "Z"); ok {
		t.Fatalf("expected no job for an unknown contractor")
	}
}

func TestCloneDoesNotShareNotifiedSet(t *testing.T) {
	job := Job{ID: "A1", NotifiedContractors: []string{"X"}}
	clone := job.Clone()
	clone.MarkNotified("Y")
	if len(job.NotifiedContractors) != 1 {
		t.Fatalf("expected original to be untouched, got %v", job.NotifiedContractors)
	}
}

func TestFilterEligibleRequiresEveryTag(t *testing.T) {
	contacts := []Contractor{
		{ID: "1", Tags: []string{"contractor_cleaning", "job-pending-assignment"}},
		{ID: "2", Tags: []string{"contractor_cleaning"}},
		{ID: "3", Tags: []string{"Contractor_Cleaning", " job-pending-assignment "}},
	}
	got := FilterEligible(contacts, []string{"contractor_cleaning", "job-pending-assignment"})
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected eligible set %+v", got)
	}
}
