package service

import (
	"fmt"
	"strings"

	"github.com/ksquared-16/alloy/internal/jobs/domain"
	"github.com/ksquared-16/alloy/internal/pricing"
)

const (
	scheduleUnknown     = "TBD"
	entryNotSpecified   = "Not specified"
	confirmationClosing = "We'll share final details in your Alloy dashboard."
)

func when(job domain.Job) string {
	if strings.TrimSpace(job.StartTime) == "" {
		return scheduleUnknown
	}
	return job.StartTime
}

// broadcastMessage never carries the access method or notes.
func broadcastMessage(job domain.Job) string {
	return fmt.Sprintf(
		"New cleaning job available:\nCustomer: %s\nService: %s\nWhen: %s\nEst. price: $%.2f\n\nReply YES %s to accept.",
		job.CustomerName, job.ServiceType, when(job), job.EstimatedPrice, job.ID,
	)
}

func confirmationMessage(job domain.Job) string {
	var b strings.Builder
	b.WriteString("You accepted this job:\n")
	fmt.Fprintf(&b, "Customer: %s\n", job.CustomerName)
	fmt.Fprintf(&b, "When: %s\n", when(job))
	fmt.Fprintf(&b, "Est. price: $%.2f\n", job.EstimatedPrice)

	entry := strings.TrimSpace(job.AccessMethod)
	if entry == "" {
		entry = entryNotSpecified
	}
	fmt.Fprintf(&b, "Entry: %s\n", entry)
	if notes := strings.TrimSpace(job.AccessNotes); notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", notes)
	}

	if job.PriceBreakdown != "" {
		q := pricing.ParseBreakdown(job.PriceBreakdown)
		if q.Frequency != nil && q.RecurringPrice != nil {
			fmt.Fprintf(&b, "Recurring (%s): $%.2f\n", *q.Frequency, *q.RecurringPrice)
		}
		if len(q.AddOns) > 0 {
			names := make([]string, 0, len(q.AddOns))
			for _, a := range q.AddOns {
				names = append(names, a.Name)
			}
			fmt.Fprintf(&b, "Add-ons: %s\n", strings.Join(names, ", "))
		}
	}

	b.WriteString("\n")
	b.WriteString(confirmationClosing)
	return b.String()
}

func claimedMessage(job domain.Job) string {
	return fmt.Sprintf("Job for %s on %s has been claimed by another contractor.", job.CustomerName, when(job))
}

func customerAssignedMessage(job domain.Job) string {
	return fmt.Sprintf("Your cleaning on %s has been assigned to one of our partner teams. They will contact you before arrival.", when(job))
}
