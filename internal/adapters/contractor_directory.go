package adapters

import (
	"context"
	"fmt"

	"github.com/ksquared-16/alloy/internal/ghl"
	"github.com/ksquared-16/alloy/internal/jobs/domain"
	"github.com/ksquared-16/alloy/internal/jobs/ports"
)

// ContactLister is the narrow interface for fetching the CRM contact directory.
type ContactLister interface {
	ListContacts(ctx context.Context) ([]ghl.Contact, error)
}

// ContractorDirectory adapts the CRM contact list to jobs/ports.ContractorDirectory.
// It returns every contact; eligibility stays a jobs domain decision.
type ContractorDirectory struct {
	crm ContactLister
}

// NewContractorDirectory creates a new contractor directory adapter.
func NewContractorDirectory(crm ContactLister) *ContractorDirectory {
	return &ContractorDirectory{crm: crm}
}

// ListContractors returns the CRM contacts as contractor candidates.
func (a *ContractorDirectory) ListContractors(ctx context.Context) ([]domain.Contractor, error) {
	contacts, err := a.crm.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crm contacts: %w", err)
	}

	out := make([]domain.Contractor, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, domain.Contractor{
			ID:     c.ID,
			Name:   c.Name,
			Phone:  c.Phone,
			Email:  c.Email,
			Tags:   append([]string(nil), c.Tags...),
			Source: c.Source,
		})
	}
	return out, nil
}

// Compile-time check that ContractorDirectory implements the jobs port
var _ ports.ContractorDirectory = (*ContractorDirectory)(nil)
