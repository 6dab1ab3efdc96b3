package adapters

import (
	"context"

	"github.com/ksquared-16/alloy/internal/ghl"
	leadports "github.com/ksquared-16/alloy/internal/leads/ports"
)

// ContactCreatorClient is the narrow interface for creating CRM contacts.
type ContactCreatorClient interface {
	CreateContact(ctx context.Context, contact ghl.NewContact) (string, error)
}

// LeadContactCreator adapts CRM contact creation to leads/ports.ContactCreator.
type LeadContactCreator struct {
	crm ContactCreatorClient
}

func NewLeadContactCreator(crm ContactCreatorClient) *LeadContactCreator {
	return &LeadContactCreator{crm: crm}
}

func (a *LeadContactCreator) CreateContact(ctx context.Context, contact leadports.NewContact) (string, error) {
	return a.crm.CreateContact(ctx, ghl.NewContact{
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		Email:        contact.Email,
		Phone:        contact.Phone,
		Source:       contact.Source,
		Tags:         contact.Tags,
		CustomFields: contact.CustomFields,
	})
}

var _ leadports.ContactCreator = (*LeadContactCreator)(nil)
