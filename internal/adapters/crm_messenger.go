package adapters

import (
	"context"

	"github.com/ksquared-16/alloy/internal/jobs/ports"
)

// SMSSender is the narrow interface for sending a conversation SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, contactID, message string) error
}

// CRMMessenger adapts the CRM conversations API to jobs/ports.Messenger.
type CRMMessenger struct {
	crm SMSSender
}

// NewCRMMessenger creates a new messenger adapter.
func NewCRMMessenger(crm SMSSender) *CRMMessenger {
	return &CRMMessenger{crm: crm}
}

// SendSMS delivers message to the contact's phone on file.
func (a *CRMMessenger) SendSMS(ctx context.Context, contactID, message string) error {
	return a.crm.SendSMS(ctx, contactID, message)
}

var _ ports.Messenger = (*CRMMessenger)(nil)
