// Package ports defines the CRM interface the lead intake module depends on.
package ports

import "context"

// NewContact is a website submission translated for the CRM.
type NewContact struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Source       string
	Tags         []string
	CustomFields map[string]string
}

// ContactCreator creates a CRM contact and returns its id.
type ContactCreator interface {
	CreateContact(ctx context.Context, contact NewContact) (string, error)
}
