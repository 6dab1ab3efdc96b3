package ghl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type sendMessageRequest struct {
	LocationID string `json:"locationId"`
	ContactID  string `json:"contactId"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

// SendSMS sends message to the contact's phone on file through the
// Conversations API.
func (c *Client) SendSMS(ctx context.Context, contactID, message string) error {
	if strings.TrimSpace(contactID) == "" {
		return fmt.Errorf("ghl send_sms: contact id is required")
	}

	payload := sendMessageRequest{
		LocationID: c.locationID,
		ContactID:  contactID,
		Type:       "SMS",
		Message:    message,
	}
	if _, err := c.do(ctx, "send_sms", http.MethodPost, "/conversations/messages", nil, payload, nil); err != nil {
		return err
	}

	c.log.Info("sms sent via conversations api", "contactId", contactID)
	return nil
}
