package ghl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const searchPageLimit = 20

// ListContacts fetches one page of contacts for the location. Concurrent
// callers share a single in-flight request; every call still hits the CRM.
func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	// The shared fetch must not fail for every waiter when the first caller
	// goes away; the http client timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.directory.DoChan("contacts", func() (any, error) {
		query := url.Values{}
		query.Set("locationId", c.locationID)
		query.Set("limit", strconv.Itoa(c.directoryLimit))

		var resp map[string]any
		if _, err := c.do(shared, "list_contacts", http.MethodGet, "/contacts/", query, nil, &resp); err != nil {
			return nil, err
		}
		return decodeContacts(resp["contacts"]), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Contact), nil
	}
}

// SearchResult carries the decoded matches plus the raw body for diagnostics.
type SearchResult struct {
	StatusCode int
	Contacts   []Contact
	Raw        string
}

// SearchContacts runs the CRM's free-text contact search for query.
func (c *Client) SearchContacts(ctx context.Context, query string) (SearchResult, error) {
	params := url.Values{}
	params.Set("locationId", c.locationID)
	body := map[string]any{
		"query":     strings.TrimSpace(query),
		"page":      1,
		"pageLimit": searchPageLimit,
	}

	var resp any
	raw, err := c.do(ctx, "search_contacts", http.MethodPost, "/contacts/search", params, body, &resp)
	result := SearchResult{StatusCode: http.StatusOK, Raw: string(raw)}
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			result.StatusCode = statusErr.StatusCode
		}
		return result, err
	}

	switch v := resp.(type) {
	case map[string]any:
		result.Contacts = decodeContacts(v["contacts"])
	case []any:
		result.Contacts = decodeContacts(v)
	}
	return result, nil
}

// NewContact is the payload for CreateContact.
type NewContact struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Source       string
	Tags         []string
	CustomFields map[string]string
}

type customFieldValue struct {
	Key   string `json:"key"`
	Value string `json:"field_value"`
}

type createContactRequest struct {
	LocationID   string             `json:"locationId"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName,omitempty"`
	Email        string             `json:"email,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Source       string             `json:"source,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	CustomFields []customFieldValue `json:"customFields,omitempty"`
}

type createContactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

// CreateContact creates a contact and returns its id.
func (c *Client) CreateContact(ctx context.Context, contact NewContact) (string, error) {
	payload := createContactRequest{
		LocationID: c.locationID,
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Email:      contact.Email,
		Phone:      contact.Phone,
		Source:     contact.Source,
		Tags:       contact.Tags,
	}
	keys := make([]string, 0, len(contact.CustomFields))
	for key := range contact.CustomFields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		payload.CustomFields = append(payload.CustomFields, customFieldValue{Key: key, Value: contact.CustomFields[key]})
	}

	var resp createContactResponse
	if _, err := c.do(ctx, "create_contact", http.MethodPost, "/contacts/", nil, payload, &resp); err != nil {
		return "", err
	}
	if resp.Contact.ID == "" {
		return "", fmt.Errorf("ghl create_contact: response carried no contact id")
	}
	return resp.Contact.ID, nil
}

func decodeContacts(v any) []Contact {
	objects := asObjects(v)
	contacts := make([]Contact, 0, len(objects))
	for _, raw := range objects {
		contacts = append(contacts, decodeContact(raw))
	}
	return contacts
}
