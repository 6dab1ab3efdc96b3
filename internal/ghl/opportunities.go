package ghl

import (
	"context"
	"net/http"
	"net/url"
)

const opportunitiesPageLimit = "50"

// ListOpportunities returns the opportunities attached to contactID.
func (c *Client) ListOpportunities(ctx context.Context, contactID string) ([]Opportunity, error) {
	query := url.Values{}
	query.Set("locationId", c.locationID)
	query.Set("contactId", contactID)
	query.Set("limit", opportunitiesPageLimit)

	var resp map[string]any
	if _, err := c.do(ctx, "list_opportunities", http.MethodGet, "/opportunities/", query, nil, &resp); err != nil {
		return nil, err
	}

	objects := asObjects(resp["opportunities"])
	out := make([]Opportunity, 0, len(objects))
	for _, raw := range objects {
		out = append(out, decodeOpportunity(raw))
	}
	return out, nil
}
