package ghl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const jobsObjectPath = "/objects/custom_objects.jobs/records"

// JobRecordProperties are the custom object properties written on assignment.
// The JSON names are the unique keys configured on the CRM's Jobs object.
type JobRecordProperties struct {
	ExternalJobID          string `json:"external_job_id"`
	ContractorAssignedID   string `json:"contractor_assigned_id"`
	ContractorAssignedName string `json:"contractor_assigned_name"`
	JobStatus              string `json:"job_status"`
	AccessMethod           string `json:"how_will_your_cleaner_get_into_your_home"`
	AccessNotes            string `json:"access_notes_for_your_cleaner"`
}

type recordFilter struct {
	Group    string         `json:"group,omitempty"`
	Field    string         `json:"field,omitempty"`
	Operator string         `json:"operator,omitempty"`
	Value    string         `json:"value,omitempty"`
	Filters  []recordFilter `json:"filters,omitempty"`
}

type searchRecordsRequest struct {
	LocationID string         `json:"locationId"`
	Page       int            `json:"page"`
	PageLimit  int            `json:"pageLimit"`
	Filters    []recordFilter `json:"filters"`
}

// FindJobRecordID looks up the Jobs record whose external_job_id equals
// externalID. It returns "" with a nil error when no record matches.
func (c *Client) FindJobRecordID(ctx context.Context, externalID string) (string, error) {
	if externalID == "" {
		return "", nil
	}

	payload := searchRecordsRequest{
		LocationID: c.locationID,
		Page:       1,
		PageLimit:  1,
		Filters: []recordFilter{{
			Group: "AND",
			Filters: []recordFilter{{
				Group: "AND",
				Filters: []recordFilter{{
					Field:    "properties.external_job_id",
					Operator: "eq",
					Value:    externalID,
				}},
			}},
		}},
	}

	var resp map[string]any
	if _, err := c.do(ctx, "search_job_records", http.MethodPost, jobsObjectPath+"/search", nil, payload, &resp); err != nil {
		return "", err
	}

	records := asObjects(resp["records"])
	if len(records) == 0 {
		records = asObjects(resp["customObjectRecords"])
	}
	if len(records) == 0 {
		return "", nil
	}
	return str(records[0]["id"]), nil
}

// UpdateJobRecord overwrites the assignment properties of record recordID.
func (c *Client) UpdateJobRecord(ctx context.Context, recordID string, props JobRecordProperties) error {
	if recordID == "" {
		return fmt.Errorf("ghl update_job_record: record id is required")
	}

	query := url.Values{}
	query.Set("locationId", c.locationID)
	payload := map[string]any{"properties": props}

	_, err := c.do(ctx, "update_job_record", http.MethodPut, jobsObjectPath+"/"+url.PathEscape(recordID), query, payload, nil)
	return err
}
