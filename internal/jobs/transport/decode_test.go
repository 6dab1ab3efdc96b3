package transport

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return payload
}

func TestDecodeBookingTriesLabelVariantsInOrder(t *testing.T) {
	payload := decode(t, `{
		"calendar": {"appointmentId": " A1 ", "startTime": "2026-03-02 09:00", "endTime": "2026-03-02 12:00"},
		"contact_id": "cust-1",
		"first_name": "Jane",
		"last_name": "Doe",
		"Estimated Price (Contact)": "$1,240.00",
		"Price Breakdown (Contact)": "Service: Deep Cleaning",
		"How will your cleaner get into your home?": "Lockbox",
		"How Will Your Cleaner Get Into Your Home": "",
		"Access notes for your cleaner": "Code 1234",
		"Access notes for your cleaner?": "ignored"
	}`)

	b := DecodeBooking(payload)
	if b.JobID != "A1" || b.ContactID != "cust-1" || b.CustomerName != "Jane Doe" {
		t.Fatalf("unexpected identity fields %+v", b)
	}
	if b.StartTime != "2026-03-02 09:00" || b.EndTime != "2026-03-02 12:00" {
		t.Fatalf("unexpected schedule %+v", b)
	}
	if b.EstimatedPrice != "$1,240.00" || b.PriceBreakdown != "Service: Deep Cleaning" {
		t.Fatalf("unexpected price fields %+v", b)
	}
	if b.AccessMethod != "Lockbox" {
		t.Fatalf("expected first non-empty access method variant, got %q", b.AccessMethod)
	}
	if b.AccessNotes != "Code 1234" {
		t.Fatalf("expected higher priority notes variant, got %q", b.AccessNotes)
	}
}

func TestDecodeBookingDefaults(t *testing.T) {
	b := DecodeBooking(decode(t, `{"Estimated Price": 75}`))
	if b.JobID != "" {
		t.Fatalf("expected empty job id, got %q", b.JobID)
	}
	if b.CustomerName != unknownCustomerName {
		t.Fatalf("expected unknown customer, got %q", b.CustomerName)
	}
	if b.EstimatedPrice != "75" {
		t.Fatalf("expected numeric price rendered as 75, got %q", b.EstimatedPrice)
	}
	if b.AccessMethod != "" || b.AccessNotes != "" {
		t.Fatalf("expected empty access fields, got %+v", b)
	}
}

func TestDecodeReplyVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Reply
	}{
		{
			name: "custom data wins",
			raw:  `{"contactId": "X", "customData": {"body": "YES A1", "job_id": " A1 "}, "message": {"body": "ignored"}}`,
			want: Reply{ContactID: "X", Message: "YES A1", JobID: "A1"},
		},
		{
			name: "nested message body",
			raw:  `{"contact_id": "Y", "message": {"body": "yes"}}`,
			want: Reply{ContactID: "Y", Message: "yes"},
		},
		{
			name: "plain message string",
			raw:  `{"customData": {"contact_id": "Z"}, "message": "Y"}`,
			want: Reply{ContactID: "Z", Message: "Y"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeReply(decode(t, tc.raw)); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
