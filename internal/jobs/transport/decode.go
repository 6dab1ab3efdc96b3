// Package transport holds the wire shapes of the jobs module and the
// variant-tolerant decoders for the CRM webhook payloads.
//
// The CRM sends the same logical field under several labels depending on how
// the form or workflow was built. Every "try this label, then that label"
// rule lives here so the service only sees the normalized Booking and Reply.
package transport

import (
	"encoding/json"
	"strconv"
	"strings"
)

const unknownCustomerName = "Unknown"

var (
	accessMethodLabels = []string{
		"How Will Your Cleaner Get Into Your Home",
		"How will your cleaner get into your home",
		"How Will Your Cleaner Get Into Your Home?",
		"How will your cleaner get into your home?",
	}
	accessNotesLabels = []string{
		"Access Notes For Your Cleaner",
		"Access notes for your cleaner",
		"Access notes for your cleaner?",
	}
	estimatedPriceLabels = []string{
		"Estimated Price (Contact)",
		"Estimated Price",
	}
	priceBreakdownLabels = []string{
		"Price Breakdown (Contact)",
		"Price Breakdown",
	}
)

// DecodeBooking normalizes an appointment-booked webhook payload.
func DecodeBooking(payload map[string]any) Booking {
	calendar := object(payload, "calendar")

	name := firstString(payload, "full_name")
	if name == "" {
		name = strings.TrimSpace(firstString(payload, "first_name") + " " + firstString(payload, "last_name"))
	}
	if name == "" {
		name = unknownCustomerName
	}

	return Booking{
		JobID:          firstString(calendar, "appointmentId"),
		ContactID:      firstString(payload, "contact_id"),
		CustomerName:   name,
		EstimatedPrice: firstString(payload, estimatedPriceLabels...),
		PriceBreakdown: firstString(payload, priceBreakdownLabels...),
		StartTime:      firstString(calendar, "startTime"),
		EndTime:        firstString(calendar, "endTime"),
		AccessMethod:   firstString(payload, accessMethodLabels...),
		AccessNotes:    firstString(payload, accessNotesLabels...),
	}
}

// DecodeReply normalizes an inbound-message webhook payload.
// The message body is taken from customData.body, then message.body, then a
// plain string message field.
func DecodeReply(payload map[string]any) Reply {
	custom := object(payload, "customData")

	contactID := firstString(payload, "contact_id", "contactId")
	if contactID == "" {
		contactID = firstString(custom, "contact_id")
	}

	message := firstString(custom, "body")
	if message == "" {
		message = firstString(object(payload, "message"), "body")
	}
	if message == "" {
		message = firstString(payload, "message")
	}

	return Reply{
		ContactID: contactID,
		Message:   message,
		JobID:     firstString(custom, "job_id"),
	}
}

func object(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if nested, ok := m[key].(map[string]any); ok {
		return nested
	}
	return nil
}

// firstString returns the first non-empty value among keys, trimmed.
// Numbers are rendered without trailing zeros so "75" and 75 agree.
func firstString(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, key := range keys {
		if s := asString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}
