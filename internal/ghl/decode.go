package ghl

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Contact is the normalized view of a CRM contact.
type Contact struct {
	ID           string
	Name         string
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Source       string
	Tags         []string
	UpdatedAt    string
	CustomFields Fields
}

// Opportunity is the normalized view of a CRM opportunity.
type Opportunity struct {
	ID            string
	ContactID     string
	Status        string
	UpdatedAt     string
	MonetaryValue *float64
	Fields        Fields
}

// Fields holds scalar attributes keyed by a normalized name: lower case with
// every non-alphanumeric rune removed and any "contact." or "opportunity."
// prefix dropped. "priceBreakdown", "price_breakdown" and "Price Breakdown"
// all land on the same key.
type Fields map[string]string

// Get returns the first non-empty value among names.
func (f Fields) Get(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(f[normalizeKey(name)]); v != "" {
			return v
		}
	}
	return ""
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, prefix := range []string{"contact.", "opportunity."} {
		key = strings.TrimPrefix(key, prefix)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, key)
}

func decodeContact(raw map[string]any) Contact {
	c := Contact{
		ID:        str(raw["id"]),
		FirstName: str(raw["firstName"]),
		LastName:  str(raw["lastName"]),
		Phone:     str(raw["phone"]),
		Email:     str(raw["email"]),
		Source:    str(raw["source"]),
		Tags:      stringList(raw["tags"]),
		UpdatedAt: firstNonEmpty(str(raw["updatedAt"]), str(raw["dateUpdated"])),
	}
	c.Name = firstNonEmpty(
		str(raw["contactName"]),
		str(raw["name"]),
		strings.TrimSpace(c.FirstName+" "+c.LastName),
	)
	c.CustomFields = customFields(raw)
	return c
}

func decodeOpportunity(raw map[string]any) Opportunity {
	o := Opportunity{
		ID:        str(raw["id"]),
		ContactID: firstNonEmpty(str(raw["contactId"]), nestedID(raw["contact"])),
		Status:    strings.ToLower(str(raw["status"])),
		UpdatedAt: firstNonEmpty(str(raw["updatedAt"]), str(raw["dateUpdated"]), str(raw["lastStatusChangeAt"])),
	}
	if v, ok := number(raw["monetaryValue"]); ok {
		o.MonetaryValue = &v
	}

	fields := customFields(raw)
	for key, value := range raw {
		if s := scalar(value); s != "" {
			k := normalizeKey(key)
			if _, exists := fields[k]; !exists {
				fields[k] = s
			}
		}
	}
	o.Fields = fields
	return o
}

// customFields accepts both shapes the CRM emits: a list of
// {id|key|fieldKey|name, value|field_value|fieldValue} objects or a flat map.
func customFields(raw map[string]any) Fields {
	fields := Fields{}
	for _, name := range []string{"customFields", "custom_fields", "customField"} {
		switch v := raw[name].(type) {
		case []any:
			for _, item := range v {
				entry, ok := item.(map[string]any)
				if !ok {
					continue
				}
				value := firstNonEmpty(scalar(entry["value"]), scalar(entry["field_value"]), scalar(entry["fieldValue"]))
				if value == "" {
					continue
				}
				for _, keyName := range []string{"key", "fieldKey", "name", "id"} {
					if key := normalizeKey(str(entry[keyName])); key != "" {
						if _, exists := fields[key]; !exists {
							fields[key] = value
						}
					}
				}
			}
		case map[string]any:
			for key, value := range v {
				if s := scalar(value); s != "" {
					fields[normalizeKey(key)] = s
				}
			}
		}
	}
	return fields
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// scalar renders strings and numbers; anything else yields "".
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	default:
		return 0, false
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := str(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nestedID(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return str(m["id"])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func asObjects(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
