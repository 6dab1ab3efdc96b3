package domain

import "strings"

// UnknownContractorName is shown when the winner is missing from the directory.
const UnknownContractorName = "Unknown contractor"

// Contractor is a CRM contact that may receive job broadcasts.
type Contractor struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Phone  string   `json:"phone"`
	Email  string   `json:"email,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Source string   `json:"source,omitempty"`
}

// Reachable reports whether the contractor can be messaged.
func (c Contractor) Reachable() bool {
	return strings.TrimSpace(c.ID) != "" && strings.TrimSpace(c.Phone) != ""
}

// HasTag matches tags case-insensitively.
func (c Contractor) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// IsEligible reports whether the contractor carries every required tag.
func IsEligible(c Contractor, requiredTags []string) bool {
	for _, tag := range requiredTags {
		if !c.HasTag(tag) {
			return false
		}
	}
	return true
}

// FilterEligible keeps the contractors that carry every required tag.
func FilterEligible(contacts []Contractor, requiredTags []string) []Contractor {
	out := make([]Contractor, 0, len(contacts))
	for _, c := range contacts {
		if IsEligible(c, requiredTags) {
			out = append(out, c)
		}
	}
	return out
}

// FindContractor looks a contractor up by id.
func FindContractor(contractors []Contractor, id string) (Contractor, bool) {
	for _, c := range contractors {
		if c.ID == id {
			return c, true
		}
	}
	return Contractor{}, false
}
