// Package pricing parses the human-readable price breakdown text that the
// booking funnel stores on contacts and opportunities.
//
// Every function here is pure: the same input always yields the same output.
package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// AddOn is one extra service listed on an add-on line.
type AddOn struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
}

// Quote is the structured view of a breakdown block. Fields that were absent
// or unparseable stay nil.
type Quote struct {
	Service         *string  `json:"service,omitempty"`
	FirstCleanPrice *float64 `json:"first_clean_price,omitempty"`
	RecurringPrice  *float64 `json:"recurring_price,omitempty"`
	Frequency       *string  `json:"frequency,omitempty"`
	Discount        *string  `json:"discount,omitempty"`
	AddOns          []AddOn  `json:"add_ons,omitempty"`
	Total           *float64 `json:"total,omitempty"`
}

var (
	plainNumber      = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	amountPattern    = regexp.MustCompile(`\$?\s*(\d[\d,]*(?:\.\d+)?)`)
	frequencyPattern = regexp.MustCompile(`\(([^)]*)\)`)
	discountPattern  = regexp.MustCompile(`(?i)\(\s*(\d+(?:\.\d+)?\s*%\s*off)\s*\)`)
	addOnParenthesis = regexp.MustCompile(`^(.*?)\s*\(\s*\$?\s*([\d,]+(?:\.\d+)?)\s*\)$`)
	addOnDash        = regexp.MustCompile(`^(.*?)\s+[-–]\s+\$?\s*([\d,]+(?:\.\d+)?)$`)
)

// ParseAmount converts a money string such as "$1,240.00" to a float.
// It strips "$", thousands separators and surrounding space. What remains
// must be plain digits with an optional decimal part, so words such as "Inf"
// or "NaN" and exponent forms fail.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(raw))
	if !plainNumber.MatchString(cleaned) {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExtractAmount returns the first money-looking number inside free text,
// e.g. "$140.00 per visit" yields 140.
func ExtractAmount(text string) (float64, bool) {
	match := amountPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	return ParseAmount(match[1])
}

// TotalFromBreakdown scans the breakdown line by line and returns the value after
// the last colon of the first "Total" line that parses.
func TotalFromBreakdown(text string) (float64, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "Total") {
			continue
		}
		idx := strings.LastIndex(line, ":")
		if idx < 0 {
			continue
		}
		if value, ok := ParseAmount(line[idx+1:]); ok {
			return value, true
		}
	}
	return 0, false
}

// ParseBreakdown reads the recognised field lines of a breakdown block:
//
//	Service: Standard Home Cleaning
//	First cleaning: $180.00
//	Recurring (Biweekly): $140.00 per visit (15% off)
//	Add-ons: Inside fridge ($35), Inside oven - $30, Windows
//	Total: $215.00
//
// Labels are matched case-insensitively. Unknown lines are ignored.
func ParseBreakdown(text string) Quote {
	var q Quote
	seen := make(map[string]struct{})

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "-"))
		if line == "" {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		rawLabel := strings.TrimSpace(label)
		label = strings.ToLower(rawLabel)
		value = strings.TrimSpace(value)

		switch {
		case label == "service":
			if value != "" && q.Service == nil {
				q.Service = stringPtr(value)
			}
		case strings.HasPrefix(label, "first clean"):
			if amount, ok := ExtractAmount(value); ok && q.FirstCleanPrice == nil {
				q.FirstCleanPrice = floatPtr(amount)
			}
		case strings.HasPrefix(label, "recurring"):
			parseRecurring(&q, rawLabel, value)
		case strings.HasPrefix(label, "add-on") || strings.HasPrefix(label, "addon") || strings.HasPrefix(label, "add on"):
			for _, addOn := range parseAddOns(value) {
				key := addOnKey(addOn)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				q.AddOns = append(q.AddOns, addOn)
			}
		case strings.Contains(label, "total"):
			if q.Total == nil {
				if amount, ok := ParseAmount(value); ok {
					q.Total = floatPtr(amount)
				} else if amount, ok := ExtractAmount(value); ok {
					q.Total = floatPtr(amount)
				}
			}
		}
	}

	return q
}

func parseRecurring(q *Quote, label, value string) {
	if q.Frequency == nil {
		if match := frequencyPattern.FindStringSubmatch(label); match != nil {
			if freq := strings.TrimSpace(match[1]); freq != "" {
				q.Frequency = stringPtr(freq)
			}
		}
	}
	if q.RecurringPrice == nil {
		if amount, ok := ExtractAmount(value); ok {
			q.RecurringPrice = floatPtr(amount)
		}
	}
	if q.Discount == nil {
		if match := discountPattern.FindStringSubmatch(value); match != nil {
			q.Discount = stringPtr(strings.Join(strings.Fields(match[1]), " "))
		}
	}
}

func parseAddOns(value string) []AddOn {
	var out []AddOn
	for _, item := range splitItems(value) {
		item = strings.TrimSpace(item)
		if item == "" || strings.EqualFold(item, "none") {
			continue
		}
		if match := addOnParenthesis.FindStringSubmatch(item); match != nil && strings.TrimSpace(match[1]) != "" {
			out = append(out, newAddOn(match[1], match[2]))
			continue
		}
		if match := addOnDash.FindStringSubmatch(item); match != nil && strings.TrimSpace(match[1]) != "" {
			out = append(out, newAddOn(match[1], match[2]))
			continue
		}
		out = append(out, AddOn{Name: item})
	}
	return out
}

func newAddOn(name, amount string) AddOn {
	addOn := AddOn{Name: strings.TrimSpace(name)}
	if price, ok := ParseAmount(amount); ok {
		addOn.Price = floatPtr(price)
	}
	return addOn
}

// splitItems splits on commas that separate items, keeping thousands
// separators such as "$1,200" intact.
func splitItems(value string) []string {
	var items []string
	start := 0
	for i := 0; i < len(value); i++ {
		if value[i] != ',' {
			continue
		}
		if i > 0 && isDigit(value[i-1]) && i+1 < len(value) && isDigit(value[i+1]) {
			continue
		}
		items = append(items, value[start:i])
		start = i + 1
	}
	return append(items, value[start:])
}

func addOnKey(a AddOn) string {
	key := strings.ToLower(a.Name)
	if a.Price != nil {
		key += "|" + strconv.FormatFloat(*a.Price, 'f', 2, 64)
	}
	return key
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func stringPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
