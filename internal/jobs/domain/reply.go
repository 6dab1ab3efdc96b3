package domain

import "strings"

// ReplyKind classifies an inbound contractor message.
type ReplyKind int

const (
	// ReplyUnrecognized is any text that is not an acceptance.
	ReplyUnrecognized ReplyKind = iota
	// ReplyExplicitJob names the job, either in metadata or as "YES <id>".
	ReplyExplicitJob
	// ReplyBareAffirmative is a lone yes-word; the job must be inferred.
	ReplyBareAffirmative
)

var affirmatives = map[string]struct{}{
	"YES":  {},
	"Y":    {},
	"YEA":  {},
	"YEAH": {},
	"YEP":  {},
}

// ParseReply applies the acceptance rules in priority order: explicit job id
// from metadata, then "YES <id>", then a bare affirmative word.
// The returned job id is empty unless kind is ReplyExplicitJob.
func ParseReply(message, explicitJobID string) (string, ReplyKind) {
	if id := strings.TrimSpace(explicitJobID); id != "" {
		return id, ReplyExplicitJob
	}

	trimmed := strings.TrimSpace(message)
	parts := strings.Fields(trimmed)
	if len(parts) >= 2 && strings.EqualFold(parts[0], "YES") {
		return parts[1], ReplyExplicitJob
	}

	if _, ok := affirmatives[strings.ToUpper(trimmed)]; ok {
		return "", ReplyBareAffirmative
	}
	return "", ReplyUnrecognized
}
