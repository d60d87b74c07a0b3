package intent

import (
	"regexp"
	"strings"
)

// Kind is the routing outcome for an inbound message.
type Kind string

const (
	KindQuery Kind = "query" // answer from note content
	KindEdit  Kind = "edit"  // the message requests a note mutation
)

// Classification carries the routing decision and, for edit intent,
// the extracted note description.
type Classification struct {
	Kind        Kind
	Description string
}

// Classification is rule-based and intentionally conservative: only a fixed
// set of anchored phrase patterns triggers edit intent, everything else is a
// plain query. Patterns are ordered; the first match wins.
var editPatterns = []*regexp.Regexp{
	// "edit my note <description>" / "edit my note about|on|titled <description>"
	// An optional "to <instructions>" tail is cut off the description.
	regexp.MustCompile(`(?i)^\s*edit\s+my\s+note\s+(?:(?:about|on|titled)\s+)?(.+?)(?:\s+to\s+.+)?$`),
	// "... edit the note about|on|titled <description>"
	regexp.MustCompile(`(?i)\bedit\s+the\s+note\s+(?:about|on|titled)\s+(.+?)(?:\s+to\s+.+)?$`),
}

// Classify decides whether a message is a plain query or an edit request.
func Classify(message string) Classification {
	for _, pattern := range editPatterns {
		m := pattern.FindStringSubmatch(message)
		if len(m) < 2 {
			continue
		}
		desc := cleanDescription(m[1])
		if desc == "" {
			continue
		}
		return Classification{Kind: KindEdit, Description: desc}
	}
	return Classification{Kind: KindQuery}
}

// cleanDescription strips quotes and trailing punctuation from a capture.
func cleanDescription(raw string) string {
	desc := strings.TrimSpace(raw)
	desc = strings.Trim(desc, `"'`)
	desc = strings.TrimRight(desc, ".!?,;:")
	return strings.TrimSpace(desc)
}
