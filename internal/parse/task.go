package parse

import (
	"fmt"
	"regexp"
	"strings"

	"warehouse-ops-backend/internal/fleet"
)

var (
	// "<kind> - <details>", also tolerating ":" or an en dash as separator.
	taskRe   = regexp.MustCompile(`(?i)^\s*(pick item|deliver item|scan shelf|charge battery)\s*(?:[-–:]\s*(.*?))?\s*$`)
	spacesRe = regexp.MustCompile(`\s+`)
	itemIDRe = regexp.MustCompile(`(?i)\bPID-\d+\b`)
)

// ParsedTask holds the structured form of a task description.
type ParsedTask struct {
	Kind    string
	Details string
}

// Description renders the task the way the operator form would submit it.
func (p ParsedTask) Description() string {
	return fleet.DescribeTask(p.Kind, p.Details)
}

// ParseTask splits a description such as "Deliver Item - Packing Area" into
// its kind and details. Free text with no recognised kind is an error.
func ParseTask(raw string) (ParsedTask, error) {
	s := strings.TrimSpace(spacesRe.ReplaceAllString(raw, " "))
	m := taskRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedTask{}, fmt.Errorf("unrecognised task description: %q", raw)
	}

	kind := canonicalKind(m[1])
	details := strings.TrimSpace(m[2])
	if kind == fleet.TaskPickItem {
		if id := itemIDRe.FindString(details); id != "" {
			details = strings.ToUpper(id)
		}
	}
	return ParsedTask{Kind: kind, Details: details}, nil
}

// DetailsFor returns the details to pass along with a description. Unknown
// kinds yield an empty string, which is valid for free-text tasks.
func DetailsFor(description string) string {
	p, err := ParseTask(description)
	if err != nil {
		return ""
	}
	return p.Details
}

func canonicalKind(s string) string {
	for _, k := range fleet.TaskKinds {
		if strings.EqualFold(k, s) {
			return k
		}
	}
	return s
}
