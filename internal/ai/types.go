package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured is returned by every operation when no API key is set.
	ErrNotConfigured = errors.New("ai gateway is not configured")
	// ErrInvalidResponse wraps model output that does not have the expected shape.
	ErrInvalidResponse = errors.New("invalid ai response")
	// ErrInvalidRequest is returned before calling the model when input is unusable.
	ErrInvalidRequest = errors.New("invalid ai request")
)

// Priority ranks a co-pilot suggestion.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ActionType is the kind of a single plan step.
type ActionType string

const (
	ActionAssignBot   ActionType = "ASSIGN_BOT"
	ActionFlagReorder ActionType = "FLAG_REORDER"
	ActionInfo        ActionType = "INFO"
)

// Step is one action of a co-pilot plan. Details carry botId and task for
// ASSIGN_BOT, productIds or productId for FLAG_REORDER.
type Step struct {
	ActionType  ActionType     `json:"actionType"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
}

// String returns the string detail under key, or "".
func (s Step) String(key string) string {
	v, _ := s.Details[key].(string)
	return strings.TrimSpace(v)
}

// ProductIDs collects the product ids a FLAG_REORDER step refers to.
func (s Step) ProductIDs() []string {
	var ids []string
	if list, ok := s.Details["productIds"].([]any); ok {
		for _, v := range list {
			if id, ok := v.(string); ok && strings.TrimSpace(id) != "" {
				ids = append(ids, strings.TrimSpace(id))
			}
		}
	}
	if id := s.String("productId"); id != "" {
		ids = append(ids, id)
	}
	return ids
}

// Suggestion is a plan proposed by the operations co-pilot.
type Suggestion struct {
	ID         string   `json:"id"`
	Priority   Priority `json:"priority"`
	IssueTitle string   `json:"issueTitle"`
	Analysis   string   `json:"analysis"`
	Steps      []Step   `json:"steps"`
}

// Validate checks the fields a suggestion must carry before it is shown.
func (s Suggestion) Validate() error {
	switch s.Priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
	default:
		return fmt.Errorf("%w: suggestion %q has priority %q", ErrInvalidResponse, s.IssueTitle, s.Priority)
	}
	if strings.TrimSpace(s.IssueTitle) == "" {
		return fmt.Errorf("%w: suggestion without issue title", ErrInvalidResponse)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: suggestion %q has no steps", ErrInvalidResponse, s.IssueTitle)
	}
	for _, st := range s.Steps {
		switch st.ActionType {
		case ActionAssignBot, ActionFlagReorder, ActionInfo:
		default:
			return fmt.Errorf("%w: suggestion %q has action type %q", ErrInvalidResponse, s.IssueTitle, st.ActionType)
		}
	}
	return nil
}

// Actionable reports whether at least one step does something.
func (s Suggestion) Actionable() bool {
	for _, st := range s.Steps {
		if st.ActionType != ActionInfo {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the suggestion.
func (s Suggestion) Clone() Suggestion {
	steps := make([]Step, len(s.Steps))
	for i, st := range s.Steps {
		if st.Details != nil {
			d := make(map[string]any, len(st.Details))
			for k, v := range st.Details {
				if list, ok := v.([]any); ok {
					v = append([]any(nil), list...)
				}
				d[k] = v
			}
			st.Details = d
		}
		steps[i] = st
	}
	s.Steps = steps
	return s
}

// Delegation is the model's choice of bot for an operator's task.
type Delegation struct {
	BotID  string `json:"botId"`
	Reason string `json:"reason"`
	Task   string `json:"task"`
}

// ReportType selects the data set of a report.
type ReportType string

const (
	ReportInventory      ReportType = "Inventory"
	ReportBotPerformance ReportType = "Bot Performance"
)

// ForecastPoint is one month of a demand forecast.
type ForecastPoint struct {
	Month     string `json:"month"`
	Actual    *int   `json:"actual,omitempty"`
	Predicted int    `json:"predicted"`
}

// VideoRequest describes a video generation job.
type VideoRequest struct {
	Prompt      string
	Image       []byte
	MIMEType    string
	AspectRatio string
}

// Video is a finished generated video.
type Video struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
}
