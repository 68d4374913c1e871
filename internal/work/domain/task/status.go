package task

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task. Every pairwise transition is allowed.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusOnHold     Status = "on_hold"
)

// Statuses lists all statuses in display order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusDone, StatusOnHold}
}

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone, StatusOnHold:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts the snake_case names, with - or space as separators.
func ParseStatus(s string) (Status, error) {
	normalized := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	status := Status(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// PriorityLabel is an informational priority. It does not affect scoring.
type PriorityLabel string

const (
	PriorityLow    PriorityLabel = "low"
	PriorityNormal PriorityLabel = "normal"
	PriorityHigh   PriorityLabel = "high"
	PriorityUrgent PriorityLabel = "urgent"
)

// IsValid checks if the priority label is valid.
func (p PriorityLabel) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func (p PriorityLabel) String() string { return string(p) }

// ParsePriorityLabel parses a label; empty input yields PriorityNormal.
func ParsePriorityLabel(s string) (PriorityLabel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityNormal, nil
	}
	p := PriorityLabel(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}
