package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
)

// parseDate parses YYYY-MM-DD. Empty input yields the zero date, which
// handlers read as today.
func parseDate(field, value string) (vo.Date, error) {
	if value == "" {
		return vo.Date{}, nil
	}
	d, err := vo.ParseDate(value)
	if err != nil {
		return vo.Date{}, fmt.Errorf("invalid %s format, use YYYY-MM-DD: %w", field, err)
	}
	return d, nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalDate(field string, value *string) (*vo.Date, error) {
	if value == nil {
		return nil, nil
	}
	d, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
