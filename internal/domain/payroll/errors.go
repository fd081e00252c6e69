package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCity        = errors.New("unknown city preset")
	ErrNoPresets          = errors.New("no city presets configured")
	ErrInvalidPresetsFile = errors.New("invalid presets file")
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every field that failed caller-side validation.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Reason))
	}
	return "invalid payroll input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Reason: reason})
}
