package shared

import (
	"net/http"
	"sort"

	"paycalc/internal/domain/payroll"
	"paycalc/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationIssues returns the domain field issues ordered by field, then reason.
func ValidationIssues(err *payroll.ValidationError) []ValidationIssue {
	if err == nil || len(err.Issues) == 0 {
		return nil
	}
	out := make([]ValidationIssue, 0, len(err.Issues))
	for _, issue := range err.Issues {
		out = append(out, ValidationIssue{Field: issue.Field, Reason: issue.Reason})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// ValidationFailure is the 400 body shared by the JSON endpoints and the live socket.
func ValidationFailure(err *payroll.ValidationError) (int, *api.Error) {
	return http.StatusBadRequest, &api.Error{
		Code:    "validation_error",
		Message: "payload validation failed",
		Details: map[string]any{"fields": ValidationIssues(err)},
	}
}
