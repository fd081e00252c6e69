package shared

import (
	"net/http"
	"testing"

	"paycalc/internal/domain/payroll"
)

func TestValidationIssuesSorted(t *testing.T) {
	issues := ValidationIssues(&payroll.ValidationError{Issues: []payroll.FieldIssue{
		{Field: "rates.pension", Reason: "must be between 0 and 20"},
		{Field: "baseSalary", Reason: "must be zero or greater"},
		{Field: "rates.pension", Reason: "must be a finite number"},
	}})
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	if issues[0].Field != "baseSalary" || issues[1].Reason != "must be a finite number" || issues[2].Reason != "must be between 0 and 20" {
		t.Fatalf("unexpected order: %+v", issues)
	}
}

func TestValidationIssuesEmpty(t *testing.T) {
	if ValidationIssues(nil) != nil {
		t.Fatal("expected nil error to produce no issues")
	}
	if ValidationIssues(&payroll.ValidationError{}) != nil {
		t.Fatal("expected no issues")
	}
}

func TestValidationFailure(t *testing.T) {
	status, apiErr := ValidationFailure(&payroll.ValidationError{Issues: []payroll.FieldIssue{
		{Field: "specialDeduction", Reason: "must be zero or greater"},
	}})
	if status != http.StatusBadRequest || apiErr.Code != "validation_error" {
		t.Fatalf("unexpected failure: %d %+v", status, apiErr)
	}
	fields, ok := apiErr.Details["fields"].([]ValidationIssue)
	if !ok || len(fields) != 1 || fields[0].Field != "specialDeduction" {
		t.Fatalf("unexpected fields: %+v", apiErr.Details)
	}
}
