// Package validation checks decoded patient data before it is stored.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akave-ai/patientingest/internal/model"
)

const recordErrorsSummary = "Data validation failed:"

var requiredFields = []string{model.FieldPatientID, model.FieldPatientName}

// Validate checks that data is a non-empty JSON array of objects, each
// holding non-blank string patient_id and patient_name fields.
//
// Every record is checked before returning, so the *ValidationError lists
// all defects found. On success the records are returned in input order,
// trimmed and reduced to the two required fields.
func Validate(data any) ([]model.PatientRecord, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, &ValidationError{Summary: fmt.Sprintf("Data must be an array, got %s", TypeName(data))}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Summary: "Data array cannot be empty"}
	}

	records := make([]model.PatientRecord, 0, len(items))
	var problems []string
	for i, item := range items {
		rec, errs := validateRecord(i, item)
		if len(errs) > 0 {
			problems = append(problems, errs...)
			continue
		}
		records = append(records, rec)
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Summary: recordErrorsSummary, Problems: problems}
	}
	return records, nil
}

// validateRecord returns the trimmed record or the defects found in it.
// A record that is not an object yields exactly one defect.
func validateRecord(index int, item any) (model.PatientRecord, []string) {
	obj, ok := item.(map[string]any)
	if !ok {
		return model.PatientRecord{}, []string{
			fmt.Sprintf("Record %d: Must be an object, got %s", index, TypeName(item)),
		}
	}

	var problems []string
	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		v, problem := requiredString(obj, field)
		if problem != "" {
			problems = append(problems, fmt.Sprintf("Record %d: %s", index, problem))
			continue
		}
		values[field] = v
	}
	if len(problems) > 0 {
		return model.PatientRecord{}, problems
	}

	return model.PatientRecord{
		PatientID:   values[model.FieldPatientID],
		PatientName: values[model.FieldPatientName],
	}, nil
}

func requiredString(obj map[string]any, field string) (value, problem string) {
	raw, present := obj[field]
	if !present {
		return "", fmt.Sprintf("Missing required field '%s'", field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Sprintf("'%s' must be a string, got %s", field, TypeName(raw))
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Sprintf("'%s' cannot be empty or whitespace", field)
	}
	return trimmed, ""
}

// TypeName names the JSON type of a value produced by encoding/json.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
