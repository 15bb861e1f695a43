package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akave-ai/patientingest/internal/model"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidate_Structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "object", input: `{"patient_id":"A1"}`, wantErr: "Data must be an array, got object"},
		{name: "string", input: `"patients"`, wantErr: "Data must be an array, got string"},
		{name: "number", input: `42`, wantErr: "Data must be an array, got number"},
		{name: "boolean", input: `true`, wantErr: "Data must be an array, got boolean"},
		{name: "null", input: `null`, wantErr: "Data must be an array, got null"},
		{name: "empty_array", input: `[]`, wantErr: "Data array cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Validate(decode(t, tt.input))
			require.Error(t, err)
			assert.Nil(t, got)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T", err)
			assert.Empty(t, ve.Problems)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidate_RecordErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		problems []string
	}{
		{
			name:     "missing_patient_id",
			input:    `[{"patient_name":"Jane"}]`,
			problems: []string{"Record 0: Missing required field 'patient_id'"},
		},
		{
			name:  "missing_both_fields",
			input: `[{"other":1}]`,
			problems: []string{
				"Record 0: Missing required field 'patient_id'",
				"Record 0: Missing required field 'patient_name'",
			},
		},
		{
			name:     "blank_is_not_missing",
			input:    `[{"patient_id":"   ","patient_name":"Jane"}]`,
			problems: []string{"Record 0: 'patient_id' cannot be empty or whitespace"},
		},
		{
			name:     "empty_string",
			input:    `[{"patient_id":"A1","patient_name":""}]`,
			problems: []string{"Record 0: 'patient_name' cannot be empty or whitespace"},
		},
		{
			name:  "wrong_types",
			input: `[{"patient_id":7,"patient_name":null}]`,
			problems: []string{
				"Record 0: 'patient_id' must be a string, got number",
				"Record 0: 'patient_name' must be a string, got null",
			},
		},
		{
			name:     "non_object_record_has_single_error",
			input:    `[["A1","Jane"]]`,
			problems: []string{"Record 0: Must be an object, got array"},
		},
		{
			name:  "indexes_follow_position",
			input: `[{"patient_id":"A1","patient_name":"Jane"},{"patient_id":"A2"},"x"]`,
			problems: []string{
				"Record 1: Missing required field 'patient_name'",
				"Record 2: Must be an object, got string",
			},
		},
		{
			name:  "no_short_circuit_across_records",
			input: `[{"patient_name":"Jane"},{"patient_id":"A2","patient_name":" "},42]`,
			problems: []string{
				"Record 0: Missing required field 'patient_id'",
				"Record 1: 'patient_name' cannot be empty or whitespace",
				"Record 2: Must be an object, got number",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Validate(decode(t, tt.input))
			require.Error(t, err)
			assert.Nil(t, got, "no partial output on failure")

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T", err)
			assert.Equal(t, "Data validation failed:", ve.Summary)
			assert.Equal(t, tt.problems, ve.Problems)

			lines := strings.Split(err.Error(), "\n")
			assert.Equal(t, "Data validation failed:", lines[0])
			assert.Equal(t, tt.problems, lines[1:])
		})
	}
}

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	input := `[
		{"patient_id":" A1 ","patient_name":"Jane Doe"},
		{"patient_id":"B2","patient_name":"\tJohn Smith\n","age":41,"notes":{"x":1}}
	]`

	got, err := Validate(decode(t, input))
	require.NoError(t, err)
	assert.Equal(t, []model.PatientRecord{
		{PatientID: "A1", PatientName: "Jane Doe"},
		{PatientID: "B2", PatientName: "John Smith"},
	}, got)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"patient_id":"A1","patient_name":"Jane Doe"},{"patient_id":"B2","patient_name":"John Smith"}]`, string(out))
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", TypeName(nil))
	assert.Equal(t, "object", TypeName(map[string]any{}))
	assert.Equal(t, "array", TypeName([]any{}))
	assert.Equal(t, "string", TypeName(""))
	assert.Equal(t, "boolean", TypeName(false))
	assert.Equal(t, "number", TypeName(1.5))
	assert.Equal(t, "number", TypeName(json.Number("3")))
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var nilErr *ValidationError
	assert.Equal(t, "validation failed", nilErr.Error())

	err := &ValidationError{Summary: "Data validation failed:", Problems: []string{"a", "b"}}
	assert.Equal(t, "Data validation failed:\na\nb", err.Error())
}
