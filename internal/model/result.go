package model

// ValidationStatusPassed marks a successful run in SuccessBody.
const ValidationStatusPassed = "passed"

// SuccessBody is the response body of a processed file.
type SuccessBody struct {
	Message          string `json:"message"`
	InputRecords     int    `json:"input_records"`
	ValidatedRecords int    `json:"validated_records"`
	OutputRecords    int    `json:"output_records"`
	OutputFile       string `json:"output_file"`
	ValidationStatus string `json:"validation_status"`
}

// ValidationFailureBody is the response body when records fail validation.
type ValidationFailureBody struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorReportFile  string `json:"error_report_file"`
	InputRecords     int    `json:"input_records"`
	ValidatedRecords int    `json:"validated_records"`
}

// ErrorBody is the response body for event, decode and internal failures.
type ErrorBody struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	InputRecords     int    `json:"input_records"`
	ValidatedRecords int    `json:"validated_records"`
}
