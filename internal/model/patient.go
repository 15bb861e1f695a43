package model

// Required field names on an input record.
const (
	FieldPatientID   = "patient_id"
	FieldPatientName = "patient_name"
)

// PatientRecord is a validated input record: exactly the two required
// fields, trimmed. Every other input key is dropped.
type PatientRecord struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
}

// ErrorType values for ErrorReport.
const (
	ErrorTypeValidation = "validation_error"
)

// ErrorReport is written to the processed bucket once per failed validation.
// It is never read back by this service.
type ErrorReport struct {
	ErrorType        string `json:"error_type"`
	ErrorMessage     string `json:"error_message"`
	FileProcessed    string `json:"file_processed"`
	Timestamp        string `json:"timestamp"`
	RecordsAttempted int    `json:"records_attempted"`
}
