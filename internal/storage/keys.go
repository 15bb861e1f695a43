package storage

import (
	"path"
	"time"
)

// ErrorReportPrefix is the namespace for validation error reports.
const ErrorReportPrefix = "error_reports"

const keyTimestampLayout = "20060102_150405"

// OutputKey returns the key for processed data written at t,
// e.g. processed_data_20240115_093000.json.
func OutputKey(t time.Time) string {
	return "processed_data_" + t.UTC().Format(keyTimestampLayout) + ".json"
}

// ErrorReportKey returns the key for a validation error report written at t,
// e.g. error_reports/validation_error_20240115_093000.json.
func ErrorReportKey(t time.Time) string {
	return path.Join(ErrorReportPrefix, "validation_error_"+t.UTC().Format(keyTimestampLayout)+".json")
}
