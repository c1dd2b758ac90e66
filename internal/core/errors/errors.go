package errors

const (
	HttpInternalError = "internal_error"
	HttpInvalidQuery  = "invalid_query"
	HttpMissingField  = "missing_field"
	HttpNoDataset     = "no_dataset"
	HttpUploadError   = "upload_failed"
	HttpUnknownExport = "unknown_export"
)

// ErrorResponse is the error response body for all API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
