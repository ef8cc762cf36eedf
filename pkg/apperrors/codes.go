package apperrors

// ErrorCode identifies an error class to API clients.
type ErrorCode string

const (
	// System faults.
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business-rule failures.
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeLicenseInactive  ErrorCode = "LICENSE_INACTIVE"
	CodeQuotaExhausted   ErrorCode = "QUOTA_EXHAUSTED"
	CodeMissingImage     ErrorCode = "MISSING_IMAGE"
	CodeInvalidReading   ErrorCode = "INVALID_READING"
	CodeInvalidPlan      ErrorCode = "INVALID_PLAN"

	// Authentication and authorization.
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
