package apperrors

import "net/http"

// Predefined errors for the license and upload domain.

// ErrInvalidCredentials covers both unknown identifier and wrong secret.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid identifier or secret",
	http.StatusUnauthorized,
)

// ErrInvalidToken - session token missing, malformed or expired.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrInsufficientPermissions - non-admin principal on an admin route.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrAccountNotFound - unknown account id.
var ErrAccountNotFound = New(
	CodeNotFound,
	"account",
	"Account not found",
	http.StatusNotFound,
)

// ErrDuplicateAccountID - creation conflict on account id.
var ErrDuplicateAccountID = New(
	CodeAlreadyExists,
	"account",
	"Account ID already in use",
	http.StatusConflict,
)

// ErrInvalidPlan - plan id not present in the license catalog.
var ErrInvalidPlan = New(
	CodeInvalidPlan,
	"license",
	"Unknown license plan",
	http.StatusBadRequest,
)

// ErrLicenseInactive - account status blocks uploads. 402 mirrors the
// payment-required semantics of the license model.
var ErrLicenseInactive = New(
	CodeLicenseInactive,
	"license",
	"License is inactive",
	http.StatusPaymentRequired,
)

// ErrQuotaExhausted - photo allowance fully consumed.
var ErrQuotaExhausted = New(
	CodeQuotaExhausted,
	"license",
	"Photo quota exhausted",
	http.StatusPaymentRequired,
)

// ErrMissingImage - upload without an image payload.
var ErrMissingImage = New(
	CodeMissingImage,
	"upload",
	"Photo is required",
	http.StatusBadRequest,
)

// ErrInvalidReading - the analysis result does not parse as a number.
var ErrInvalidReading = New(
	CodeInvalidReading,
	"upload",
	"Reading value is not a valid number",
	http.StatusBadRequest,
)

// ErrAnalysisFailed - strict mode only: the vision collaborator failed and
// degraded fallback is disabled.
var ErrAnalysisFailed = New(
	CodeExternalServiceError,
	"vision",
	"Image analysis service unavailable",
	http.StatusInternalServerError,
)
