package httputil

// Machine-readable error codes returned in the "code" field of error responses.
const (
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"

	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodePrincipalNotFound  = "PRINCIPAL_NOT_FOUND"
	CodeInsufficientRole   = "INSUFFICIENT_ROLE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	CodeEmailAlreadyExists   = "EMAIL_ALREADY_EXISTS"
	CodeAddressTypeExists    = "ADDRESS_TYPE_EXISTS"
	CodePasswordMismatch     = "PASSWORD_MISMATCH"
	CodeIncorrectOldPassword = "INCORRECT_OLD_PASSWORD"
)
