package service

// Error codes surfaced through the API envelope. The transport layer maps
// each code to an HTTP status; services never import net/http.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeInvalidQRToken    = "INVALID_QR_TOKEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	CodeInternal          = "INTERNAL_ERROR"
)

// ServiceError wraps an error with a code for API response mapping.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }
func (e *ServiceError) Unwrap() error { return e.Err }

func invalidArg(msg string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

func invalidCredentials() *ServiceError {
	return &ServiceError{Code: CodeInvalidCreds, Message: "invalid credentials"}
}

func invalidQRToken() *ServiceError {
	return &ServiceError{Code: CodeInvalidQRToken, Message: "invalid or unknown QR token"}
}

func unauthorized(msg string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: msg}
}

func forbidden(msg string) *ServiceError {
	return &ServiceError{Code: CodeForbidden, Message: msg}
}

func notFound(msg string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func conflict(msg string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func invalidTransition(msg string) *ServiceError {
	return &ServiceError{Code: CodeInvalidTransition, Message: msg}
}

func internalErr(msg string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: msg, Err: err}
}
