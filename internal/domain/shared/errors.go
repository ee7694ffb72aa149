package shared

// DomainError is an error raised by domain validation or business rules.
// The code travels to the API layer, which maps it onto the response
// envelope's error codes.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with the given code.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ErrNotFound signals a missing or soft-deleted record. Repositories return
// it so callers do not depend on GORM's ErrRecordNotFound.
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
