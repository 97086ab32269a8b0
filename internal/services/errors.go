package services

// Custom errors

// ValidationError is a malformed request: bad enum values, counts out
// of range, missing required fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// NotFoundError is a referenced entity that does not exist (or, for
// shares, has been deactivated).
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// ForbiddenError means the entity exists but the caller does not own it.
type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// GoneError means a share existed but its expiry has passed. Kept
// distinct from NotFoundError so clients can render "link expired"
// instead of "link invalid".
type GoneError struct{ Message string }

func (e *GoneError) Error() string { return e.Message }

// PreconditionFailedError means referenced documents are not in a
// usable state for the requested operation.
type PreconditionFailedError struct{ Message string }

func (e *PreconditionFailedError) Error() string { return e.Message }

// ServiceUnavailableError wraps a failed or timed-out call to the AI
// provider, including unparseable provider responses.
type ServiceUnavailableError struct{ Message string }

func (e *ServiceUnavailableError) Error() string { return e.Message }
