package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// DatabaseError is a local store fault (disk or query failure).
type DatabaseError struct {
	ErrorMessage
	Operation string
}

// AuthRequiredError means a cloud operation was attempted without an
// authenticated session. The sync engine treats it as a silent skip.
type AuthRequiredError struct {
	ErrorMessage
}

// CloudSyncError is a failed remote call (network, auth, or server).
type CloudSyncError struct {
	ErrorMessage
	Operation string
}

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

func NewDatabaseError(operation, message string) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
	}
}

func NewAuthRequiredError() *AuthRequiredError {
	return &AuthRequiredError{
		ErrorMessage: ErrorMessage{Message: "no authenticated session"},
	}
}

func NewCloudSyncError(operation, message string) *CloudSyncError {
	return &CloudSyncError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
	}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}
