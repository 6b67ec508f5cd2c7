package common

// ValidationError carries a human-readable message for the client while
// still matching errors.Is(err, ErrorValidation).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

func NewValidationError(msg string) error { return &ValidationError{Msg: msg} }
