package service

// ValidationError marks malformed or incomplete input detected past the
// binding layer, e.g. an unknown status or an empty requisition.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
