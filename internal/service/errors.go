package service

import "errors"

// Handlers switch on these with errors.Is. Detailed messages wrap them, so
// err.Error() is what the client sees.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrDelivery       = errors.New("message delivery failed")
	ErrNotAttending   = errors.New("guest is not attending")
	ErrInvalidPIN     = errors.New("PIN salah")
	ErrSessionInvalid = errors.New("session invalid or revoked")
)

// Message strips the sentinel prefix from a wrapped error.
func Message(err error) string {
	var m *msgError
	if errors.As(err, &m) {
		return m.msg
	}
	return err.Error()
}

// msgError carries a user-facing message while matching its sentinel.
type msgError struct {
	kind error
	msg  string
}

func (e *msgError) Error() string { return e.msg }
func (e *msgError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &msgError{kind: kind, msg: msg}
}
