package database

import "errors"

// Code identifies a failure class surfaced by the database layer.
// Validation codes carry no side effects; persistence codes mean the
// write was abandoned after retries were exhausted.
type Code string

const (
	CodeTitleRequired       Code = "TITLE_REQUIRED"
	CodeDateRequired        Code = "DATE_REQUIRED"
	CodeDescriptionRequired Code = "DESCRIPTION_REQUIRED"
	CodeTimeRequired        Code = "TIME_REQUIRED"
	CodeLocationRequired    Code = "LOCATION_REQUIRED"
	CodeSpeakerRequired     Code = "SPEAKER_REQUIRED"

	CodeNotFound Code = "NOT_FOUND"

	CodeSetFailed         Code = "SET_FAILED"
	CodeCreateFailed      Code = "CREATE_FAILED"
	CodeUpdateFailed      Code = "UPDATE_FAILED"
	CodeDeleteFailed      Code = "DELETE_FAILED"
	CodeTransactionFailed Code = "TRANSACTION_FAILED"
)

// Validation reports whether the code is a caller error rather than a
// storage failure.
func (c Code) Validation() bool {
	switch c {
	case CodeTitleRequired, CodeDateRequired, CodeDescriptionRequired,
		CodeTimeRequired, CodeLocationRequired, CodeSpeakerRequired:
		return true
	}
	return false
}

// Error is a coded database error.
type Error struct {
	Code    Code
	Message string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code Code, message string, err error) *Error {
	// Keep an already-coded error intact so backends can pick the code.
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return &Error{Code: code, Message: message, Err: err}
}

// ErrCode extracts the Code from err, or "" if err carries none.
func ErrCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
