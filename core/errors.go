package core

import (
	"errors"
	"fmt"
)

// Error codes used throughout folio.
const (
	NOERROR     int = 0
	EMISSING    int = 122 // position, record or node does not exist
	EINVALID    int = 123 // malformed input or enum value
	ECONNECTION int = 124 // checkpoint store not reachable
	EINTERNAL   int = 125 // broken invariant
	ECORRUPT    int = 126 // stored checkpoint cannot be decoded
)

var codeText = map[int]string{
	NOERROR:     "OK",
	EMISSING:    "not found",
	EINVALID:    "invalid",
	ECONNECTION: "store unavailable",
	EINTERNAL:   "internal error",
	ECORRUPT:    "corrupt checkpoint",
}

func errorText(code int) string {
	if t, ok := codeText[code]; ok {
		return t
	}
	return "undefined error"
}

// AppError is an error carrying an error code and a message suitable for users.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type appError struct {
	cause error
	code  int
	msg   string
}

func (e appError) Unwrap() error { return e.cause }

func (e appError) Error() string {
	if e.msg == "" || e.msg == errorText(e.code) {
		return fmt.Sprintf("[%d] %v", e.code, e.cause)
	}
	return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.cause)
}

func (e appError) ErrorCode() int { return e.code }

func (e appError) UserMessage() string { return e.msg }

var _ AppError = appError{}

// ErrorWithCode attaches code to err. A nil err is replaced by an error
// stating the code's text.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return appError{cause: err, code: code, msg: errorText(code)}
}

// WrapError wraps err, attaching code and a formatted user message.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return appError{cause: err, code: code, msg: fmt.Sprintf(format, v...)}
}

// Error creates a new error with code and a formatted user message.
func Error(code int, format string, v ...interface{}) error {
	return appError{
		cause: errors.New(errorText(code)),
		code:  code,
		msg:   fmt.Sprintf(format, v...),
	}
}

// Code returns the code found in err's chain. Errors without a code
// report EINTERNAL, a nil error reports NOERROR.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	var e AppError
	if errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message found in err's chain, or the
// text of its code.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e AppError
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}
