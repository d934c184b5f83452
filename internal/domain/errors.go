package domain

import "errors"

// Code identifies the business rule a domain error stands for.
type Code string

const (
	CodeEmptyOrder        Code = "EMPTY_ORDER"
	CodeOrderAlreadyPaid  Code = "ORDER_ALREADY_PAID"
	CodeOrderModification Code = "ORDER_MODIFICATION"
	CodeInvalidMoneyValue Code = "INVALID_MONEY_VALUE"
)

// Error is a tagged business rule violation raised by the domain layer.
// Two errors match under errors.Is when their codes are equal, so callers can
// compare against the package sentinels even after wrapping.
type Error struct {
	Code    Code
	Message string
}

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// AsError extracts the first domain error in err's chain.
func AsError(err error) (*Error, bool) {
	var derr *Error
	if errors.As(err, &derr) {
		return derr, true
	}
	return nil, false
}
