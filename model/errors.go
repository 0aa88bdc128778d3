package model

import (
	"fmt"

	"tinypay.dev/paykit/fault"
)

type ErrorCode string

const (
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	ErrParse           ErrorCode = "PARSE_ERROR"
	ErrExternal        ErrorCode = "EXTERNAL"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrInternal        ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	RuleID  string    `json:"rule_id,omitempty"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// FromError projects err onto a CodedError using its fault kind.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	code := ErrInternal
	switch fault.KindOf(err) {
	case fault.KindInvalidArgument:
		code = ErrInvalidArgument
	case fault.KindUnsupportedType:
		code = ErrUnsupportedType
	case fault.KindParse:
		code = ErrParse
	case fault.KindExternal:
		code = ErrExternal
	case fault.KindNotFound:
		code = ErrNotFound
	}
	return &CodedError{Code: code, RuleID: fault.RuleID(err), Message: err.Error()}
}
