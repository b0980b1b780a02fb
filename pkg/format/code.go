package format

import (
	"errors"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
)

// Code is the status a host reports for a sink operation.
type Code int

const (
	CodeSuccess Code = iota
	CodeResourceExhausted
	CodeTransportFailure
	CodeClosed
	CodeInvalidState
	CodeUnsupported
	CodeInvalid
	CodeUnknown
)

var codeNames = [...]string{
	CodeSuccess:           "success",
	CodeResourceExhausted: "resource_exhausted",
	CodeTransportFailure:  "transport_failure",
	CodeClosed:            "closed",
	CodeInvalidState:      "invalid_state",
	CodeUnsupported:       "unsupported_format",
	CodeInvalid:           "invalid_configuration",
	CodeUnknown:           "unknown",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return codeNames[CodeUnknown]
	}
	return codeNames[c]
}

// CodeOf classifies err. A nil error is CodeSuccess.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, gferrors.ErrTransportFailure):
		return CodeTransportFailure
	case errors.Is(err, gferrors.ErrResourceExhausted):
		return CodeResourceExhausted
	case errors.Is(err, gferrors.ErrClosed):
		return CodeClosed
	case errors.Is(err, gferrors.ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, gferrors.ErrUnsupportedFormat):
		return CodeUnsupported
	case errors.Is(err, gferrors.ErrInvalidConfiguration):
		return CodeInvalid
	default:
		return CodeUnknown
	}
}
