package dispatch

import (
	"errors"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

// Kind classifies how a message was handled.
type Kind int

const (
	OK Kind = iota
	// InvalidAmount means the message carried an unusable amount or installment count.
	InvalidAmount
	StoreFailure
	UnexpectedFailure
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case InvalidAmount:
		return "invalid_amount"
	case StoreFailure:
		return "store_failure"
	case UnexpectedFailure:
		return "unexpected_failure"
	}
	return "unknown"
}

// Outcome is the result of handling one message. Reply is always set; Err is
// set whenever Kind is not OK.
type Outcome struct {
	Reply string
	Kind  Kind
	Err   error
}

func classify(err error) Kind {
	var se *ledger.StoreError
	switch {
	case err == nil:
		return OK
	case errors.Is(err, core.ErrInvalidAmount):
		return InvalidAmount
	case errors.As(err, &se):
		return StoreFailure
	default:
		return UnexpectedFailure
	}
}
