package ledger

import "fmt"

// StoreError reports a failed ledger operation. Adapters return it for any
// persistence failure so callers can tell storage problems from bad input.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a *StoreError for op. A nil err stays nil.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
