package natural

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by Int when the value does not fit in MaxInt.
var ErrOutOfRange = errors.New("natural out of machine integer range")

// ErrContract marks every ContractError for errors.Is.
var ErrContract = errors.New("natural contract violation")

// ContractError is the panic value raised when an operation is called with
// operands outside its domain.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("natural.%s: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() []error { return []error{ErrContract, e.Err} }

func violation(op, format string, args ...any) *ContractError {
	return &ContractError{Op: op, Err: fmt.Errorf(format, args...)}
}
