package dispatcher

import (
	"errors"
	"fmt"
)

// UnrecognizedOperationError is the single error kind the dispatcher
// originates: the operation field did not match the supported set.
// A request with no operation field dispatches as the empty string and
// surfaces here too.
type UnrecognizedOperationError struct {
	Operation string
}

func (e *UnrecognizedOperationError) Error() string {
	return fmt.Sprintf("unrecognized operation %q", e.Operation)
}

// IsUnrecognizedOperation returns true if the error is an
// UnrecognizedOperationError.
func IsUnrecognizedOperation(err error) bool {
	var target *UnrecognizedOperationError
	return errors.As(err, &target)
}
