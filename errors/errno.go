// Domain error values for the synthesizer. These aren't POSIX errno codes —
// there's no filesystem underneath to fail a syscall — but the shape (a
// sentinel string type implementing DriverError directly) follows the rest
// of this package's errno-style conventions.

package errors

import (
	"fmt"
)

type VexfatError string

const ErrAlreadyInProgress = VexfatError("operation already in progress")
const ErrInvalidArgument = VexfatError("invalid argument")
const ErrInvalidGeometry = VexfatError("invalid volume geometry")
const ErrNameTooLong = VexfatError("file name too long")
const ErrNotContiguous = VexfatError("file is not contiguous with the allocator's tail")
const ErrOutOfSpace = VexfatError("no space left in the dynamic cluster region")
const ErrTooManyFiles = VexfatError("dynamic file registry is full")
const ErrTooManyPartitions = VexfatError("partition table is full")
const ErrUnregisteredFile = VexfatError("file is not registered")

func (e VexfatError) Error() string {
	return string(e)
}

func (e VexfatError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), message),
		originalError: e,
	}
}

func (e VexfatError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}
