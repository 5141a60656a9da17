package visitors

import (
	"errors"
	"fmt"

	"github.com/bawdo/sqlweave/dialect"
)

var (
	// ErrUnsupported is matched by every *UnsupportedError.
	ErrUnsupported = errors.New("sqlweave: feature not supported by dialect")

	// ErrMalformed reports a statement that cannot be compiled for any
	// dialect.
	ErrMalformed = errors.New("sqlweave: malformed statement")

	// ErrNoTable reports an INSERT, UPDATE or DELETE without a target table,
	// or a table reference without a name.
	ErrNoTable = fmt.Errorf("%w: no table", ErrMalformed)

	// ErrInvalidFunctionName reports a function name that is not a plain,
	// optionally dot-qualified, identifier.
	ErrInvalidFunctionName = errors.New("sqlweave: invalid function name")
)

// UnsupportedError names the feature a dialect rejected.
type UnsupportedError struct {
	Dialect dialect.Name
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("sqlweave: %s does not support %s", e.Dialect, e.Feature)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}
