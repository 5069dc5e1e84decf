package ihex

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange     = errors.New("ihex: range start is after range end")
	ErrSegmentCrossing  = errors.New("ihex: range crosses a 64KiB segment boundary")
	ErrUndefinedAddress = errors.New("ihex: address in range is not defined")
)

// FormatError reports a record line that could not be decoded.
type FormatError struct {
	Line   int    // 1-based line number
	Text   string // offending line
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ihex: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// IsFormatError returns true if err is or wraps a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
