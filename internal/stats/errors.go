package stats

import (
	"fmt"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
)

// ParseError reports a metric source that could not be read or parsed.
// It fails one sampling tick only.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (*ParseError) Code() errors.ErrorCode {
	return errors.ErrParseFailure
}
