package parser

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported file extension")

// ReadError is returned when the input stream itself fails. It is the only
// fatal condition of an extraction.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read stream: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
