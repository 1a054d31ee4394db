package fragments

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer indicates that fewer bytes are available than a
	// record header or fixed-width value requires.
	ErrShortBuffer = errors.New("short buffer")
	// ErrMalformedRecord indicates an attribute record whose length
	// is inconsistent with its header or with alignment rules.
	ErrMalformedRecord = errors.New("malformed attribute record")
	// ErrInvalidString indicates a string value that is not valid
	// UTF-8.
	ErrInvalidString = errors.New("invalid string encoding")
)

// Error is the error returned when input bytes cannot be decoded.
type Error struct {
	// Offset is the byte offset of the offending record or value,
	// relative to the start of the outermost decoded buffer.
	Offset int
	// Err is one of ErrShortBuffer, ErrMalformedRecord or
	// ErrInvalidString.
	Err error
	// Detail is a human-readable explanation of what went wrong.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errAt(offset int, err error, detail string, args ...any) error {
	return &Error{offset, err, fmt.Sprintf(detail, args...)}
}
