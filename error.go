package nlmsg

import (
	"errors"
	"fmt"

	"github.com/danderson/nlmsg/fragments"
)

var (
	// ErrPayloadTooShort indicates that fewer bytes are available
	// than a fixed-width header or value requires.
	ErrPayloadTooShort = fragments.ErrShortBuffer
	// ErrMalformedRecord indicates an attribute record that cannot be
	// extracted, because its length is inconsistent with the
	// remaining input or with alignment rules.
	ErrMalformedRecord = fragments.ErrMalformedRecord
	// ErrInvalidStringEncoding indicates a string attribute that is
	// not valid UTF-8.
	ErrInvalidStringEncoding = fragments.ErrInvalidString
	// ErrUnknownKind indicates an attribute kind outside the closed
	// set of kinds for its nesting level.
	ErrUnknownKind = errors.New("unknown attribute kind")
	// ErrInvalidEnumValue indicates a header field whose value is not
	// a member of the field's enumeration.
	ErrInvalidEnumValue = errors.New("invalid enum value")
	// ErrUnknownMessageType indicates a message type code that does
	// not belong to the protocol.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// DecodeError is the error returned when a message or attribute
// tree is well formed at the record level, but does not match the
// protocol's definition.
//
// Malformed records and values are reported as [*fragments.Error].
// Both unwrap to one of the Err* sentinels in this package.
type DecodeError struct {
	// Err is the sentinel describing the failure.
	Err error
	// Offset is the byte offset of the offending record or field,
	// relative to the start of the decoded payload. It is -1 for
	// errors that do not relate to a position in the payload.
	Offset int
	// Code is the offending kind, enum value or message type.
	Code uint32
	// Detail says where the failure occurred.
	Detail string
}

func (e DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s %d", e.Detail, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: %s %d at offset %d", e.Detail, e.Err, e.Code, e.Offset)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// UnknownKind returns an [ErrUnknownKind] error for rec. level names
// the attribute set that rejected it.
func UnknownKind(level string, rec fragments.Record) error {
	return DecodeError{ErrUnknownKind, rec.Offset, uint32(rec.Kind), level + " attribute"}
}

// InvalidEnumValue returns an [ErrInvalidEnumValue] error for a
// field at the given offset.
func InvalidEnumValue(field string, offset int, raw uint32) error {
	return DecodeError{ErrInvalidEnumValue, offset, raw, field}
}

// UnknownMessageType returns an [ErrUnknownMessageType] error.
func UnknownMessageType(protocol string, code uint16) error {
	return DecodeError{ErrUnknownMessageType, -1, uint32(code), protocol + " message"}
}
