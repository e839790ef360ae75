package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an [Error].
type ErrorKind uint8

const (
	// UnknownType indicates the message type name did not resolve.
	UnknownType ErrorKind = iota + 1
	// MalformedInput indicates the input bytes are not a valid encoding of
	// the message type.
	MalformedInput
	// TypeMismatch indicates a dynamic value has the wrong shape for its
	// field, or is out of range.
	TypeMismatch
	// UnknownEnumName indicates an enum name is not declared by the enum.
	UnknownEnumName
	// UnsupportedFieldCategory indicates a field kind outside the closed set
	// of categories.
	UnsupportedFieldCategory
	// SerializationFailure indicates the populated message could not be
	// serialized, e.g. a proto3 string holding invalid UTF-8.
	SerializationFailure
	// DepthExceeded indicates message nesting exceeded the configured
	// maximum depth.
	DepthExceeded
)

// Sentinels matched by [errors.Is] against an [Error] of the corresponding
// [ErrorKind], see [ErrorKind.Sentinel].
var (
	ErrUnknownType              = errors.New("unknown type")
	ErrMalformedInput           = errors.New("malformed input")
	ErrTypeMismatch             = errors.New("type mismatch")
	ErrUnknownEnumName          = errors.New("unknown enum name")
	ErrUnsupportedFieldCategory = errors.New("unsupported field category")
	ErrSerializationFailure     = errors.New("serialization failure")
	ErrDepthExceeded            = errors.New("depth exceeded")
)

var kindSentinels = [...]error{
	UnknownType:              ErrUnknownType,
	MalformedInput:           ErrMalformedInput,
	TypeMismatch:             ErrTypeMismatch,
	UnknownEnumName:          ErrUnknownEnumName,
	UnsupportedFieldCategory: ErrUnsupportedFieldCategory,
	SerializationFailure:     ErrSerializationFailure,
	DepthExceeded:            ErrDepthExceeded,
}

var kindNames = [...]string{
	UnknownType:              "UnknownType",
	MalformedInput:           "MalformedInput",
	TypeMismatch:             "TypeMismatch",
	UnknownEnumName:          "UnknownEnumName",
	UnsupportedFieldCategory: "UnsupportedFieldCategory",
	SerializationFailure:     "SerializationFailure",
	DepthExceeded:            "DepthExceeded",
}

// String returns the name of k, e.g. "TypeMismatch".
func (k ErrorKind) String() string {
	if k != 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Sentinel returns the Err* value matching k, or nil.
func (k ErrorKind) Sentinel() error {
	if k != 0 && int(k) < len(kindSentinels) {
		return kindSentinels[k]
	}
	return nil
}

// Error is the structured error returned by [Decoder], [Encoder] and
// [Codec] operations.
type Error struct {
	// Err is the underlying cause, which may be nil.
	Err error
	// TypeName is the top-level message type of the failed operation.
	TypeName string
	// Field is the dotted path of the offending field, relative to
	// TypeName, e.g. "outer.inner[2].name". Empty for message level
	// failures.
	Field string
	Kind  ErrorKind
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("codec: ")
	if s := e.Kind.Sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.TypeName != "" {
		b.WriteString(": ")
		b.WriteString(e.TypeName)
	}
	if e.Field != "" {
		if e.TypeName != "" && e.Field[0] != '[' {
			b.WriteByte('.')
		} else if e.TypeName == "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.Sentinel()
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, fmt.Errorf(format, args...))
}

// withField prefixes the field path of err with segment. Index segments
// start with '['.
func withField(err error, segment string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	switch {
	case e.Field == "":
		e.Field = segment
	case e.Field[0] == '[':
		e.Field = segment + e.Field
	default:
		e.Field = segment + "." + e.Field
	}
	return e
}

func indexSegment(i int) string {
	return fmt.Sprintf("[%d]", i)
}
