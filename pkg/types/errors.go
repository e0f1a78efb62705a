package types

import "fmt"

// ErrorCode identifies a syntax or runtime error kind.
type ErrorCode string

// Syntax error codes.
const (
	ErrUnexpectedChar    ErrorCode = "unexpected-character"
	ErrUnterminatedToken ErrorCode = "unterminated-token"
	ErrInvalidToken      ErrorCode = "invalid-token"
	ErrUnexpectedToken   ErrorCode = "unexpected-token"
	ErrUnexpectedEOF     ErrorCode = "unexpected-end-of-input"
)

// Runtime error codes.
const (
	ErrInvalidType       ErrorCode = "invalid-type"
	ErrDivideByZero      ErrorCode = "divide-by-zero"
	ErrInvalidSliceStep  ErrorCode = "invalid-slice-step"
	ErrUndefinedVariable ErrorCode = "undefined-variable"
	ErrMaxDepth          ErrorCode = "max-depth-exceeded"
)

// SyntaxError is a fatal tokenizer or parser error. It always carries the
// full source text and the byte offset of the offending token; the parser
// never recovers or produces partial results.
type SyntaxError struct {
	Code    ErrorCode
	Message string
	Source  string
	Offset  int
	Token   string // offending token text, empty at end of input
	// Expected names the construct the parser was looking for, when known.
	Expected string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("syntax error (%s) at offset %d: %s", e.Code, e.Offset, e.Message)
	if e.Token != "" {
		msg += fmt.Sprintf(" (token %q)", e.Token)
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(", expected %s", e.Expected)
	}
	return msg
}

// NewSyntaxError creates a syntax error for the given source and offset.
func NewSyntaxError(code ErrorCode, message, source string, offset int) *SyntaxError {
	return &SyntaxError{
		Code:    code,
		Message: message,
		Source:  source,
		Offset:  offset,
	}
}

// WithToken records the offending token text.
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	return e
}

// WithExpected records the construct the parser expected.
func (e *SyntaxError) WithExpected(expected string) *SyntaxError {
	e.Expected = expected
	return e
}

// RuntimeError is an evaluation-time error: a type error, a division by
// zero, an undefined lexical variable, or an exhausted depth budget.
// Function-provider errors are defined alongside the provider capability.
type RuntimeError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error (%s): %s", e.Code, e.Message)
}

// NewRuntimeError creates a runtime error.
func NewRuntimeError(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AccessOp is the accessor operation that failed.
type AccessOp string

const (
	OpGet    AccessOp = "get"
	OpSet    AccessOp = "set"
	OpDelete AccessOp = "delete"
)

// AccessReason is the machine-readable reason code of an accessor error.
type AccessReason string

const (
	ReasonNotWritable      AccessReason = "not-writable"
	ReasonMissingParent    AccessReason = "missing-parent"
	ReasonTypeMismatch     AccessReason = "type-mismatch"
	ReasonIndexOutOfBounds AccessReason = "index-out-of-bounds"
	ReasonMissingID        AccessReason = "missing-id"
)

// AccessorError is raised by strict accessor operations. Path is the
// failing sub-path rendered as selector text, so callers can branch on
// failure kind programmatically instead of parsing messages.
type AccessorError struct {
	Reason  AccessReason
	Op      AccessOp
	Path    string
	Message string
}

// Error implements the error interface.
func (e *AccessorError) Error() string {
	return fmt.Sprintf("cannot %s %q (%s): %s", e.Op, e.Path, e.Reason, e.Message)
}
