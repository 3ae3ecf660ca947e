package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error that occurred during an exchange
// with the gateway daemon or while handling a DPA packet
type ErrorType int

const (
	// ErrTypeEmptyResponse indicates no frame was captured before the deadline.
	// Dial failures end up here as well.
	ErrTypeEmptyResponse ErrorType = iota
	// ErrTypeDpa indicates the daemon reported a DPA-layer failure (status < 0)
	ErrTypeDpa
	// ErrTypeUser indicates the daemon rejected the request itself (status > 0)
	ErrTypeUser
	// ErrTypeJSON indicates a frame or caller-supplied data was not the expected JSON
	ErrTypeJSON
	// ErrTypeInvalidPacket indicates a DPA packet string failed the packet grammar
	ErrTypeInvalidPacket
	// ErrTypeInvalidRequest indicates a precondition of the call was violated
	ErrTypeInvalidRequest
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeEmptyResponse:
		return "Empty Response"
	case ErrTypeDpa:
		return "DPA Error"
	case ErrTypeUser:
		return "User Error"
	case ErrTypeJSON:
		return "JSON Decode Error"
	case ErrTypeInvalidPacket:
		return "Invalid Packet Format"
	case ErrTypeInvalidRequest:
		return "Invalid Request"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is the single error type returned by the bridge and the DPA codec
type Error struct {
	Type      ErrorType // Category of error
	Code      int       // Daemon status code (DPA and user errors only)
	Message   string    // Human-readable error message
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether repeating the call may succeed
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Type == ErrTypeDpa || e.Type == ErrTypeUser {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same Type, so callers can write
// errors.Is(err, &protocol.Error{Type: protocol.ErrTypeUser}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Code == 0 || t.Code == e.Code)
}

// NewEmptyResponseError creates an error for a call that captured no frame.
// cause may be nil for a plain deadline expiry.
func NewEmptyResponseError(message string, cause error) *Error {
	return &Error{
		Type:      ErrTypeEmptyResponse,
		Message:   message,
		Err:       cause,
		Retryable: true,
	}
}

// NewDpaError creates an error for a negative daemon status
func NewDpaError(code int, statusText string) *Error {
	if statusText == "" {
		statusText = "DPA error reported by daemon"
	}
	return &Error{
		Type:    ErrTypeDpa,
		Code:    code,
		Message: statusText,
	}
}

// NewUserError creates an error for a positive daemon status
func NewUserError(code int, statusText string) *Error {
	if statusText == "" {
		statusText = "request rejected by daemon"
	}
	return &Error{
		Type:    ErrTypeUser,
		Code:    code,
		Message: statusText,
	}
}

// NewJSONError creates a JSON decoding error
func NewJSONError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeJSON,
		Message: message,
		Err:     err,
	}
}

// NewInvalidPacketError creates an error for a malformed DPA packet
func NewInvalidPacketError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidPacket,
		Message: message,
	}
}

// NewInvalidRequestError creates an error for a violated call precondition
func NewInvalidRequestError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidRequest,
		Message: message,
	}
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

func isType(err error, want ErrorType) bool {
	got, ok := errorType(err)
	return ok && got == want
}

// IsEmptyResponse checks if an error means no response frame was captured
func IsEmptyResponse(err error) bool { return isType(err, ErrTypeEmptyResponse) }

// IsDpaError checks if an error is a daemon-reported DPA error
func IsDpaError(err error) bool { return isType(err, ErrTypeDpa) }

// IsUserError checks if an error is a daemon-reported request error
func IsUserError(err error) bool { return isType(err, ErrTypeUser) }

// IsJSONError checks if an error is a JSON decoding error
func IsJSONError(err error) bool { return isType(err, ErrTypeJSON) }

// IsInvalidPacket checks if an error is a DPA packet format error
func IsInvalidPacket(err error) bool { return isType(err, ErrTypeInvalidPacket) }

// IsInvalidRequest checks if an error is a call precondition violation
func IsInvalidRequest(err error) bool { return isType(err, ErrTypeInvalidRequest) }

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// ErrorCode returns the daemon status code carried by err, or 0
func ErrorCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeEmptyResponse:
		return "No response from gateway daemon"
	case ErrTypeDpa:
		return fmt.Sprintf("DPA error %d: %s", e.Code, e.Message)
	case ErrTypeUser:
		return fmt.Sprintf("Request rejected (status %d): %s", e.Code, e.Message)
	case ErrTypeJSON:
		return "Malformed JSON: " + e.Message
	case ErrTypeInvalidPacket:
		return "Invalid DPA packet: " + e.Message
	default:
		return e.Message
	}
}

// TroubleshootingHint returns user-facing advice for an error
func TroubleshootingHint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Type {
	case ErrTypeEmptyResponse:
		return strings.Join([]string{
			"The gateway daemon did not answer in time.",
			"Troubleshooting:",
			"  • Check that iqrfgd2 is running and its WebSocket API is enabled",
			"  • Verify the daemon URL (default ws://localhost:1338)",
			"  • Increase --timeout for slow mesh operations (discovery, enumeration)",
			"  • Run with --log-level debug to see whether the dial succeeded",
		}, "\n")

	case ErrTypeDpa:
		return strings.Join([]string{
			"The daemon reached the coordinator but the DPA request failed.",
			"Troubleshooting:",
			"  • Check that the addressed node is bonded and powered",
			"  • Check that the node implements the addressed peripheral",
			"  • Retry: mesh timeouts are common on busy networks",
		}, "\n")

	case ErrTypeUser:
		return strings.Join([]string{
			"The daemon rejected the request before sending it to the network.",
			"Troubleshooting:",
			"  • Check the message type (mType) is supported by this daemon version",
			"  • Check request parameters against the daemon JSON API schema",
		}, "\n")

	case ErrTypeJSON:
		return "The message was not valid JSON or lacked the mType/data envelope."

	case ErrTypeInvalidPacket:
		return "DPA packets are 5 to 62 dot-separated hex bytes, e.g. 00.00.06.03.ff.ff"

	default:
		return "Check the error message for details."
	}
}
