// Package errors defines the error taxonomy surfaced to callers of the
// service facade, per spec.md §7.
package errors

import "fmt"

// Kind discriminates the caller-visible error taxonomy.
type Kind int

const (
	// KindNotReady means the session is not in the Ready state: the request
	// arrived before login completed, or while draining or reconnecting.
	KindNotReady Kind = iota
	// KindUnsupported means the operation was not advertised by the server;
	// the encoder rejected the request before it touched the transport.
	KindUnsupported
	// KindErr is a caller-visible protocol or validation error: bad input,
	// or a server response in the 2000-2308 client-error family.
	KindErr
	// KindServerInternal means the server returned a 2500-range code, or a
	// response payload did not match the command that produced it.
	KindServerInternal
	// KindTimeout means the 15s watchdog fired with no response, in serial
	// mode or while awaiting a keepalive reply.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotReady:
		return "NotReady"
	case KindUnsupported:
		return "Unsupported"
	case KindErr:
		return "Err"
	case KindServerInternal:
		return "ServerInternal"
	case KindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is the uniform error type returned by the command registry, session
// manager, and service facade.
type Error struct {
	Kind    Kind
	Message string
	// Code is the EPP result code when the error was derived from one,
	// zero otherwise.
	Code int
	Err error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (code %d)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func NotReady(msg string) *Error {
	return &Error{Kind: KindNotReady, Message: msg}
}

func Unsupported(msg string) *Error {
	return &Error{Kind: KindUnsupported, Message: msg}
}

func Err(msg string) *Error {
	return &Error{Kind: KindErr, Message: msg}
}

func ErrCode(code int, msg string) *Error {
	return &Error{Kind: KindErr, Code: code, Message: msg}
}

func ServerInternal(msg string) *Error {
	return &Error{Kind: KindServerInternal, Message: msg}
}

func ServerInternalCode(code int, msg string) *Error {
	return &Error{Kind: KindServerInternal, Code: code, Message: msg}
}

func Timeout(msg string) *Error {
	return &Error{Kind: KindTimeout, Message: msg}
}

// FromResultCode classifies an EPP result code per spec.md §7.
//
//   - 1000-1500: success family (1001 pending, 1500 closes the session)
//   - 2000-2308: client-visible error
//   - 2400: generic command failure; Err unless the specific decoder says
//     otherwise (the Open Question in spec.md §9 — undocumented elsewhere,
//     2400 becomes Err and is never silently reinterpreted)
//   - 2500-2502: server closing
func FromResultCode(code int, serverMessage string) *Error {
	switch {
	case code >= 1000 && code <= 1500:
		return nil
	case code == 2400:
		return ErrCode(code, serverMessage)
	case code >= 2000 && code <= 2308:
		return ErrCode(code, serverMessage)
	case code >= 2500 && code <= 2502:
		return ServerInternalCode(code, serverMessage)
	default:
		return ServerInternalCode(code, serverMessage)
	}
}

// IsClosing reports whether code is in the "server closing" range (§7, §4.6.4).
func IsClosing(code int) bool {
	return code == 1500 || (code >= 2500 && code <= 2502)
}

// IsPending reports whether code carries pending=true semantics (§7).
func IsPending(code int) bool {
	return code == 1001
}
