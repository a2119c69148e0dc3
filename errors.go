package pgwire

import (
	"fmt"

	pgerr "github.com/pgwire/pgwire/errors"
)

// Kind classifies an Error the way spec §7 does, so callers can branch on
// failure category without string matching.
type Kind int

const (
	// KindServer wraps a parsed ErrorResponse.
	KindServer Kind = iota
	// KindProtocol covers an unexpected message type, malformed framing, an
	// out-of-state transition, or a missing field.
	KindProtocol
	// KindIO covers an underlying stream error; always connection-fatal.
	KindIO
	// KindAuth covers authentication negotiation failure: unsupported
	// mechanism, wrong password, SCRAM signature mismatch, missing
	// password.
	KindAuth
	// KindTLS covers a TLS handshake error reported by the host's
	// SslUpgrade collaborator.
	KindTLS
	// KindConnectionBroken is returned by every call made after the
	// connection has been marked broken.
	KindConnectionBroken
	// KindInvalidUsage covers an API contract violation: nested
	// transaction, out-of-order claim, empty host, mismatched connection id.
	KindInvalidUsage
	// KindUnsupported covers a recognized but unimplemented feature (e.g.
	// GSSAPI authentication, TLS without a collaborator).
	KindUnsupported
	// KindDecode covers a value codec failure: a column or OID conversion
	// that could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "Server"
	case KindProtocol:
		return "Protocol"
	case KindIO:
		return "Io"
	case KindAuth:
		return "Auth"
	case KindTLS:
		return "Tls"
	case KindConnectionBroken:
		return "ConnectionBroken"
	case KindInvalidUsage:
		return "InvalidUsage"
	case KindUnsupported:
		return "Unsupported"
	case KindDecode:
		return "Decode"
	default:
		return "Unknown"
	}
}

// Error is the engine's single error type, tagged by Kind (spec §7). A
// KindServer error carries the full parsed ErrorResponse in Server; every
// other kind carries a human-readable Message and, where one exists, a
// wrapped Cause.
type Error struct {
	Kind    Kind
	Server  pgerr.Error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Kind == KindServer {
		return fmt.Sprintf("pgwire: server error %s: %s", e.Server.Code, e.Server.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("pgwire: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("pgwire: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrConnectionBroken is the sentinel every call on a broken connection
// returns without touching the socket (spec §7).
var ErrConnectionBroken = &Error{Kind: KindConnectionBroken, Message: "connection is broken"}

func serverError(se pgerr.Error) *Error {
	return &Error{Kind: KindServer, Server: se}
}

func protocolErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindProtocol, Message: fmt.Sprintf(format, args...)}
}

func ioError(cause error) *Error {
	return &Error{Kind: KindIO, Message: "stream error", Cause: cause}
}

func authErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func tlsError(cause error) *Error {
	return &Error{Kind: KindTLS, Message: "handshake failed", Cause: cause}
}

func invalidUsageErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidUsage, Message: fmt.Sprintf(format, args...)}
}

func unsupportedErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, Message: fmt.Sprintf(format, args...)}
}

func decodeError(cause error) *Error {
	return &Error{Kind: KindDecode, Message: "value decode failed", Cause: cause}
}
