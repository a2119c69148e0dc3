// Package pgwire implements the sans-I/O core of a PostgreSQL v3
// frontend/backend wire protocol client: connection establishment and
// authentication (cleartext, MD5, SCRAM-SHA-256), the simple-query and
// extended-query protocols, batch statement preparation, and pipelined
// execution with ordered claim tickets.
//
// Every state machine in this package is sans-I/O: it never touches a
// socket. Callers (a blocking loop, a cooperative scheduler, or a test
// harness) drive a machine by calling its Step/Start methods and acting on
// the returned Action until Action.Kind is ActionFinished.
package pgwire

import pgerr "github.com/pgwire/pgwire/errors"

// ActionKind tells the host what it must do before calling Step again.
type ActionKind int

const (
	// ActionNeedPacket means the host must read one more framed message
	// (type byte + 4-byte length + payload) and hand it to Step.
	ActionNeedPacket ActionKind = iota
	// ActionNeedSSLResponseByte means the host must read the single,
	// unframed SSL negotiation response byte and hand it to
	// Connection.StepSSLResponse.
	ActionNeedSSLResponseByte
	// ActionWritePacket means the host must write Action.Packet in full,
	// then read the next server message and hand it to Step.
	ActionWritePacket
	// ActionTLSHandshake means the host must perform a TLS handshake via
	// its SslUpgrade collaborator and report the outcome.
	ActionTLSHandshake
	// ActionAsyncMessage carries a Notice, Notification, ParameterStatus,
	// or NegotiateProtocolVersion observed out of band; the host may
	// dispatch it to a user callback, then read the next framed message
	// and hand it to Step as usual.
	ActionAsyncMessage
	// ActionFinished means the state machine has reached a terminal state.
	// Err is nil on success.
	ActionFinished
)

func (k ActionKind) String() string {
	switch k {
	case ActionNeedPacket:
		return "NeedPacket"
	case ActionNeedSSLResponseByte:
		return "NeedSSLResponseByte"
	case ActionWritePacket:
		return "WritePacket"
	case ActionTLSHandshake:
		return "TLSHandshake"
	case ActionAsyncMessage:
		return "AsyncMessage"
	case ActionFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Action is what a state machine's Step method returns: an instruction for
// the host plus whatever data the instruction carries.
type Action struct {
	Kind   ActionKind
	Packet []byte       // valid when Kind == ActionWritePacket
	Async  AsyncMessage // valid when Kind == ActionAsyncMessage
	Err    error        // valid when Kind == ActionFinished
}

func writePacket(p []byte) Action { return Action{Kind: ActionWritePacket, Packet: p} }
func needPacket() Action          { return Action{Kind: ActionNeedPacket} }
func tlsHandshake() Action        { return Action{Kind: ActionTLSHandshake} }
func finished(err error) Action   { return Action{Kind: ActionFinished, Err: err} }
func asyncAction(m AsyncMessage) Action {
	return Action{Kind: ActionAsyncMessage, Async: m}
}

// AsyncMessageKind distinguishes the kinds of message that may arrive
// unsolicited, at any point in the session (spec §4.5, §5).
type AsyncMessageKind int

const (
	AsyncNotification AsyncMessageKind = iota
	AsyncNotice
	AsyncParameterChanged
	// AsyncNegotiateProtocolVersion carries a NegotiateProtocolVersion ('v')
	// message: the server's reply to a StartupMessage requesting a minor
	// protocol version or parameters it does not recognize. It arrives, if
	// at all, during connection establishment, but is surfaced the same
	// async way as the other three so the host can log or react to it
	// without the connection state machine needing to act on it itself.
	AsyncNegotiateProtocolVersion
)

// AsyncMessage is a tagged union mirroring the asynchronous message shapes
// the backend may emit between synchronous responses: a LISTEN/NOTIFY
// delivery, a NOTICE (as opposed to a fatal ERROR), a runtime parameter
// change report, or a NegotiateProtocolVersion informational reply.
type AsyncMessage struct {
	Kind AsyncMessageKind

	// Populated when Kind == AsyncNotification.
	NotificationPID     uint32
	NotificationChannel string
	NotificationPayload string

	// Populated when Kind == AsyncNotice.
	Notice pgerr.Error

	// Populated when Kind == AsyncParameterChanged.
	ParameterName  string
	ParameterValue string

	// Populated when Kind == AsyncNegotiateProtocolVersion.
	NegotiateMinorVersion        int32
	NegotiateUnrecognizedOptions []string
}
