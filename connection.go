package pgwire

import (
	"log/slog"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/md5auth"
	"github.com/pgwire/pgwire/scram"
	"github.com/pgwire/pgwire/wire"
)

type connState int

const (
	connInitial connState = iota
	connWaitingSslResponse
	connSslHandshake
	connWaitingAuth
	connSaslInProgress
	connWaitingAuthResult
	connWaitingReady
	connReady
	connFailed
)

// Connection drives SSL negotiation, authentication, and startup parameter
// collection: Initial → WaitingSslResponse → SslHandshake → WaitingAuth →
// {SaslInProgress}* → WaitingAuthResult → WaitingReady → Ready | Failed
// (spec §4.5). It is sans-I/O: Start/StepSSLResponse/StepTLSHandshakeDone/
// Step return an Action and the host performs the corresponding I/O.
type Connection struct {
	opts  Opts
	state connState

	scramClient *scram.Client

	serverParams   []backend.ParameterStatus
	backendKeyData backend.BackendKeyData
	txStatus       wire.TransactionStatus

	broken bool
	err    error

	logger *slog.Logger
}

// NewConnection constructs a Connection ready to Start.
func NewConnection(opts Opts) *Connection {
	return &Connection{opts: opts, logger: slog.Default()}
}

// WithLogger sets the logger used to trace message types sent and received
// at Debug level; a nil logger is a no-op. Returns c for chaining.
func (c *Connection) WithLogger(logger *slog.Logger) *Connection {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Start begins the handshake: either the StartupMessage (ssl_mode==Disable)
// or an SSLRequest (spec §4.5).
func (c *Connection) Start() (Action, error) {
	if c.state != connInitial {
		return Action{}, invalidUsageErrorf("connection: Start called more than once")
	}

	if c.opts.SslMode == SslDisable {
		pkt := frontend.WriteStartup(wire.NewWriter(nil), wire.Version30, c.opts.startupParams())
		c.state = connWaitingAuth
		debugWrite(c.logger, "Startup")
		return writePacket(pkt), nil
	}

	pkt := frontend.WriteSSLRequest(wire.NewWriter(nil))
	c.state = connWaitingSslResponse
	debugWrite(c.logger, "SSLRequest")
	return writePacket(pkt), nil
}

// NextAction reports what the host must supply after writing the packet
// most recently returned by Start, StepSSLResponse, StepTLSHandshakeDone, or
// Step: either one more framed message (the common case) or, uniquely right
// after an SSLRequest, the single unframed SSL response byte.
func (c *Connection) NextAction() Action {
	if c.state == connWaitingSslResponse {
		return Action{Kind: ActionNeedSSLResponseByte}
	}
	return needPacket()
}

// StepSSLResponse advances the machine past the single-byte response to an
// SSLRequest (spec §4.5, §6): 'S' requests a TLS handshake from the host,
// 'N' continues in plaintext (or fails if ssl_mode==Require).
func (c *Connection) StepSSLResponse(b byte) (Action, error) {
	if c.broken {
		return finished(ErrConnectionBroken), ErrConnectionBroken
	}
	if c.state != connWaitingSslResponse {
		err := invalidUsageErrorf("connection: StepSSLResponse called outside WaitingSslResponse")
		return finished(err), err
	}

	c.logger.Debug("<- incoming message", slog.String("type", "SSLResponseByte"), slog.String("value", string(b)))

	switch b {
	case 'S':
		c.state = connSslHandshake
		return tlsHandshake(), nil
	case 'N':
		if c.opts.SslMode == SslRequire {
			err := authErrorf("server declined TLS but ssl_mode=require")
			c.fail(err)
			return finished(err), err
		}
		pkt := frontend.WriteStartup(wire.NewWriter(nil), wire.Version30, c.opts.startupParams())
		c.state = connWaitingAuth
		debugWrite(c.logger, "Startup")
		return writePacket(pkt), nil
	default:
		err := protocolErrorf("connection: unexpected SSL response byte %q", b)
		c.fail(err)
		return finished(err), err
	}
}

// StepTLSHandshakeDone reports the outcome of the TLS handshake the host
// performed in response to ActionTLSHandshake.
func (c *Connection) StepTLSHandshakeDone(handshakeErr error) (Action, error) {
	if c.broken {
		return finished(ErrConnectionBroken), ErrConnectionBroken
	}
	if c.state != connSslHandshake {
		err := invalidUsageErrorf("connection: StepTLSHandshakeDone called outside SslHandshake")
		return finished(err), err
	}
	if handshakeErr != nil {
		err := tlsError(handshakeErr)
		c.fail(err)
		return finished(err), err
	}

	pkt := frontend.WriteStartup(wire.NewWriter(nil), wire.Version30, c.opts.startupParams())
	c.state = connWaitingAuth
	debugWrite(c.logger, "Startup")
	return writePacket(pkt), nil
}

// Step advances the machine with one framed server message. Notice,
// Notification, ParameterStatus, and NegotiateProtocolVersion messages are
// recognized and surfaced regardless of state, per spec §4.5's "async
// messages ... arriving at any time"; an ErrorResponse at any pre-Ready
// state aborts to Failed.
func (c *Connection) Step(msgType wire.ServerMessage, payload []byte) (Action, error) {
	if c.broken {
		return finished(ErrConnectionBroken), ErrConnectionBroken
	}

	debugRead(c.logger, msgType)

	if async, ok, err := c.tryAsync(msgType, payload); ok {
		return async, err
	}

	if msgType == wire.ServerErrorResponse {
		se, err := backend.ParseErrorResponse(payload)
		if err != nil {
			return c.protoFail(err)
		}
		wrapped := serverError(se)
		c.fail(wrapped)
		return finished(wrapped), wrapped
	}

	switch c.state {
	case connWaitingAuth:
		return c.stepWaitingAuth(msgType, payload)
	case connSaslInProgress:
		return c.stepSasl(msgType, payload)
	case connWaitingAuthResult:
		return c.stepWaitingAuthResult(msgType, payload)
	case connWaitingReady:
		return c.stepWaitingReady(msgType, payload)
	default:
		err := protocolErrorf("connection: unexpected message %s in state %d", msgType, c.state)
		c.fail(err)
		return finished(err), err
	}
}

func (c *Connection) tryAsync(msgType wire.ServerMessage, payload []byte) (Action, bool, error) {
	switch msgType {
	case wire.ServerNoticeResponse:
		notice, err := backend.ParseErrorResponse(payload)
		if err != nil {
			a, e := c.protoFail(err)
			return a, true, e
		}
		return asyncAction(AsyncMessage{Kind: AsyncNotice, Notice: notice}), true, nil
	case wire.ServerNotificationResponse:
		n, err := backend.ParseNotificationResponse(payload)
		if err != nil {
			a, e := c.protoFail(err)
			return a, true, e
		}
		return asyncAction(AsyncMessage{
			Kind:                AsyncNotification,
			NotificationPID:     n.PID,
			NotificationChannel: n.Channel,
			NotificationPayload: n.Payload,
		}), true, nil
	case wire.ServerParameterStatus:
		ps, err := backend.ParseParameterStatus(payload)
		if err != nil {
			a, e := c.protoFail(err)
			return a, true, e
		}
		c.serverParams = append(c.serverParams, ps)
		return asyncAction(AsyncMessage{
			Kind:           AsyncParameterChanged,
			ParameterName:  ps.Name,
			ParameterValue: ps.Value,
		}), true, nil
	case wire.ServerNegotiateProtoVersion:
		npv, err := backend.ParseNegotiateProtocolVersion(payload)
		if err != nil {
			a, e := c.protoFail(err)
			return a, true, e
		}
		return asyncAction(AsyncMessage{
			Kind:                         AsyncNegotiateProtocolVersion,
			NegotiateMinorVersion:        npv.MinorVersion,
			NegotiateUnrecognizedOptions: npv.UnrecognizedOptions,
		}), true, nil
	default:
		return Action{}, false, nil
	}
}

func (c *Connection) stepWaitingAuth(msgType wire.ServerMessage, payload []byte) (Action, error) {
	if msgType != wire.ServerAuth {
		err := protocolErrorf("connection: expected Authentication, got %s", msgType)
		c.fail(err)
		return finished(err), err
	}

	auth, err := backend.ParseAuthentication(payload)
	if err != nil {
		return c.protoFail(err)
	}

	switch auth.Kind {
	case backend.AuthOK:
		c.state = connWaitingReady
		return needPacket(), nil
	case backend.AuthCleartextPassword:
		if c.opts.Password == "" {
			err := authErrorf("server requires a cleartext password but none was configured")
			c.fail(err)
			return finished(err), err
		}
		pkt := frontend.WritePassword(wire.NewWriter(nil), c.opts.Password)
		c.state = connWaitingAuthResult
		debugWrite(c.logger, "PasswordMessage")
		return writePacket(pkt), nil
	case backend.AuthMD5Password:
		hash := md5auth.HashPassword(c.opts.User, c.opts.Password, auth.MD5Salt)
		pkt := frontend.WritePassword(wire.NewWriter(nil), hash)
		c.state = connWaitingAuthResult
		debugWrite(c.logger, "PasswordMessage")
		return writePacket(pkt), nil
	case backend.AuthSASL:
		if !containsMechanism(auth.Mechanisms, scram.Mechanism) {
			err := authErrorf("server does not offer %s", scram.Mechanism)
			c.fail(err)
			return finished(err), err
		}
		client, err := scram.NewClient(c.opts.Password)
		if err != nil {
			wrapped := authErrorf("build SCRAM client: %v", err)
			c.fail(wrapped)
			return finished(wrapped), wrapped
		}
		c.scramClient = client
		pkt := frontend.WriteSASLInitialResponse(wire.NewWriter(nil), scram.Mechanism, []byte(client.ClientFirstMessage()))
		c.state = connSaslInProgress
		debugWrite(c.logger, "SASLInitialResponse")
		return writePacket(pkt), nil
	default:
		err := unsupportedErrorf("authentication method %d is not supported", auth.Kind)
		c.fail(err)
		return finished(err), err
	}
}

func (c *Connection) stepSasl(msgType wire.ServerMessage, payload []byte) (Action, error) {
	if msgType != wire.ServerAuth {
		err := protocolErrorf("connection: expected Authentication during SASL exchange, got %s", msgType)
		c.fail(err)
		return finished(err), err
	}

	auth, err := backend.ParseAuthentication(payload)
	if err != nil {
		return c.protoFail(err)
	}

	switch auth.Kind {
	case backend.AuthSASLContinue:
		clientFinal, err := c.scramClient.ProcessServerFirst(string(auth.Data))
		if err != nil {
			wrapped := authErrorf("%v", err)
			c.fail(wrapped)
			return finished(wrapped), wrapped
		}
		pkt := frontend.WriteSASLResponse(wire.NewWriter(nil), []byte(clientFinal))
		debugWrite(c.logger, "SASLResponse")
		return writePacket(pkt), nil
	case backend.AuthSASLFinal:
		if err := c.scramClient.VerifyServerFinal(string(auth.Data)); err != nil {
			wrapped := authErrorf("%v", err)
			c.fail(wrapped)
			return finished(wrapped), wrapped
		}
		c.state = connWaitingAuthResult
		return needPacket(), nil
	default:
		err := protocolErrorf("connection: unexpected authentication code %d during SASL exchange", auth.Kind)
		c.fail(err)
		return finished(err), err
	}
}

func (c *Connection) stepWaitingAuthResult(msgType wire.ServerMessage, payload []byte) (Action, error) {
	if msgType != wire.ServerAuth {
		err := protocolErrorf("connection: expected AuthenticationOk, got %s", msgType)
		c.fail(err)
		return finished(err), err
	}

	auth, err := backend.ParseAuthentication(payload)
	if err != nil {
		return c.protoFail(err)
	}
	if auth.Kind != backend.AuthOK {
		err := authErrorf("authentication rejected (code %d)", auth.Kind)
		c.fail(err)
		return finished(err), err
	}

	c.state = connWaitingReady
	return needPacket(), nil
}

func (c *Connection) stepWaitingReady(msgType wire.ServerMessage, payload []byte) (Action, error) {
	switch msgType {
	case wire.ServerBackendKeyData:
		bkd, err := backend.ParseBackendKeyData(payload)
		if err != nil {
			return c.protoFail(err)
		}
		c.backendKeyData = bkd
		return needPacket(), nil
	case wire.ServerReady:
		status, err := backend.ParseReadyForQuery(payload)
		if err != nil {
			return c.protoFail(err)
		}
		c.txStatus = status
		c.state = connReady
		return finished(nil), nil
	default:
		err := protocolErrorf("connection: unexpected message %s while waiting for ready", msgType)
		c.fail(err)
		return finished(err), err
	}
}

func (c *Connection) protoFail(err error) (Action, error) {
	wrapped := protocolErrorf("%v", err)
	c.fail(wrapped)
	return finished(wrapped), wrapped
}

func (c *Connection) fail(err error) {
	c.broken = true
	c.state = connFailed
	c.err = err
}

// IsBroken reports whether the connection is permanently unusable (spec §7).
func (c *Connection) IsBroken() bool { return c.broken }

// IsReady reports whether the handshake completed successfully.
func (c *Connection) IsReady() bool { return c.state == connReady }

// ServerParams returns every ParameterStatus observed so far, in arrival
// order.
func (c *Connection) ServerParams() []backend.ParameterStatus { return c.serverParams }

// BackendKeyData returns the session's cancellation key, valid once Ready.
func (c *Connection) BackendKeyData() backend.BackendKeyData { return c.backendKeyData }

// TransactionStatus returns the status captured by the last ReadyForQuery.
func (c *Connection) TransactionStatus() wire.TransactionStatus { return c.txStatus }

func containsMechanism(mechanisms []string, want string) bool {
	for _, m := range mechanisms {
		if m == want {
			return true
		}
	}
	return false
}
