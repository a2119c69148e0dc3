package pgwire

import (
	"log/slog"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
)

// RowAction is returned by a row handler to tell the state machine whether
// to keep delivering rows or to discard the rest of the current result set
// (spec §4.6, §4.7, §9 "handlers as effect hooks").
type RowAction int

const (
	RowContinue RowAction = iota
	RowStop
)

// TextHandler receives the results of a simple-query sequence, one
// callback per message, so a caller can project rows straight into its own
// containers without an intermediate buffer (spec §4.6).
type TextHandler interface {
	Columns(desc backend.RowDescription)
	Row(row *backend.DataRow) RowAction
	CommandComplete(tag backend.CommandComplete)
	EmptyQuery()
}

type simpleQueryState int

const (
	sqAwaitingResult simpleQueryState = iota
	sqProcessingRows
	sqWaitingReady
	sqFinished
)

// SimpleQuery drives the simple-query protocol: a single Query message
// followed by ( RowDescription → DataRow* → CommandComplete |
// CommandComplete | EmptyQueryResponse )* → ReadyForQuery (spec §4.6).
type SimpleQuery struct {
	handler TextHandler
	state   simpleQueryState
	stopped bool

	err      error
	txStatus wire.TransactionStatus

	logger *slog.Logger
}

// NewSimpleQuery constructs a SimpleQuery and returns the Query packet to
// write.
func NewSimpleQuery(sql string, handler TextHandler) (*SimpleQuery, Action) {
	pkt := frontend.WriteQuery(wire.NewWriter(nil), sql)
	s := &SimpleQuery{handler: handler, state: sqAwaitingResult, logger: slog.Default()}
	debugWrite(s.logger, "Query")
	return s, writePacket(pkt)
}

// WithLogger sets the logger used to trace message types sent and received
// at Debug level; a nil logger is a no-op. Returns s for chaining.
func (s *SimpleQuery) WithLogger(logger *slog.Logger) *SimpleQuery {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Step advances the machine with one framed server message.
func (s *SimpleQuery) Step(msgType wire.ServerMessage, payload []byte) (Action, error) {
	debugRead(s.logger, msgType)

	if action, handled, err := stepAsync(msgType, payload); handled {
		if err != nil {
			return finished(err), err
		}
		return action, nil
	}

	switch msgType {
	case wire.ServerRowDescription:
		desc, err := backend.ParseRowDescription(payload)
		if err != nil {
			return s.protoFail(err)
		}
		s.handler.Columns(desc)
		s.state = sqProcessingRows
		s.stopped = false
		return needPacket(), nil

	case wire.ServerDataRow:
		row, err := backend.ParseDataRow(payload)
		if err != nil {
			return s.protoFail(err)
		}
		if !s.stopped {
			if s.handler.Row(&row) == RowStop {
				s.stopped = true
			}
		}
		return needPacket(), nil

	case wire.ServerCommandComplete:
		cc, err := backend.ParseCommandComplete(payload)
		if err != nil {
			return s.protoFail(err)
		}
		s.handler.CommandComplete(cc)
		s.state = sqAwaitingResult
		s.stopped = false
		return needPacket(), nil

	case wire.ServerEmptyQuery:
		s.handler.EmptyQuery()
		s.state = sqAwaitingResult
		return needPacket(), nil

	case wire.ServerErrorResponse:
		se, err := backend.ParseErrorResponse(payload)
		if err != nil {
			return s.protoFail(err)
		}
		if s.err == nil {
			s.err = serverError(se)
		}
		s.state = sqWaitingReady
		return needPacket(), nil

	case wire.ServerReady:
		status, err := backend.ParseReadyForQuery(payload)
		if err != nil {
			return s.protoFail(err)
		}
		s.txStatus = status
		s.state = sqFinished
		return finished(s.err), s.err

	default:
		err := protocolErrorf("simple query: unexpected message %s in state %d", msgType, s.state)
		s.err = err
		return finished(err), err
	}
}

func (s *SimpleQuery) protoFail(err error) (Action, error) {
	wrapped := protocolErrorf("%v", err)
	s.err = wrapped
	return finished(wrapped), wrapped
}

// TransactionStatus returns the status captured by the terminal
// ReadyForQuery.
func (s *SimpleQuery) TransactionStatus() wire.TransactionStatus { return s.txStatus }
