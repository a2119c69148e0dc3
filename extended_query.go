package pgwire

import (
	"log/slog"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
)

// BinaryHandler receives the results of an extended-query Execute (spec
// §4.7, §9 "handlers as effect hooks"). It has the same shape as
// TextHandler minus EmptyQuery: ExtendedQuery does not accept an
// EmptyQueryResponse and reports one as an unexpected message.
type BinaryHandler interface {
	Columns(desc backend.RowDescription)
	Row(row *backend.DataRow) RowAction
	CommandComplete(tag backend.CommandComplete)
}

type extendedFlavor int

const (
	flavorPrepare extendedFlavor = iota
	flavorExecuteStatement
	flavorExecuteSQL
	flavorCloseStatement
)

type extendedState int

const (
	extWaitingParse extendedState = iota
	extWaitingParamDesc
	extWaitingRowDesc
	extWaitingParseComplete
	extWaitingBind
	extProcessingRows
	extWaitingCloseComplete
	extWaitingReady
	extFinished
)

// ExtendedQuery drives one Parse/Bind/Describe/Execute/Sync sequence (spec
// §4.7). The same type serves all three execution flavors the spec
// describes, plus Close(Statement); NewPrepare/NewExecuteStatement/
// NewExecuteSQL/NewCloseStatement pick the flavor and build the outbound
// packet up front, since every flavor writes its whole message batch
// before reading any response.
type ExtendedQuery struct {
	flavor extendedFlavor
	state  extendedState

	handler BinaryHandler
	stmt    *PreparedStatement

	stopped bool
	err     error

	txStatus wire.TransactionStatus

	logger *slog.Logger
}

// WithLogger sets the logger used to trace message types sent and received
// at Debug level; a nil logger is a no-op. Returns q for chaining.
func (q *ExtendedQuery) WithLogger(logger *slog.Logger) *ExtendedQuery {
	if logger != nil {
		q.logger = logger
	}
	return q
}

// NewPrepare builds Parse(name, sql, paramOids) + DescribeStatement(name) +
// Sync (spec §4.7 "Prepare"). name == "" prepares the unnamed statement.
func NewPrepare(name, sql string, paramOids []wire.Oid) (*ExtendedQuery, Action) {
	buf := frontend.WriteParse(wire.NewWriter(nil), name, sql, paramOids)
	buf = append(buf, frontend.WriteDescribeStatement(wire.NewWriter(nil), name)...)
	buf = append(buf, frontend.WriteSync(wire.NewWriter(nil))...)

	q := &ExtendedQuery{
		flavor: flavorPrepare,
		state:  extWaitingParse,
		stmt:   &PreparedStatement{Name: name},
		logger: slog.Default(),
	}
	debugWrite(q.logger, "Parse")
	debugWrite(q.logger, "Describe")
	debugWrite(q.logger, "Sync")
	return q, writePacket(buf)
}

// NewExecuteStatement builds Bind("", stmt.Name, params, resultFormats) +
// (DescribePortal("") unless stmt's RowDescription is already cached) +
// Execute("", maxRows) + Sync (spec §4.7 "Execute(stmt)").
func NewExecuteStatement(stmt *PreparedStatement, params []frontend.EncodedParam, resultFormats []wire.FormatCode, maxRows int32, handler BinaryHandler) (*ExtendedQuery, Action) {
	buf := frontend.WriteBind(wire.NewWriter(nil), "", stmt.Name, params, resultFormats)

	q := &ExtendedQuery{
		flavor:  flavorExecuteStatement,
		state:   extWaitingBind,
		stmt:    stmt,
		handler: handler,
		logger:  slog.Default(),
	}
	debugWrite(q.logger, "Bind")

	if !stmt.Described {
		buf = append(buf, frontend.WriteDescribePortal(wire.NewWriter(nil), "")...)
		debugWrite(q.logger, "Describe")
	}
	buf = append(buf, frontend.WriteExecute(wire.NewWriter(nil), "", maxRows)...)
	buf = append(buf, frontend.WriteSync(wire.NewWriter(nil))...)
	debugWrite(q.logger, "Execute")
	debugWrite(q.logger, "Sync")

	if stmt.Described && stmt.HasRows {
		q.handler.Columns(stmt.RowDesc)
	}
	return q, writePacket(buf)
}

// NewExecuteSQL builds an unnamed Parse(sql, paramOids) + Bind("", "",
// params, resultFormats) + DescribePortal("") + Execute("", maxRows) + Sync
// (spec §4.7 "Execute(raw sql)"). ParseComplete is absorbed before
// BindComplete.
func NewExecuteSQL(sql string, paramOids []wire.Oid, params []frontend.EncodedParam, resultFormats []wire.FormatCode, maxRows int32, handler BinaryHandler) (*ExtendedQuery, Action) {
	buf := frontend.WriteParse(wire.NewWriter(nil), "", sql, paramOids)
	buf = append(buf, frontend.WriteBind(wire.NewWriter(nil), "", "", params, resultFormats)...)
	buf = append(buf, frontend.WriteDescribePortal(wire.NewWriter(nil), "")...)
	buf = append(buf, frontend.WriteExecute(wire.NewWriter(nil), "", maxRows)...)
	buf = append(buf, frontend.WriteSync(wire.NewWriter(nil))...)

	q := &ExtendedQuery{
		flavor:  flavorExecuteSQL,
		state:   extWaitingParseComplete,
		handler: handler,
		logger:  slog.Default(),
	}
	debugWrite(q.logger, "Parse")
	debugWrite(q.logger, "Bind")
	debugWrite(q.logger, "Describe")
	debugWrite(q.logger, "Execute")
	debugWrite(q.logger, "Sync")
	return q, writePacket(buf)
}

// NewCloseStatement builds CloseStatement(name) + Sync (spec §4.7
// "Close(statement)").
func NewCloseStatement(name string) (*ExtendedQuery, Action) {
	buf := frontend.WriteCloseStatement(wire.NewWriter(nil), name)
	buf = append(buf, frontend.WriteSync(wire.NewWriter(nil))...)

	q := &ExtendedQuery{flavor: flavorCloseStatement, state: extWaitingCloseComplete, logger: slog.Default()}
	debugWrite(q.logger, "Close")
	debugWrite(q.logger, "Sync")
	return q, writePacket(buf)
}

// Step advances the machine with one framed server message.
func (q *ExtendedQuery) Step(msgType wire.ServerMessage, payload []byte) (Action, error) {
	debugRead(q.logger, msgType)

	if action, handled, err := stepAsync(msgType, payload); handled {
		if err != nil {
			return finished(err), err
		}
		return action, nil
	}

	if msgType == wire.ServerErrorResponse {
		se, err := backend.ParseErrorResponse(payload)
		if err != nil {
			return q.protoFail(err)
		}
		if q.err == nil {
			q.err = serverError(se)
		}
		q.state = extWaitingReady
		return needPacket(), nil
	}

	if msgType == wire.ServerReady {
		status, err := backend.ParseReadyForQuery(payload)
		if err != nil {
			return q.protoFail(err)
		}
		q.txStatus = status
		q.state = extFinished
		return finished(q.err), q.err
	}

	switch q.state {
	case extWaitingParse:
		return q.stepWaitingParse(msgType)
	case extWaitingParamDesc:
		return q.stepWaitingParamDesc(msgType, payload)
	case extWaitingRowDesc:
		return q.stepWaitingRowDesc(msgType, payload)
	case extWaitingParseComplete:
		return q.stepWaitingParseComplete(msgType)
	case extWaitingBind:
		return q.stepWaitingBind(msgType, payload)
	case extProcessingRows:
		return q.stepProcessingRows(msgType, payload)
	case extWaitingCloseComplete:
		return q.stepWaitingCloseComplete(msgType)
	default:
		return q.unexpected(msgType)
	}
}

func (q *ExtendedQuery) stepWaitingParse(msgType wire.ServerMessage) (Action, error) {
	if msgType != wire.ServerParseComplete {
		return q.unexpected(msgType)
	}
	q.state = extWaitingParamDesc
	return needPacket(), nil
}

func (q *ExtendedQuery) stepWaitingParamDesc(msgType wire.ServerMessage, payload []byte) (Action, error) {
	if msgType != wire.ServerParameterDescription {
		return q.unexpected(msgType)
	}
	pd, err := backend.ParseParameterDescription(payload)
	if err != nil {
		return q.protoFail(err)
	}
	q.stmt.ParamOids = pd.ParamOids
	q.state = extWaitingRowDesc
	return needPacket(), nil
}

func (q *ExtendedQuery) stepWaitingRowDesc(msgType wire.ServerMessage, payload []byte) (Action, error) {
	switch msgType {
	case wire.ServerRowDescription:
		rd, err := backend.ParseRowDescription(payload)
		if err != nil {
			return q.protoFail(err)
		}
		q.stmt.RowDesc = rd.Clone()
		q.stmt.HasRows = true
		q.stmt.Described = true
		q.state = extWaitingReady
		return needPacket(), nil
	case wire.ServerNoData:
		q.stmt.Described = true
		q.state = extWaitingReady
		return needPacket(), nil
	default:
		return q.unexpected(msgType)
	}
}

func (q *ExtendedQuery) stepWaitingParseComplete(msgType wire.ServerMessage) (Action, error) {
	if msgType != wire.ServerParseComplete {
		return q.unexpected(msgType)
	}
	q.state = extWaitingBind
	return needPacket(), nil
}

func (q *ExtendedQuery) stepWaitingBind(msgType wire.ServerMessage, payload []byte) (Action, error) {
	switch msgType {
	case wire.ServerBindComplete:
		q.state = extProcessingRows
		return needPacket(), nil
	case wire.ServerRowDescription:
		rd, err := backend.ParseRowDescription(payload)
		if err != nil {
			return q.protoFail(err)
		}
		q.handler.Columns(rd)
		return needPacket(), nil
	default:
		return q.unexpected(msgType)
	}
}

func (q *ExtendedQuery) stepProcessingRows(msgType wire.ServerMessage, payload []byte) (Action, error) {
	switch msgType {
	case wire.ServerRowDescription:
		rd, err := backend.ParseRowDescription(payload)
		if err != nil {
			return q.protoFail(err)
		}
		q.handler.Columns(rd)
		q.stopped = false
		return needPacket(), nil
	case wire.ServerDataRow:
		row, err := backend.ParseDataRow(payload)
		if err != nil {
			return q.protoFail(err)
		}
		if !q.stopped && q.handler.Row(&row) == RowStop {
			q.stopped = true
		}
		return needPacket(), nil
	case wire.ServerCommandComplete:
		cc, err := backend.ParseCommandComplete(payload)
		if err != nil {
			return q.protoFail(err)
		}
		q.handler.CommandComplete(cc)
		q.state = extWaitingReady
		return needPacket(), nil
	case wire.ServerPortalSuspended:
		q.state = extWaitingReady
		return needPacket(), nil
	default:
		return q.unexpected(msgType)
	}
}

func (q *ExtendedQuery) stepWaitingCloseComplete(msgType wire.ServerMessage) (Action, error) {
	if msgType != wire.ServerCloseComplete {
		return q.unexpected(msgType)
	}
	q.state = extWaitingReady
	return needPacket(), nil
}

func (q *ExtendedQuery) unexpected(msgType wire.ServerMessage) (Action, error) {
	err := protocolErrorf("extended query: unexpected message %s in state %d", msgType, q.state)
	q.err = err
	return finished(err), err
}

func (q *ExtendedQuery) protoFail(err error) (Action, error) {
	wrapped := protocolErrorf("%v", err)
	q.err = wrapped
	return finished(wrapped), wrapped
}

// Statement returns the PreparedStatement this query prepared or executed
// against, valid once Step returns ActionFinished with a nil error for a
// Prepare or Execute(stmt) flavor.
func (q *ExtendedQuery) Statement() *PreparedStatement { return q.stmt }

// TransactionStatus returns the status captured by the terminal
// ReadyForQuery.
func (q *ExtendedQuery) TransactionStatus() wire.TransactionStatus { return q.txStatus }
