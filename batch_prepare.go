package pgwire

import (
	"log/slog"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
)

type batchState int

const (
	batchWaitingParseComplete batchState = iota
	batchWaitingParamDesc
	batchWaitingRowDesc
	batchWaitingReady
	batchFinished
)

// BatchPrepare prepares many statements with a single round trip: for each
// query it writes Parse(generated_name_i, q_i, []) + DescribeStatement
// (generated_name_i), then one Sync after all of them (spec §4.8). It
// reads back (ParseComplete, ParameterDescription, RowDescription|NoData)
// × N, then ReadyForQuery. If any query errors, the server discards the
// rest of the batch; the machine absorbs messages until ReadyForQuery
// before surfacing the error.
type BatchPrepare struct {
	queries []string
	names   []string

	statements []*PreparedStatement
	index      int
	state      batchState

	err      error
	txStatus wire.TransactionStatus

	logger *slog.Logger
}

// NewBatchPrepare assigns each query a generated statement name via
// counter and returns the batch machine plus the packet to write.
func NewBatchPrepare(counter *statementCounter, queries []string) (*BatchPrepare, Action) {
	names := make([]string, len(queries))
	b := &BatchPrepare{queries: queries, names: names, state: batchWaitingParseComplete, logger: slog.Default()}

	var buf []byte
	for i, q := range queries {
		name, _ := counter.generate()
		names[i] = name
		buf = append(buf, frontend.WriteParse(wire.NewWriter(nil), name, q, nil)...)
		buf = append(buf, frontend.WriteDescribeStatement(wire.NewWriter(nil), name)...)
		debugWrite(b.logger, "Parse")
		debugWrite(b.logger, "Describe")
	}
	buf = append(buf, frontend.WriteSync(wire.NewWriter(nil))...)
	debugWrite(b.logger, "Sync")

	return b, writePacket(buf)
}

// WithLogger sets the logger used to trace message types sent and received
// at Debug level; a nil logger is a no-op. Returns b for chaining.
func (b *BatchPrepare) WithLogger(logger *slog.Logger) *BatchPrepare {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Step advances the machine with one framed server message.
func (b *BatchPrepare) Step(msgType wire.ServerMessage, payload []byte) (Action, error) {
	debugRead(b.logger, msgType)

	if action, handled, err := stepAsync(msgType, payload); handled {
		if err != nil {
			return finished(err), err
		}
		return action, nil
	}

	switch msgType {
	case wire.ServerErrorResponse:
		se, err := backend.ParseErrorResponse(payload)
		if err != nil {
			return b.protoFail(err)
		}
		if b.err == nil {
			b.err = serverError(se)
		}
		b.state = batchWaitingReady
		return needPacket(), nil

	case wire.ServerParseComplete:
		if b.state != batchWaitingParseComplete {
			return b.unexpected(msgType)
		}
		b.statements = append(b.statements, &PreparedStatement{Name: b.names[b.index]})
		b.state = batchWaitingParamDesc
		return needPacket(), nil

	case wire.ServerParameterDescription:
		if b.state != batchWaitingParamDesc {
			return b.unexpected(msgType)
		}
		pd, err := backend.ParseParameterDescription(payload)
		if err != nil {
			return b.protoFail(err)
		}
		b.statements[b.index].ParamOids = pd.ParamOids
		b.state = batchWaitingRowDesc
		return needPacket(), nil

	case wire.ServerRowDescription:
		if b.state != batchWaitingRowDesc {
			return b.unexpected(msgType)
		}
		rd, err := backend.ParseRowDescription(payload)
		if err != nil {
			return b.protoFail(err)
		}
		b.statements[b.index].RowDesc = rd.Clone()
		b.statements[b.index].HasRows = true
		b.statements[b.index].Described = true
		b.advance()
		return needPacket(), nil

	case wire.ServerNoData:
		if b.state != batchWaitingRowDesc {
			return b.unexpected(msgType)
		}
		b.statements[b.index].Described = true
		b.advance()
		return needPacket(), nil

	case wire.ServerReady:
		status, err := backend.ParseReadyForQuery(payload)
		if err != nil {
			return b.protoFail(err)
		}
		b.txStatus = status
		b.state = batchFinished
		return finished(b.err), b.err

	default:
		return b.unexpected(msgType)
	}
}

func (b *BatchPrepare) advance() {
	b.index++
	if b.index < len(b.queries) {
		b.state = batchWaitingParseComplete
	} else {
		b.state = batchWaitingReady
	}
}

func (b *BatchPrepare) unexpected(msgType wire.ServerMessage) (Action, error) {
	err := protocolErrorf("batch prepare: unexpected message %s in state %d", msgType, b.state)
	b.err = err
	return finished(err), err
}

func (b *BatchPrepare) protoFail(err error) (Action, error) {
	wrapped := protocolErrorf("%v", err)
	b.err = wrapped
	return finished(wrapped), wrapped
}

// Statements returns the prepared statements built so far; fully valid
// once Step returns ActionFinished with a nil error.
func (b *BatchPrepare) Statements() []*PreparedStatement { return b.statements }

// TransactionStatus returns the status captured by the terminal
// ReadyForQuery.
func (b *BatchPrepare) TransactionStatus() wire.TransactionStatus { return b.txStatus }
