package pgwire

import (
	"log/slog"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
)

// Expectation records which message sequence a queued pipeline operation
// will produce when claimed (spec §4.9).
type Expectation int

const (
	// ExpectParseBindExecute: ParseComplete, BindComplete,
	// (RowDescription|NoData), DataRow*, (CommandComplete|EmptyQueryResponse).
	ExpectParseBindExecute Expectation = iota
	// ExpectBindExecute: BindComplete, (RowDescription|NoData), DataRow*,
	// terminal.
	ExpectBindExecute
)

// Ticket is an opaque handle into the pipeline's ordered result stream
// (GLOSSARY). Tickets must be claimed in the order they were issued.
type Ticket struct {
	seq         uint64
	expectation Expectation
}

// Seq returns the ticket's queue position, mainly useful for diagnostics
// and tests.
func (t Ticket) Seq() uint64 { return t.seq }

type claimState int

const (
	claimWaitingParseComplete claimState = iota
	claimWaitingBindComplete
	claimWaitingRowDesc
	claimProcessingRows
)

// Pipeline is a session phase that issues many exec operations before
// observing their terminals (spec §4.9). Each Exec call assigns a Ticket
// in queue order; Claim consumes one ticket's sub-stream of results,
// strictly in that order. If any claim fails, the pipeline enters an
// aborted state: every later claim returns a synthesized error without
// performing any I/O, until the final ReadyForQuery (produced by the Sync
// that closed the batch) is read during cleanup.
type Pipeline struct {
	queueSeq   uint64
	claimSeq   uint64
	needsFlush bool
	aborted    bool

	active        bool
	activeHandler TextHandler
	activeState   claimState
	activeStopped bool

	txStatus wire.TransactionStatus

	logger *slog.Logger
}

// NewPipeline constructs an empty Pipeline.
func NewPipeline() *Pipeline { return &Pipeline{logger: slog.Default()} }

// WithLogger sets the logger used to trace message types sent and received
// at Debug level; a nil logger is a no-op. Returns p for chaining.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// QueueSeq and ClaimSeq expose the counters spec invariant §3 requires
// ("queue_seq ≥ claim_seq; Finished when equal and ReadyForQuery observed").
func (p *Pipeline) QueueSeq() uint64 { return p.queueSeq }
func (p *Pipeline) ClaimSeq() uint64 { return p.claimSeq }

// NeedsFlush reports whether a Flush or Sync is required before the host
// may read, per the most recent Exec call.
func (p *Pipeline) NeedsFlush() bool { return p.needsFlush }

// IsAborted reports whether an earlier claim failed and the pipeline is
// draining toward ReadyForQuery.
func (p *Pipeline) IsAborted() bool { return p.aborted }

// ExecStatement queues a Bind+DescribePortal("")+Execute("",0) against an
// already-prepared statement and returns its Ticket plus the packet to
// write.
func (p *Pipeline) ExecStatement(stmt *PreparedStatement, params []frontend.EncodedParam, resultFormats []wire.FormatCode) (Ticket, []byte) {
	buf := frontend.WriteBind(wire.NewWriter(nil), "", stmt.Name, params, resultFormats)
	buf = append(buf, frontend.WriteDescribePortal(wire.NewWriter(nil), "")...)
	buf = append(buf, frontend.WriteExecute(wire.NewWriter(nil), "", 0)...)
	debugWrite(p.logger, "Bind")
	debugWrite(p.logger, "Describe")
	debugWrite(p.logger, "Execute")
	return p.enqueue(ExpectBindExecute), buf
}

// ExecSQL queues an unnamed Parse(sql, paramOids)+Bind+DescribePortal("")+
// Execute("",0) and returns its Ticket plus the packet to write.
func (p *Pipeline) ExecSQL(sql string, paramOids []wire.Oid, params []frontend.EncodedParam, resultFormats []wire.FormatCode) (Ticket, []byte) {
	buf := frontend.WriteParse(wire.NewWriter(nil), "", sql, paramOids)
	buf = append(buf, frontend.WriteBind(wire.NewWriter(nil), "", "", params, resultFormats)...)
	buf = append(buf, frontend.WriteDescribePortal(wire.NewWriter(nil), "")...)
	buf = append(buf, frontend.WriteExecute(wire.NewWriter(nil), "", 0)...)
	debugWrite(p.logger, "Parse")
	debugWrite(p.logger, "Bind")
	debugWrite(p.logger, "Describe")
	debugWrite(p.logger, "Execute")
	return p.enqueue(ExpectParseBindExecute), buf
}

func (p *Pipeline) enqueue(exp Expectation) Ticket {
	seq := p.queueSeq
	p.queueSeq++
	p.needsFlush = true
	return Ticket{seq: seq, expectation: exp}
}

// Sync builds a Sync message, closing the batch and clearing NeedsFlush.
func (p *Pipeline) Sync() []byte {
	p.needsFlush = false
	debugWrite(p.logger, "Sync")
	return frontend.WriteSync(wire.NewWriter(nil))
}

// Flush builds a Flush message, forcing buffered responses without
// closing the batch.
func (p *Pipeline) Flush() []byte {
	p.needsFlush = false
	debugWrite(p.logger, "Flush")
	return frontend.WriteFlush(wire.NewWriter(nil))
}

// Claim begins consuming ticket's sub-stream of results into handler. A
// claim out of order fails with InvalidUsage before any I/O (spec §5). If
// the pipeline is already aborted, the aborted error is returned
// immediately, with no packet read (spec §4.9).
func (p *Pipeline) Claim(ticket Ticket, handler TextHandler) (Action, error) {
	if ticket.seq != p.claimSeq {
		return Action{}, invalidUsageErrorf("pipeline: claim out of order: want seq %d, got %d", p.claimSeq, ticket.seq)
	}

	if p.aborted {
		p.claimSeq++
		err := protocolErrorf("pipeline aborted: an earlier operation failed")
		return finished(err), err
	}

	p.active = true
	p.activeHandler = handler
	p.activeStopped = false
	if ticket.expectation == ExpectParseBindExecute {
		p.activeState = claimWaitingParseComplete
	} else {
		p.activeState = claimWaitingBindComplete
	}
	return needPacket(), nil
}

// Step advances the currently-claimed ticket (or, once every ticket has
// been claimed, drains the terminal ReadyForQuery) with one framed server
// message.
func (p *Pipeline) Step(msgType wire.ServerMessage, payload []byte) (Action, error) {
	debugRead(p.logger, msgType)

	if action, handled, err := stepAsync(msgType, payload); handled {
		if err != nil {
			return finished(err), err
		}
		return action, nil
	}

	if !p.active {
		if msgType != wire.ServerReady {
			err := protocolErrorf("pipeline: unexpected message %s while draining", msgType)
			return finished(err), err
		}
		status, err := backend.ParseReadyForQuery(payload)
		if err != nil {
			wrapped := protocolErrorf("%v", err)
			return finished(wrapped), wrapped
		}
		p.txStatus = status
		p.queueSeq = 0
		p.claimSeq = 0
		p.aborted = false
		return finished(nil), nil
	}

	if msgType == wire.ServerErrorResponse {
		se, err := backend.ParseErrorResponse(payload)
		if err != nil {
			return p.claimProtoFail(err)
		}
		p.aborted = true
		claimErr := serverError(se)
		p.finishClaim()
		return finished(claimErr), claimErr
	}

	switch p.activeState {
	case claimWaitingParseComplete:
		if msgType != wire.ServerParseComplete {
			return p.claimUnexpected(msgType)
		}
		p.activeState = claimWaitingBindComplete
		return needPacket(), nil

	case claimWaitingBindComplete:
		if msgType != wire.ServerBindComplete {
			return p.claimUnexpected(msgType)
		}
		p.activeState = claimWaitingRowDesc
		return needPacket(), nil

	case claimWaitingRowDesc:
		switch msgType {
		case wire.ServerRowDescription:
			rd, err := backend.ParseRowDescription(payload)
			if err != nil {
				return p.claimProtoFail(err)
			}
			p.activeHandler.Columns(rd)
			p.activeState = claimProcessingRows
			return needPacket(), nil
		case wire.ServerNoData:
			p.activeState = claimProcessingRows
			return needPacket(), nil
		default:
			return p.claimUnexpected(msgType)
		}

	case claimProcessingRows:
		switch msgType {
		case wire.ServerDataRow:
			row, err := backend.ParseDataRow(payload)
			if err != nil {
				return p.claimProtoFail(err)
			}
			if !p.activeStopped && p.activeHandler.Row(&row) == RowStop {
				p.activeStopped = true
			}
			return needPacket(), nil
		case wire.ServerCommandComplete:
			cc, err := backend.ParseCommandComplete(payload)
			if err != nil {
				return p.claimProtoFail(err)
			}
			p.activeHandler.CommandComplete(cc)
			p.finishClaim()
			return finished(nil), nil
		case wire.ServerEmptyQuery:
			p.activeHandler.EmptyQuery()
			p.finishClaim()
			return finished(nil), nil
		default:
			return p.claimUnexpected(msgType)
		}

	default:
		return p.claimUnexpected(msgType)
	}
}

func (p *Pipeline) finishClaim() {
	p.claimSeq++
	p.active = false
}

func (p *Pipeline) claimUnexpected(msgType wire.ServerMessage) (Action, error) {
	err := protocolErrorf("pipeline: unexpected message %s in claim state %d", msgType, p.activeState)
	p.aborted = true
	p.finishClaim()
	return finished(err), err
}

func (p *Pipeline) claimProtoFail(err error) (Action, error) {
	wrapped := protocolErrorf("%v", err)
	p.aborted = true
	p.finishClaim()
	return finished(wrapped), wrapped
}

// TransactionStatus returns the status captured by the most recent
// completed drain.
func (p *Pipeline) TransactionStatus() wire.TransactionStatus { return p.txStatus }
