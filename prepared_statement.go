package pgwire

import (
	"fmt"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/wire"
)

// PreparedStatement is a server-side prepared statement created by a
// successful Parse+Describe+Sync: its server-unique wire name, the
// parameter OIDs the server reported, and, once observed, the cached parsed
// RowDescription so later binds can skip DescribePortal (spec §3,
// §9). It is released by Close(Statement)+Sync or implicitly when the
// session ends.
type PreparedStatement struct {
	Name      string
	ParamOids []wire.Oid

	// RowDesc and HasRows are populated once Describe has completed.
	// HasRows is false when the server reported NoData (the statement
	// produces no rows, e.g. an INSERT).
	RowDesc backend.RowDescription
	HasRows bool

	// Described is true once this statement's Describe step has completed
	// at least once, regardless of whether it returned rows.
	Described bool

	idx uint64
}

// statementCounter assigns the monotonically increasing indices spec §3
// describes ("monotonically-assigned idx"), used here to build unique
// generated statement names for BatchPrepare.
type statementCounter struct{ next uint64 }

// NewStatementCounter constructs a counter for generating statement names
// across one or more BatchPrepare calls sharing a session.
func NewStatementCounter() *statementCounter { return &statementCounter{} }

func (c *statementCounter) generate() (name string, idx uint64) {
	idx = c.next
	c.next++
	return fmt.Sprintf("_s_%d", idx), idx
}
