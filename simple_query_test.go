package pgwire_test

import (
	"testing"

	"github.com/pgwire/pgwire"
	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTextHandler struct {
	columns   []backend.RowDescription
	rows      [][]string
	completes []backend.CommandComplete
	empties   int
	stopAfter int
}

func (h *recordingTextHandler) Columns(desc backend.RowDescription) {
	h.columns = append(h.columns, desc)
}

func (h *recordingTextHandler) Row(row *backend.DataRow) pgwire.RowAction {
	values, err := row.Values()
	if err != nil {
		panic(err)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			rendered[i] = "<null>"
		} else {
			rendered[i] = string(v)
		}
	}
	h.rows = append(h.rows, rendered)
	if h.stopAfter > 0 && len(h.rows) >= h.stopAfter {
		return pgwire.RowStop
	}
	return pgwire.RowContinue
}

func (h *recordingTextHandler) CommandComplete(tag backend.CommandComplete) {
	h.completes = append(h.completes, tag)
}

func (h *recordingTextHandler) EmptyQuery() { h.empties++ }

// TestSimpleQuerySelectLiteral exercises "SELECT 1, 'a'" end to end: one
// RowDescription, one DataRow, one CommandComplete, then ReadyForQuery.
func TestSimpleQuerySelectLiteral(t *testing.T) {
	h := &recordingTextHandler{}
	q, action := pgwire.NewSimpleQuery("SELECT 1, 'a'", h)
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)

	rowDesc := buildPayload(func(w *wire.Writer) {
		w.AddInt16(2)
		w.AddCString("?column?")
		w.AddInt32(0)
		w.AddInt16(0)
		w.AddInt32(int32(wire.Int4))
		w.AddInt16(4)
		w.AddInt32(-1)
		w.AddInt16(int16(wire.TextFormat))

		w.AddCString("?column?")
		w.AddInt32(0)
		w.AddInt16(0)
		w.AddInt32(int32(wire.Text))
		w.AddInt16(-1)
		w.AddInt32(-1)
		w.AddInt16(int16(wire.TextFormat))
	})
	action, err := q.Step(wire.ServerRowDescription, rowDesc)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	dataRow := buildPayload(func(w *wire.Writer) {
		w.AddInt16(2)
		w.AddInt32PrefixedBytes([]byte("1"))
		w.AddInt32PrefixedBytes([]byte("a"))
	})
	action, err = q.Step(wire.ServerDataRow, dataRow)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	cc := buildPayload(func(w *wire.Writer) { w.AddCString("SELECT 1") })
	action, err = q.Step(wire.ServerCommandComplete, cc)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = q.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	assert.NoError(t, action.Err)

	require.Len(t, h.rows, 1)
	assert.Equal(t, []string{"1", "a"}, h.rows[0])
	require.Len(t, h.completes, 1)
	assert.Equal(t, "SELECT 1", h.completes[0].Tag)
	assert.Equal(t, wire.TransactionIdle, q.TransactionStatus())
}

func TestSimpleQueryEmptyString(t *testing.T) {
	h := &recordingTextHandler{}
	q, _ := pgwire.NewSimpleQuery("", h)

	action, err := q.Step(wire.ServerEmptyQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = q.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	assert.Equal(t, 1, h.empties)
}

func TestSimpleQueryErrorSurfacesOnlyAtReady(t *testing.T) {
	h := &recordingTextHandler{}
	q, _ := pgwire.NewSimpleQuery("SELECT 1/0", h)

	errPayload := buildPayload(func(w *wire.Writer) {
		w.AddByte('S')
		w.AddCString("ERROR")
		w.AddByte('C')
		w.AddCString("22012")
		w.AddByte('M')
		w.AddCString("division by zero")
		w.AddNullTerminate()
	})
	action, err := q.Step(wire.ServerErrorResponse, errPayload)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = q.Step(wire.ServerReady, ready)
	require.Error(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)

	var pgErr *pgwire.Error
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, pgwire.KindServer, pgErr.Kind)
	assert.EqualValues(t, "22012", pgErr.Server.Code)
}
