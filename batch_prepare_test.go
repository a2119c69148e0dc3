package pgwire_test

import (
	"testing"

	"github.com/pgwire/pgwire"
	"github.com/pgwire/pgwire/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchPrepareTwoQueries(t *testing.T) {
	b, action := pgwire.NewBatchPrepare(pgwire.NewStatementCounter(), []string{
		"SELECT $1::int4",
		"INSERT INTO t VALUES ($1::text)",
	})
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)

	// query 1: ParseComplete, ParameterDescription, RowDescription
	action, err := b.Step(wire.ServerParseComplete, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	pd1 := buildPayload(func(w *wire.Writer) {
		w.AddInt16(1)
		w.AddUint32(uint32(wire.Int4))
	})
	action, err = b.Step(wire.ServerParameterDescription, pd1)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	rd1 := buildPayload(func(w *wire.Writer) {
		w.AddInt16(1)
		w.AddCString("?column?")
		w.AddInt32(0)
		w.AddInt16(0)
		w.AddInt32(int32(wire.Int4))
		w.AddInt16(4)
		w.AddInt32(-1)
		w.AddInt16(int16(wire.TextFormat))
	})
	action, err = b.Step(wire.ServerRowDescription, rd1)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	// query 2: ParseComplete, ParameterDescription, NoData (an INSERT)
	action, err = b.Step(wire.ServerParseComplete, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	pd2 := buildPayload(func(w *wire.Writer) {
		w.AddInt16(1)
		w.AddUint32(uint32(wire.Text))
	})
	action, err = b.Step(wire.ServerParameterDescription, pd2)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	action, err = b.Step(wire.ServerNoData, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = b.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	require.NoError(t, action.Err)

	stmts := b.Statements()
	require.Len(t, stmts, 2)
	assert.True(t, stmts[0].HasRows)
	assert.False(t, stmts[1].HasRows)
	assert.True(t, stmts[0].Described)
	assert.True(t, stmts[1].Described)
	assert.NotEqual(t, stmts[0].Name, stmts[1].Name)
}

func TestBatchPrepareErrorDiscardsRestOfBatch(t *testing.T) {
	b, _ := pgwire.NewBatchPrepare(pgwire.NewStatementCounter(), []string{
		"SELECT 1/0",
		"SELECT 1",
	})

	errPayload := buildPayload(func(w *wire.Writer) {
		w.AddByte('S')
		w.AddCString("ERROR")
		w.AddByte('C')
		w.AddCString("22012")
		w.AddByte('M')
		w.AddCString("division by zero")
		w.AddNullTerminate()
	})
	action, err := b.Step(wire.ServerErrorResponse, errPayload)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = b.Step(wire.ServerReady, ready)
	require.Error(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)

	var pgErr *pgwire.Error
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, pgwire.KindServer, pgErr.Kind)
}
