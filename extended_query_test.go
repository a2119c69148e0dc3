package pgwire_test

import (
	"encoding/binary"
	"testing"

	"github.com/pgwire/pgwire"
	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBinaryHandler struct {
	columns   []backend.RowDescription
	rows      [][]int32
	completes []backend.CommandComplete
}

func (h *recordingBinaryHandler) Columns(desc backend.RowDescription) {
	h.columns = append(h.columns, desc)
}

func (h *recordingBinaryHandler) Row(row *backend.DataRow) pgwire.RowAction {
	values, err := row.Values()
	if err != nil {
		panic(err)
	}
	decoded := make([]int32, len(values))
	for i, v := range values {
		decoded[i] = int32(binary.BigEndian.Uint32(v))
	}
	h.rows = append(h.rows, decoded)
	return pgwire.RowContinue
}

func (h *recordingBinaryHandler) CommandComplete(tag backend.CommandComplete) {
	h.completes = append(h.completes, tag)
}

func int4RowDescPayload() []byte {
	return buildPayload(func(w *wire.Writer) {
		w.AddInt16(1)
		w.AddCString("?column?")
		w.AddInt32(0)
		w.AddInt16(0)
		w.AddInt32(int32(wire.Int4))
		w.AddInt16(4)
		w.AddInt32(-1)
		w.AddInt16(int16(wire.BinaryFormat))
	})
}

// TestExtendedQueryPrepareThenExecute exercises preparing and then
// executing "SELECT $1::int4 + $2::int4" with (40, 2), producing 42.
func TestExtendedQueryPrepareThenExecute(t *testing.T) {
	q, action := pgwire.NewPrepare("plus", "SELECT $1::int4 + $2::int4", []wire.Oid{wire.Int4, wire.Int4})
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)

	action, err := q.Step(wire.ServerParseComplete, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	paramDesc := buildPayload(func(w *wire.Writer) {
		w.AddInt16(2)
		w.AddUint32(uint32(wire.Int4))
		w.AddUint32(uint32(wire.Int4))
	})
	action, err = q.Step(wire.ServerParameterDescription, paramDesc)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	action, err = q.Step(wire.ServerRowDescription, int4RowDescPayload())
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = q.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	require.NoError(t, action.Err)

	stmt := q.Statement()
	require.NotNil(t, stmt)
	assert.True(t, stmt.Described)
	assert.True(t, stmt.HasRows)
	require.Len(t, stmt.ParamOids, 2)

	h := &recordingBinaryHandler{}
	param40, err := (&encodeInt{40}).bytes()
	require.NoError(t, err)
	param2, err := (&encodeInt{2}).bytes()
	require.NoError(t, err)

	params := []frontend.EncodedParam{
		{Format: wire.BinaryFormat, Value: param40},
		{Format: wire.BinaryFormat, Value: param2},
	}
	exec, action := pgwire.NewExecuteStatement(stmt, params, []wire.FormatCode{wire.BinaryFormat}, 0, h)
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)

	// DescribePortal is skipped since the statement is already Described,
	// so the cached RowDescription is delivered to the handler immediately.
	require.Len(t, h.columns, 1)

	action, err = exec.Step(wire.ServerBindComplete, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	row42 := buildPayload(func(w *wire.Writer) {
		w.AddInt16(1)
		w.AddInt32PrefixedBytes(binary.BigEndian.AppendUint32(nil, uint32(42)))
	})
	action, err = exec.Step(wire.ServerDataRow, row42)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	cc := buildPayload(func(w *wire.Writer) { w.AddCString("SELECT 1") })
	action, err = exec.Step(wire.ServerCommandComplete, cc)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	action, err = exec.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	require.NoError(t, action.Err)

	require.Len(t, h.rows, 1)
	assert.Equal(t, []int32{42}, h.rows[0])
}

// encodeInt is a tiny int4 binary encoder local to this test file, avoiding
// a dependency on the value package's fuller parameter codec.
type encodeInt struct{ v int32 }

func (e *encodeInt) bytes() ([]byte, error) {
	return binary.BigEndian.AppendUint32(nil, uint32(e.v)), nil
}

func TestExtendedQueryCloseStatement(t *testing.T) {
	q, action := pgwire.NewCloseStatement("plus")
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)

	action, err := q.Step(wire.ServerCloseComplete, nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = q.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	require.NoError(t, action.Err)
}
