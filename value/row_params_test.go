package value_test

import (
	"testing"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/value"
	"github.com/pgwire/pgwire/wire"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDataRow(t *testing.T, cols [][]byte) backend.DataRow {
	t.Helper()
	w := wire.NewWriter(nil)
	w.Start(wire.ClientMessage(0))
	w.AddInt16(int16(len(cols)))
	for _, c := range cols {
		w.AddInt32PrefixedBytes(c)
	}
	msg := w.End()

	row, err := backend.ParseDataRow(msg[5:])
	require.NoError(t, err)
	return row
}

func TestFromRowDecodesEachColumn(t *testing.T) {
	fields := []backend.FieldDescription{
		{Name: "id", TypeOid: wire.Int4, Format: wire.BinaryFormat},
		{Name: "label", TypeOid: wire.Text, Format: wire.TextFormat},
	}
	row := buildDataRow(t, [][]byte{{0, 0, 0, 42}, []byte("hello")})

	var id value.Int
	var label value.Text
	require.NoError(t, value.FromRow(fields, &row, &id, &label))

	assert.Equal(t, int64(42), id.Value)
	assert.Equal(t, "hello", label.Value)
}

func TestFromRowHandlesNullColumn(t *testing.T) {
	fields := []backend.FieldDescription{{Name: "label", TypeOid: wire.Text, Format: wire.TextFormat}}
	row := buildDataRow(t, [][]byte{nil})

	var label value.Text
	require.NoError(t, value.FromRow(fields, &row, &label))
	assert.False(t, label.Valid)
}

func TestFromRowArityMismatch(t *testing.T) {
	fields := []backend.FieldDescription{{Name: "id", TypeOid: wire.Int4, Format: wire.BinaryFormat}}
	row := buildDataRow(t, [][]byte{{0, 0, 0, 1}})

	var id, extra value.Int
	err := value.FromRow(fields, &row, &id, &extra)
	assert.ErrorIs(t, err, value.ErrArity)
}

func TestEncodeParamsUsesNaturalOidsAndPreferredFormat(t *testing.T) {
	params := []value.ToWireValue{
		value.Int{Value: 7, Valid: true},
		value.Numeric{Value: mustDecimal(t, "9.50"), Valid: true},
	}

	encoded, err := value.EncodeParams(params, nil)
	require.NoError(t, err)
	require.Len(t, encoded, 2)

	assert.Equal(t, wire.BinaryFormat, encoded[0].Format)
	assert.Equal(t, wire.TextFormat, encoded[1].Format)
	assert.Equal(t, "9.5", string(encoded[1].Value))
}

func TestEncodeParamsHonorsTargetOidOverride(t *testing.T) {
	params := []value.ToWireValue{value.Int{Value: 7, Valid: true}}

	encoded, err := value.EncodeParams(params, []wire.Oid{wire.Int2})
	require.NoError(t, err)
	assert.Len(t, encoded[0].Value, 2)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	var n value.Numeric
	require.NoError(t, n.FromText(wire.Numeric, []byte(s)))
	return n.Value
}
