package backend_test

import (
	"testing"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/codes"
	"github.com/pgwire/pgwire/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPayload(build func(w *wire.Writer)) []byte {
	w := wire.NewWriter(nil)
	w.Start(wire.ClientMessage(0)) // type byte is irrelevant to the parsers under test
	build(w)
	msg := w.End()
	return msg[5:]
}

func TestParseAuthenticationOK(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) { w.AddInt32(0) })

	auth, err := backend.ParseAuthentication(payload)
	require.NoError(t, err)
	assert.Equal(t, backend.AuthOK, auth.Kind)
}

func TestParseAuthenticationMD5(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddInt32(5)
		w.AddBytes([]byte{1, 2, 3, 4})
	})

	auth, err := backend.ParseAuthentication(payload)
	require.NoError(t, err)
	assert.Equal(t, backend.AuthMD5Password, auth.Kind)
	assert.Equal(t, []byte{1, 2, 3, 4}, auth.MD5Salt)
}

func TestParseAuthenticationSASLMechanisms(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddInt32(10)
		w.AddCString("SCRAM-SHA-256")
		w.AddNullTerminate()
	})

	auth, err := backend.ParseAuthentication(payload)
	require.NoError(t, err)
	assert.Equal(t, backend.AuthSASL, auth.Kind)
	assert.Equal(t, []string{"SCRAM-SHA-256"}, auth.Mechanisms)
}

func TestParseAuthenticationUnknownKind(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) { w.AddInt32(99) })

	_, err := backend.ParseAuthentication(payload)
	assert.ErrorIs(t, err, backend.ErrProtocol)
}

func TestParseRowDescriptionAndDataRow(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
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

	desc, err := backend.ParseRowDescription(payload)
	require.NoError(t, err)
	require.Len(t, desc.Fields, 2)
	assert.Equal(t, "?column?", desc.Fields[0].Name)
	assert.Equal(t, wire.Oid(wire.Int4), desc.Fields[0].TypeOid)

	rowPayload := buildPayload(func(w *wire.Writer) {
		w.AddInt16(2)
		w.AddInt32PrefixedBytes([]byte("1"))
		w.AddInt32PrefixedBytes([]byte("a"))
	})

	row, err := backend.ParseDataRow(rowPayload)
	require.NoError(t, err)
	values, err := row.Values()
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, []byte("1"), values[0])
	assert.Equal(t, []byte("a"), values[1])
}

func TestParseDataRowNullColumn(t *testing.T) {
	rowPayload := buildPayload(func(w *wire.Writer) {
		w.AddInt16(1)
		w.AddInt32PrefixedBytes(nil)
	})

	row, err := backend.ParseDataRow(rowPayload)
	require.NoError(t, err)

	value, ok, err := row.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestCommandCompleteRowsAffected(t *testing.T) {
	cases := []struct {
		tag      string
		expected int64
		ok       bool
	}{
		{"SELECT 1", 1, true},
		{"INSERT 0 5", 5, true},
		{"UPDATE 3", 3, true},
		{"DELETE 0", 0, true},
		{"BEGIN", 0, false},
		{"COPY 10", 10, true},
		{"MOVE 2", 2, true},
		{"FETCH 7", 7, true},
	}

	for _, c := range cases {
		cc := backend.CommandComplete{Tag: c.tag}
		n, ok := cc.RowsAffected()
		assert.Equal(t, c.ok, ok, c.tag)
		if ok {
			assert.Equal(t, c.expected, n, c.tag)
		}
	}
}

func TestParseErrorResponse(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddByte('S')
		w.AddCString("ERROR")
		w.AddByte('C')
		w.AddCString("22012")
		w.AddByte('M')
		w.AddCString("division by zero")
		w.AddNullTerminate()
	})

	parsed, err := backend.ParseErrorResponse(payload)
	require.NoError(t, err)
	assert.Equal(t, codes.Code("22012"), parsed.Code)
	assert.Equal(t, "division by zero", parsed.Message)
	assert.False(t, backend.IsFatal(parsed))
}

func TestParseErrorResponseFatal(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddByte('S')
		w.AddCString("FATAL")
		w.AddByte('C')
		w.AddCString("57P01")
		w.AddByte('M')
		w.AddCString("terminating connection")
		w.AddNullTerminate()
	})

	parsed, err := backend.ParseErrorResponse(payload)
	require.NoError(t, err)
	assert.True(t, backend.IsFatal(parsed))
}

func TestParseReadyForQuery(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) { w.AddByte('I') })

	status, err := backend.ParseReadyForQuery(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.TransactionIdle, status)
}

func TestParseBackendKeyData(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddUint32(1234)
		w.AddUint32(5678)
	})

	key, err := backend.ParseBackendKeyData(payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), key.PID)
	assert.Equal(t, uint32(5678), key.SecretKey)
}

func TestParseEmptyMessages(t *testing.T) {
	assert.NoError(t, backend.ParseParseComplete(nil))
	assert.NoError(t, backend.ParseBindComplete([]byte{}))
	assert.Error(t, backend.ParseNoData([]byte{1}))
}

func TestParseParameterStatus(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddCString("server_version")
		w.AddCString("16.2")
	})

	status, err := backend.ParseParameterStatus(payload)
	require.NoError(t, err)
	assert.Equal(t, "server_version", status.Name)
	assert.Equal(t, "16.2", status.Value)
}

func TestParseParameterDescription(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddInt16(2)
		w.AddUint32(uint32(wire.Int4))
		w.AddUint32(uint32(wire.Text))
	})

	desc, err := backend.ParseParameterDescription(payload)
	require.NoError(t, err)
	require.Len(t, desc.ParamOids, 2)
	assert.Equal(t, wire.Oid(wire.Int4), desc.ParamOids[0])
}

func TestParseCopyResponse(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddByte(0)
		w.AddInt16(2)
		w.AddInt16(0)
		w.AddInt16(1)
	})

	resp, err := backend.ParseCopyResponse(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.TextFormat, resp.OverallFormat)
	require.Len(t, resp.ColumnFormats, 2)
	assert.Equal(t, wire.BinaryFormat, resp.ColumnFormats[1])
}

func TestParseNotificationResponse(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddUint32(42)
		w.AddCString("mychannel")
		w.AddCString("payload")
	})

	n, err := backend.ParseNotificationResponse(payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), n.PID)
	assert.Equal(t, "mychannel", n.Channel)
	assert.Equal(t, "payload", n.Payload)
}

func TestIsAsyncType(t *testing.T) {
	assert.True(t, backend.IsAsyncType(wire.ServerNoticeResponse))
	assert.True(t, backend.IsAsyncType(wire.ServerNotificationResponse))
	assert.True(t, backend.IsAsyncType(wire.ServerParameterStatus))
	assert.False(t, backend.IsAsyncType(wire.ServerDataRow))
}

func TestParseNegotiateProtocolVersion(t *testing.T) {
	payload := buildPayload(func(w *wire.Writer) {
		w.AddInt32(0)
		w.AddUint32(1)
		w.AddCString("unrecognized_option")
	})

	v, err := backend.ParseNegotiateProtocolVersion(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"unrecognized_option"}, v.UnrecognizedOptions)
}
