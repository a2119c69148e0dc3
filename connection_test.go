package pgwire_test

import (
	"testing"

	"github.com/pgwire/pgwire"
	"github.com/pgwire/pgwire/md5auth"
	"github.com/pgwire/pgwire/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionMD5Handshake(t *testing.T) {
	opts := pgwire.Opts{User: "alice", Database: "app", Password: "s3cret", SslMode: pgwire.SslDisable}
	c := pgwire.NewConnection(opts)

	action, err := c.Start()
	require.NoError(t, err)
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)
	require.Equal(t, pgwire.ActionNeedPacket, c.NextAction().Kind)

	salt := []byte{1, 2, 3, 4}
	authMD5 := buildPayload(func(w *wire.Writer) {
		w.AddInt32(5)
		w.AddBytes(salt)
	})
	action, err = c.Step(wire.ServerAuth, authMD5)
	require.NoError(t, err)
	require.Equal(t, pgwire.ActionWritePacket, action.Kind)

	wantHash := md5auth.HashPassword("alice", "s3cret", salt)
	gotPassword := decodePasswordMessage(t, action.Packet)
	assert.Equal(t, wantHash, gotPassword)

	authOK := buildPayload(func(w *wire.Writer) { w.AddInt32(0) })
	action, err = c.Step(wire.ServerAuth, authOK)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	bkd := buildPayload(func(w *wire.Writer) {
		w.AddUint32(4242)
		w.AddUint32(9999)
	})
	action, err = c.Step(wire.ServerBackendKeyData, bkd)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)

	ready := buildPayload(func(w *wire.Writer) { w.AddByte('I') })
	action, err = c.Step(wire.ServerReady, ready)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	assert.NoError(t, action.Err)

	assert.True(t, c.IsReady())
	assert.False(t, c.IsBroken())
	assert.Equal(t, uint32(4242), c.BackendKeyData().PID)
	assert.Equal(t, wire.TransactionIdle, c.TransactionStatus())
}

func TestConnectionSslRequireFailsOnDecline(t *testing.T) {
	opts := pgwire.Opts{User: "alice", SslMode: pgwire.SslRequire}
	c := pgwire.NewConnection(opts)

	_, err := c.Start()
	require.NoError(t, err)
	require.Equal(t, pgwire.ActionNeedSSLResponseByte, c.NextAction().Kind)

	action, err := c.StepSSLResponse('N')
	require.Error(t, err)
	assert.Equal(t, pgwire.ActionFinished, action.Kind)
	assert.True(t, c.IsBroken())

	var pgErr *pgwire.Error
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, pgwire.KindAuth, pgErr.Kind)
}

func TestConnectionSslAcceptedRequestsHandshake(t *testing.T) {
	opts := pgwire.Opts{User: "alice", SslMode: pgwire.SslPrefer}
	c := pgwire.NewConnection(opts)
	_, err := c.Start()
	require.NoError(t, err)

	action, err := c.StepSSLResponse('S')
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionTLSHandshake, action.Kind)

	action, err = c.StepTLSHandshakeDone(nil)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionWritePacket, action.Kind)
}

func TestConnectionAsyncParameterStatusSurfacesDuringHandshake(t *testing.T) {
	opts := pgwire.Opts{User: "alice", SslMode: pgwire.SslDisable}
	c := pgwire.NewConnection(opts)
	_, err := c.Start()
	require.NoError(t, err)

	payload := buildPayload(func(w *wire.Writer) {
		w.AddCString("server_version")
		w.AddCString("16.2")
	})
	action, err := c.Step(wire.ServerParameterStatus, payload)
	require.NoError(t, err)
	require.Equal(t, pgwire.ActionAsyncMessage, action.Kind)
	assert.Equal(t, pgwire.AsyncParameterChanged, action.Async.Kind)
	assert.Equal(t, "server_version", action.Async.ParameterName)
	require.Len(t, c.ServerParams(), 1)
}

func TestConnectionNegotiateProtocolVersionSurfacesDuringHandshake(t *testing.T) {
	opts := pgwire.Opts{User: "alice", SslMode: pgwire.SslDisable}
	c := pgwire.NewConnection(opts)
	_, err := c.Start()
	require.NoError(t, err)

	payload := buildPayload(func(w *wire.Writer) {
		w.AddInt32(0)
		w.AddUint32(1)
		w.AddCString("unrecognized_option")
	})
	action, err := c.Step(wire.ServerNegotiateProtoVersion, payload)
	require.NoError(t, err)
	require.Equal(t, pgwire.ActionAsyncMessage, action.Kind)
	assert.Equal(t, pgwire.AsyncNegotiateProtocolVersion, action.Async.Kind)
	assert.Equal(t, int32(0), action.Async.NegotiateMinorVersion)
	assert.Equal(t, []string{"unrecognized_option"}, action.Async.NegotiateUnrecognizedOptions)

	// The handshake is unaffected: the next message still advances WaitingAuth.
	authOK := buildPayload(func(w *wire.Writer) { w.AddInt32(0) })
	action, err = c.Step(wire.ServerAuth, authOK)
	require.NoError(t, err)
	assert.Equal(t, pgwire.ActionNeedPacket, action.Kind)
}

// decodePasswordMessage strips the 'p' type byte, 4-byte length, and
// trailing NUL from a PasswordMessage packet.
func decodePasswordMessage(t *testing.T, packet []byte) string {
	t.Helper()
	require.Equal(t, byte('p'), packet[0])
	body := packet[5:]
	require.Equal(t, byte(0), body[len(body)-1])
	return string(body[:len(body)-1])
}
