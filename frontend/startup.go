// Package frontend builds client (frontend) messages into a caller-supplied
// byte buffer, per spec §4.3. Every Write* function is sans-I/O: it returns
// the finished message bytes and the caller writes them to the transport.
package frontend

import "github.com/pgwire/pgwire/wire"

// WriteStartup builds a StartupMessage: protocol version followed by
// NUL-terminated (name, value) pairs, terminated by a zero byte. Startup
// parameters sent are, in order: user (required), database (if set),
// application_name (if set), then any extra params, per spec §6.
func WriteStartup(w *wire.Writer, version wire.Version, params [][2]string) []byte {
	w.StartUntyped()
	w.AddInt32(int32(version))

	for _, kv := range params {
		w.AddCString(kv[0])
		w.AddCString(kv[1])
	}

	w.AddNullTerminate()
	return w.End()
}

// WriteSSLRequest builds an SSLRequest: a startup-class message carrying
// only the SSL request code (spec §6).
func WriteSSLRequest(w *wire.Writer) []byte {
	w.StartUntyped()
	w.AddInt32(int32(wire.VersionSSLRequest))
	return w.End()
}

// WriteCancelRequest builds a CancelRequest for a second, short-lived
// connection: the cancel request code plus the target session's
// BackendKeyData (spec §5, §6).
func WriteCancelRequest(w *wire.Writer, pid, secretKey uint32) []byte {
	w.StartUntyped()
	w.AddInt32(int32(wire.VersionCancel))
	w.AddUint32(pid)
	w.AddUint32(secretKey)
	return w.End()
}

// WriteTerminate builds a Terminate message.
func WriteTerminate(w *wire.Writer) []byte {
	w.Start(wire.ClientTerminate)
	return w.End()
}
