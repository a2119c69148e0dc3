package frontend

import "github.com/pgwire/pgwire/wire"

// WriteCopyData builds a CopyData message carrying one chunk of COPY
// payload bytes (spec §4.3).
func WriteCopyData(w *wire.Writer, data []byte) []byte {
	w.Start(wire.ClientCopyData)
	w.AddBytes(data)
	return w.End()
}

// WriteCopyDone builds a CopyDone message, signaling the end of a
// client-originated COPY data stream.
func WriteCopyDone(w *wire.Writer) []byte {
	w.Start(wire.ClientCopyDone)
	return w.End()
}

// WriteCopyFail builds a CopyFail message, aborting a COPY FROM STDIN
// with the given error message.
func WriteCopyFail(w *wire.Writer, reason string) []byte {
	w.Start(wire.ClientCopyFail)
	w.AddCString(reason)
	return w.End()
}
