package pgwire_test

import "github.com/pgwire/pgwire/wire"

// buildPayload builds a server-message payload the way backend_test.go
// does: frame a message with an irrelevant type byte, then strip the
// 5-byte header so only the payload bytes remain.
func buildPayload(build func(w *wire.Writer)) []byte {
	w := wire.NewWriter(nil)
	w.Start(wire.ClientMessage(0))
	build(w)
	msg := w.End()
	return msg[5:]
}
