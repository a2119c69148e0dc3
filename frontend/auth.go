package frontend

import "github.com/pgwire/pgwire/wire"

// WritePassword builds a PasswordMessage carrying a cleartext or
// pre-hashed (MD5) password response (spec §4.3, §7.1, §7.2).
func WritePassword(w *wire.Writer, password string) []byte {
	w.Start(wire.ClientPassword)
	w.AddCString(password)
	return w.End()
}

// WriteSASLInitialResponse builds the first client message of a SASL
// exchange: the chosen mechanism name followed by the length-prefixed
// initial client response (spec §7.3). A nil data slice is encoded as a
// -1 length, meaning "no initial response".
func WriteSASLInitialResponse(w *wire.Writer, mechanism string, data []byte) []byte {
	w.Start(wire.ClientPassword)
	w.AddCString(mechanism)
	w.AddInt32PrefixedBytes(data)
	return w.End()
}

// WriteSASLResponse builds a subsequent SASL exchange message: the raw
// response bytes with no additional framing (spec §7.3).
func WriteSASLResponse(w *wire.Writer, data []byte) []byte {
	w.Start(wire.ClientPassword)
	w.AddBytes(data)
	return w.End()
}
