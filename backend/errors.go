package backend

import "errors"

// ErrProtocol is wrapped by every parse error caused by malformed or
// unexpected wire data, as opposed to simple buffer underflow (wire.Reader
// already reports that as wire.ErrInsufficientData).
var ErrProtocol = errors.New("protocol violation")
