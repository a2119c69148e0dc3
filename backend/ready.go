package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// ParseReadyForQuery parses a ReadyForQuery message payload: a single status
// byte identifying the transaction state (spec §3).
func ParseReadyForQuery(payload []byte) (wire.TransactionStatus, error) {
	r := wire.NewReader(payload)
	b, err := r.GetByte()
	if err != nil {
		return 0, fmt.Errorf("ready for query status: %w", err)
	}

	return wire.TransactionStatus(b), nil
}

// BackendKeyData identifies a session for cancellation requests (spec §3).
type BackendKeyData struct {
	PID       uint32
	SecretKey uint32
}

// ParseBackendKeyData parses a BackendKeyData message payload.
func ParseBackendKeyData(payload []byte) (BackendKeyData, error) {
	r := wire.NewReader(payload)

	pid, err := r.GetUint32()
	if err != nil {
		return BackendKeyData{}, fmt.Errorf("backend key data pid: %w", err)
	}

	secret, err := r.GetUint32()
	if err != nil {
		return BackendKeyData{}, fmt.Errorf("backend key data secret: %w", err)
	}

	return BackendKeyData{PID: pid, SecretKey: secret}, nil
}
