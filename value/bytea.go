package value

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// Bytes is a nullable BYTEA column/parameter value (spec §4.4).
type Bytes struct {
	Value []byte
	Valid bool
}

func (b *Bytes) FromNull() error {
	*b = Bytes{}
	return nil
}

// FromText accepts both BYTEA text representations the server may emit: the
// modern `\x`-prefixed hex encoding, and the legacy escape format passed
// through unescaped as raw bytes.
func (b *Bytes) FromText(oid wire.Oid, data []byte) error {
	if oid != wire.Bytea {
		return unsupportedOid(oid, "bytea")
	}

	if bytes.HasPrefix(data, []byte("\\x")) {
		decoded, err := hex.DecodeString(string(data[2:]))
		if err != nil {
			return decodeErr(oid, "bytea", fmt.Errorf("hex: %w", err))
		}
		*b = Bytes{Value: decoded, Valid: true}
		return nil
	}

	*b = Bytes{Value: append([]byte(nil), data...), Valid: true}
	return nil
}

func (b *Bytes) FromBinary(oid wire.Oid, data []byte) error {
	if oid != wire.Bytea {
		return unsupportedOid(oid, "bytea")
	}

	*b = Bytes{Value: append([]byte(nil), data...), Valid: true}
	return nil
}

func (b Bytes) NaturalOid() wire.Oid { return wire.Bytea }

func (b Bytes) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if targetOid != wire.Bytea {
		return nil, unsupportedOid(targetOid, "bytea")
	}
	if !b.Valid {
		return nil, nil
	}

	return b.Value, nil
}
