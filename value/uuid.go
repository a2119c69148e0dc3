package value

import (
	"encoding/hex"
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// UUID is a nullable 16-byte UUID column/parameter value (spec §4.4). No
// example repo in the retrieval pack imports a UUID library, so this codec
// is hand-rolled against the standard library's encoding/hex.
type UUID struct {
	Value [16]byte
	Valid bool
}

func (u *UUID) FromNull() error {
	*u = UUID{}
	return nil
}

func (u *UUID) FromText(oid wire.Oid, data []byte) error {
	if oid != wire.UUID {
		return unsupportedOid(oid, "uuid")
	}

	v, err := parseUUIDText(string(data))
	if err != nil {
		return decodeErr(oid, "uuid", err)
	}

	*u = UUID{Value: v, Valid: true}
	return nil
}

func (u *UUID) FromBinary(oid wire.Oid, data []byte) error {
	if oid != wire.UUID {
		return unsupportedOid(oid, "uuid")
	}
	if len(data) != 16 {
		return decodeErr(oid, "uuid", fmt.Errorf("want 16 bytes, got %d", len(data)))
	}

	var v [16]byte
	copy(v[:], data)
	*u = UUID{Value: v, Valid: true}
	return nil
}

func (u UUID) NaturalOid() wire.Oid { return wire.UUID }

func (u UUID) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if targetOid != wire.UUID {
		return nil, unsupportedOid(targetOid, "uuid")
	}
	if !u.Valid {
		return nil, nil
	}

	out := make([]byte, 16)
	copy(out, u.Value[:])
	return out, nil
}

// String renders the UUID in canonical 8-4-4-4-12 hyphenated form.
func (u UUID) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], u.Value[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u.Value[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u.Value[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u.Value[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], u.Value[10:16])
	return string(buf[:])
}

func parseUUIDText(s string) ([16]byte, error) {
	var out [16]byte

	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return out, fmt.Errorf("malformed uuid %q", s)
	}

	hexDigits := s[0:8] + s[9:13] + s[14:18] + s[19:23] + s[24:36]
	decoded, err := hex.DecodeString(hexDigits)
	if err != nil || len(decoded) != 16 {
		return out, fmt.Errorf("malformed uuid %q", s)
	}

	copy(out[:], decoded)
	return out, nil
}
